package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/tranvictor/nns/metrics"
)

// Options carries the collaborators shared by every binding. Transactor
// may be nil for read only use.
type Options struct {
	Caller     Caller
	Transactor Transactor
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

type contract struct {
	name       string
	address    common.Address
	abi        *abi.ABI
	caller     Caller
	transactor Transactor
	l          *zap.Logger
	metrics    *metrics.Metrics
}

func newContract(name string, address common.Address, a *abi.ABI, opts Options) contract {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return contract{
		name:       name,
		address:    address,
		abi:        a,
		caller:     opts.Caller,
		transactor: opts.Transactor,
		l:          l.With(zap.String("contract", name)),
		metrics:    opts.Metrics,
	}
}

func (c *contract) Address() common.Address {
	return c.address
}

func (c *contract) op(method string) string {
	return c.name + "." + method
}

// read packs the call, runs it and unpacks the reply into result, a
// pointer to the single output or to a struct for tuple outputs.
func (c *contract) read(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("couldn't pack %s: %w", c.op(method), err)
	}
	out, err := c.caller.CallContract(ctx, c.address, data)
	c.metrics.RecordContractCall(c.name, method, err)
	if err != nil {
		c.l.Debug("contract read failed", zap.String("method", method), zap.Error(err))
		return newChainError(c.op(method), err)
	}
	if err := c.abi.UnpackIntoInterface(result, method, out); err != nil {
		return &ChainError{Op: c.op(method), Err: fmt.Errorf("malformed reply: %w", err)}
	}
	c.l.Debug("contract read", zap.String("method", method))
	return nil
}

func (c *contract) write(ctx context.Context, value *big.Int, method string, args ...interface{}) (*types.Receipt, error) {
	if c.transactor == nil {
		return nil, ErrReadOnly
	}
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack %s: %w", c.op(method), err)
	}
	receipt, err := c.transactor.Transact(ctx, c.address, value, data)
	if err != nil {
		var ue *UnconfirmedError
		if errors.As(err, &ue) {
			c.metrics.RecordTransaction(method, "unconfirmed")
			return nil, err
		}
		c.metrics.RecordTransaction(method, "failed")
		return nil, newChainError(c.op(method), err)
	}
	c.metrics.RecordTransaction(method, "done")
	return receipt, nil
}
