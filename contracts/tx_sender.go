package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/util/monitor"
)

// ChainReader is the read side TxSender needs to build a transaction.
type ChainReader interface {
	GetPendingNonce(ctx context.Context, address common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestedGasPrice(ctx context.Context) (*big.Int, error)
	SuggestedGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

type TxBroadcaster interface {
	BroadcastTx(ctx context.Context, tx *types.Transaction) (common.Hash, error)
}

type TxWaiter interface {
	Wait(ctx context.Context, hash common.Hash) (nnscommon.TxInfo, error)
}

type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// TxSender is the Transactor used against a live chain: it fills nonce,
// gas and fees, signs with its account, broadcasts to every node and waits
// for the receipt.
type TxSender struct {
	reader        ChainReader
	broadcaster   TxBroadcaster
	monitor       TxWaiter
	account       TxSigner
	chainID       *big.Int
	extraGasLimit uint64
	l             *zap.Logger

	// mu serializes nonce assignment so concurrent writes from the same
	// account never reuse a nonce.
	mu        sync.Mutex
	nextNonce uint64
}

func NewTxSender(
	reader ChainReader,
	broadcaster TxBroadcaster,
	txMonitor TxWaiter,
	account TxSigner,
	chainID *big.Int,
	extraGasLimit uint64,
	l *zap.Logger,
) *TxSender {
	if l == nil {
		l = zap.NewNop()
	}
	return &TxSender{
		reader:        reader,
		broadcaster:   broadcaster,
		monitor:       txMonitor,
		account:       account,
		chainID:       chainID,
		extraGasLimit: extraGasLimit,
		l:             l,
	}
}

func (s *TxSender) From() common.Address {
	return s.account.Address()
}

// buildTx returns an unsigned tx. Chains reporting a base fee get a
// dynamic fee tx with a fee cap of twice the base fee plus the tip.
func (s *TxSender) buildTx(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	from := s.account.Address()
	if value == nil {
		value = big.NewInt(0)
	}
	nonce, err := s.reader.GetPendingNonce(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("couldn't get nonce of %s: %w", from.Hex(), err)
	}
	if s.nextNonce > nonce {
		nonce = s.nextNonce
	}
	gas, err := s.reader.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, &ChainError{Op: "estimate gas", Reason: RevertReason(err), Err: err}
	}
	gas += s.extraGasLimit

	header, err := s.reader.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't get latest header: %w", err)
	}
	if header.BaseFee != nil {
		tip, err := s.reader.SuggestedGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("couldn't get gas tip suggestion: %w", err)
		}
		feeCap := new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(2)), tip)
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   s.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        &to,
			Value:     value,
			Data:      data,
		}), nil
	}
	price, err := s.reader.SuggestedGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't get gas price suggestion: %w", err)
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: price,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     data,
	}), nil
}

func (s *TxSender) send(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Transaction, common.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.buildTx(ctx, to, value, data)
	if err != nil {
		return nil, common.Hash{}, err
	}
	signed, err := s.account.SignTx(tx, s.chainID)
	if err != nil {
		return nil, common.Hash{}, err
	}
	hash, err := s.broadcaster.BroadcastTx(ctx, signed)
	if err != nil {
		return nil, common.Hash{}, &ChainError{Op: "broadcast", Reason: RevertReason(err), TxHash: signed.Hash(), Err: err}
	}
	s.nextNonce = signed.Nonce() + 1
	return signed, hash, nil
}

// forgetNonce drops the locally tracked nonce so the next tx takes the
// node's pending nonce again and fills the gap a lost tx left.
func (s *TxSender) forgetNonce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextNonce = 0
}

func (s *TxSender) Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	signed, hash, err := s.send(ctx, to, value, data)
	if err != nil {
		return nil, err
	}
	s.l.Info("transaction submitted",
		zap.String("tx", hash.Hex()),
		zap.String("from", s.account.Address().Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", signed.Nonce()),
	)

	info, err := s.monitor.Wait(ctx, hash)
	if err != nil {
		if errors.Is(err, monitor.ErrUnconfirmed) {
			s.l.Warn("transaction not confirmed in time", zap.String("tx", hash.Hex()))
			return nil, &UnconfirmedError{TxHash: hash, Err: err}
		}
		return nil, err
	}
	switch info.Status {
	case nnscommon.TxStatusDone:
		s.l.Info("transaction confirmed", zap.String("tx", hash.Hex()), zap.Uint64("gas_used", info.Receipt.GasUsed))
		return info.Receipt, nil
	case nnscommon.TxStatusReverted:
		return info.Receipt, &ChainError{Reason: "transaction reverted", TxHash: hash}
	case nnscommon.TxStatusLost:
		s.forgetNonce()
		return nil, &ChainError{Reason: "transaction was dropped by every node", TxHash: hash}
	default:
		return nil, &ChainError{Reason: fmt.Sprintf("unexpected status %s", info.Status), TxHash: hash}
	}
}
