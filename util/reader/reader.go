package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	nnscommon "github.com/tranvictor/nns/common"
)

var ErrNoNodes = errors.New("no node configured")

// EthReader sends every read to all of its nodes at once and returns the
// first successful answer. It fails only when every node failed, with the
// per node errors joined.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string, timeout time.Duration) *EthReader {
	ns := map[string]EthereumNode{}
	for name, url := range nodes {
		ns[name] = NewOneNodeReader(name, url, timeout)
	}
	return &EthReader{nodes: ns}
}

// NewEthReaderWithNodes builds a reader on already constructed nodes.
func NewEthReaderWithNodes(nodes ...EthereumNode) *EthReader {
	ns := map[string]EthereumNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &EthReader{nodes: ns}
}

func (er *EthReader) Nodes() map[string]EthereumNode {
	return er.nodes
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

func firstSuccess[T any](
	ctx context.Context,
	nodes map[string]EthereumNode,
	read func(ctx context.Context, n EthereumNode) (T, error),
) (T, error) {
	var zero T
	if len(nodes) == 0 {
		return zero, ErrNoNodes
	}
	resCh := make(chan nodeResult[T], len(nodes))
	for i := range nodes {
		n := nodes[i]
		go func() {
			v, err := read(ctx, n)
			resCh <- nodeResult[T]{
				Value: v,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ChainID(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.ChainID(ctx)
	})
}

// CallContract performs an eth_call against the latest block.
func (er *EthReader) CallContract(ctx context.Context, caddr common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &caddr, Data: data}
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.CallContract(ctx, msg)
	})
}

func (er *EthReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.EstimateGas(ctx, msg)
	})
}

func (er *EthReader) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.GetBalance(ctx, address)
	})
}

func (er *EthReader) GetPendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.GetPendingNonce(ctx, address)
	})
}

func (er *EthReader) SuggestedGasPrice(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasPrice(ctx)
	})
}

func (er *EthReader) SuggestedGasTipCap(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasTipCap(ctx)
	})
}

func (er *EthReader) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*types.Header, error) {
		return n.HeaderByNumber(ctx, number)
	})
}

type txByHash struct {
	tx        *types.Transaction
	isPending bool
}

func (er *EthReader) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	res, err := firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (txByHash, error) {
		tx, isPending, err := n.TransactionByHash(ctx, hash)
		return txByHash{tx, isPending}, err
	})
	return res.tx, res.isPending, err
}

func (er *EthReader) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*types.Receipt, error) {
		return n.TransactionReceipt(ctx, hash)
	})
}

// TxInfoFromHash classifies a transaction. A tx unknown to every node is
// reported as notfound without an error.
func (er *EthReader) TxInfoFromHash(ctx context.Context, hash common.Hash) (nnscommon.TxInfo, error) {
	txObj, isPending, err := er.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nnscommon.TxInfo{Status: nnscommon.TxStatusNotFound}, nil
		}
		return nnscommon.TxInfo{Status: nnscommon.TxStatusError}, err
	}
	if txObj == nil {
		return nnscommon.TxInfo{Status: nnscommon.TxStatusNotFound}, nil
	}
	if isPending {
		return nnscommon.TxInfo{Status: nnscommon.TxStatusPending, Tx: txObj}, nil
	}

	receipt, err := er.TransactionReceipt(ctx, hash)
	if receipt == nil {
		if errors.Is(err, ethereum.NotFound) {
			err = nil
		}
		return nnscommon.TxInfo{Status: nnscommon.TxStatusPending, Tx: txObj}, err
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		return nnscommon.TxInfo{Status: nnscommon.TxStatusDone, Tx: txObj, Receipt: receipt}, nil
	}
	return nnscommon.TxInfo{Status: nnscommon.TxStatusReverted, Tx: txObj, Receipt: receipt}, nil
}
