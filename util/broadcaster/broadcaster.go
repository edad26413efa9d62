package broadcaster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	nnscommon "github.com/tranvictor/nns/common"
)

var ErrNoClients = errors.New("no node to broadcast to")

// RPCClient is the part of *rpc.Client the broadcaster needs.
type RPCClient interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Broadcaster takes a signed tx and tries to broadcast it to all
// nodes that it manages as fast as possible. The tx counts as broadcasted
// as soon as one node accepted it.
type Broadcaster struct {
	clients map[string]RPCClient
	timeout time.Duration
}

func NewBroadcaster(clients map[string]RPCClient, timeout time.Duration) *Broadcaster {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Broadcaster{
		clients: clients,
		timeout: timeout,
	}
}

func NewGenericBroadcaster(nodes map[string]string, timeout time.Duration, l *zap.Logger) *Broadcaster {
	clients := map[string]RPCClient{}
	for name, url := range nodes {
		client, err := rpc.Dial(url)
		if err != nil {
			l.Warn("couldn't connect to node", zap.String("node", name), zap.Error(err))
			continue
		}
		clients[name] = client
	}
	return NewBroadcaster(clients, timeout)
}

func (b *Broadcaster) GetNodes() map[string]RPCClient {
	return b.clients
}

func (b *Broadcaster) broadcast(ctx context.Context, client RPCClient, data string) error {
	return client.CallContext(ctx, nil, "eth_sendRawTransaction", data)
}

func (b *Broadcaster) BroadcastTx(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	data, err := tx.MarshalBinary()
	if err != nil {
		return common.Hash{}, fmt.Errorf("tx is not valid, couldn't use rlp to encode it: %w", err)
	}
	hash, err := b.Broadcast(ctx, hexutil.Encode(data))
	if err != nil {
		return common.Hash{}, err
	}
	return nnscommon.HexToHash(hash), nil
}

// Broadcast sends the hex encoded signed tx to every node and returns its
// hash. It fails only when no node accepted it.
func (b *Broadcaster) Broadcast(ctx context.Context, data string) (string, error) {
	if len(b.clients) == 0 {
		return "", ErrNoClients
	}
	timeout, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	parallelTasks := []func() error{}
	for name := range b.clients {
		name, cli := name, b.clients[name]
		parallelTasks = append(parallelTasks, func() error {
			if err := b.broadcast(timeout, cli, data); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	numErrs, err := nnscommon.RunParallel(parallelTasks...)
	if numErrs == len(b.clients) {
		return nnscommon.RawTxToHash(data), fmt.Errorf("couldn't broadcast to any nodes: %w", err)
	}
	return nnscommon.RawTxToHash(data), nil
}
