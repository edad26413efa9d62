package contracts

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	nnscommon "github.com/tranvictor/nns/common"
)

// Text record keys read and written by the profile flows.
const (
	KeyAvatar   = "avatar"
	KeyTwitter  = "com.twitter"
	KeyTelegram = "org.telegram"
)

type ResolverContract struct {
	contract
}

func NewResolver(address common.Address, opts Options) *ResolverContract {
	return &ResolverContract{newContract("resolver", address, nnscommon.GetResolverABI(), opts)}
}

func (r *ResolverContract) Addr(ctx context.Context, node common.Hash) (common.Address, error) {
	var addr common.Address
	err := r.read(ctx, &addr, "addr", [32]byte(node))
	return addr, err
}

// Text returns "" for a key that was never set.
func (r *ResolverContract) Text(ctx context.Context, node common.Hash, key string) (string, error) {
	var value string
	err := r.read(ctx, &value, "text", [32]byte(node), key)
	return value, err
}

func (r *ResolverContract) Name(ctx context.Context, node common.Hash) (string, error) {
	var name string
	err := r.read(ctx, &name, "name", [32]byte(node))
	return name, err
}

func (r *ResolverContract) SetAddr(ctx context.Context, node common.Hash, addr common.Address) (*types.Receipt, error) {
	return r.write(ctx, nil, "setAddr", [32]byte(node), addr)
}

func (r *ResolverContract) SetText(ctx context.Context, node common.Hash, key, value string) (*types.Receipt, error) {
	return r.write(ctx, nil, "setText", [32]byte(node), key, value)
}

func (r *ResolverContract) SetName(ctx context.Context, node common.Hash, name string) (*types.Receipt, error) {
	return r.write(ctx, nil, "setName", [32]byte(node), name)
}
