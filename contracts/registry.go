package contracts

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	nnscommon "github.com/tranvictor/nns/common"
)

// RegistryContract maps node hashes to owner, resolver and ttl.
type RegistryContract struct {
	contract
}

func NewRegistry(address common.Address, opts Options) *RegistryContract {
	return &RegistryContract{newContract("registry", address, nnscommon.GetRegistryABI(), opts)}
}

func (r *RegistryContract) Owner(ctx context.Context, node common.Hash) (common.Address, error) {
	var owner common.Address
	err := r.read(ctx, &owner, "owner", [32]byte(node))
	return owner, err
}

func (r *RegistryContract) Resolver(ctx context.Context, node common.Hash) (common.Address, error) {
	var resolver common.Address
	err := r.read(ctx, &resolver, "resolver", [32]byte(node))
	return resolver, err
}

func (r *RegistryContract) RecordExists(ctx context.Context, node common.Hash) (bool, error) {
	var exists bool
	err := r.read(ctx, &exists, "recordExists", [32]byte(node))
	return exists, err
}

func (r *RegistryContract) SetOwner(ctx context.Context, node common.Hash, owner common.Address) (*types.Receipt, error) {
	return r.write(ctx, nil, "setOwner", [32]byte(node), owner)
}

func (r *RegistryContract) SetResolver(ctx context.Context, node common.Hash, resolver common.Address) (*types.Receipt, error) {
	return r.write(ctx, nil, "setResolver", [32]byte(node), resolver)
}

func (r *RegistryContract) SetRecord(ctx context.Context, node common.Hash, owner, resolver common.Address, ttl uint64) (*types.Receipt, error) {
	return r.write(ctx, nil, "setRecord", [32]byte(node), owner, resolver, ttl)
}
