// Package contracts binds the three cooperating name service contracts.
//
// Every binding satisfies a static interface with one method per contract
// operation. View methods go through a Caller, state changing methods
// through a Transactor which only returns once the transaction reached a
// final status.
package contracts

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrReadOnly = errors.New("no transactor configured, contract is read only")

// Caller executes a view call against the latest block.
type Caller interface {
	CallContract(ctx context.Context, caddr common.Address, data []byte) ([]byte, error)
}

// Transactor builds, signs and submits a transaction, then waits for it
// to be mined. A reverted transaction is an error.
type Transactor interface {
	Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error)
}

type Registry interface {
	Address() common.Address
	Owner(ctx context.Context, node common.Hash) (common.Address, error)
	Resolver(ctx context.Context, node common.Hash) (common.Address, error)
	RecordExists(ctx context.Context, node common.Hash) (bool, error)
	SetOwner(ctx context.Context, node common.Hash, owner common.Address) (*types.Receipt, error)
	SetResolver(ctx context.Context, node common.Hash, resolver common.Address) (*types.Receipt, error)
	SetRecord(ctx context.Context, node common.Hash, owner, resolver common.Address, ttl uint64) (*types.Receipt, error)
}

type Resolver interface {
	Address() common.Address
	Addr(ctx context.Context, node common.Hash) (common.Address, error)
	Text(ctx context.Context, node common.Hash, key string) (string, error)
	Name(ctx context.Context, node common.Hash) (string, error)
	SetAddr(ctx context.Context, node common.Hash, addr common.Address) (*types.Receipt, error)
	SetText(ctx context.Context, node common.Hash, key, value string) (*types.Receipt, error)
	SetName(ctx context.Context, node common.Hash, name string) (*types.Receipt, error)
}

type Registrar interface {
	Address() common.Address
	Available(ctx context.Context, label string) (bool, error)
	RegistrationFee(ctx context.Context) (*big.Int, error)
	GetDomain(ctx context.Context, label string) (DomainRecord, error)
	GetDomainsOfOwner(ctx context.Context, owner common.Address) ([]string, error)
	Domains(ctx context.Context, labelHash common.Hash) (DomainRecord, error)
	Register(ctx context.Context, label string, owner common.Address, duration, fee *big.Int) (*Registration, error)
	Renew(ctx context.Context, label string, duration, fee *big.Int) (*types.Receipt, error)
	Transfer(ctx context.Context, label string, to common.Address) (*types.Receipt, error)
}

// DomainRecord is the registrar's view of a label. Name is only filled by
// Domains.
type DomainRecord struct {
	Owner   common.Address
	Expires *big.Int
	Exists  bool
	TokenID *big.Int
	Name    string
}

// Registration is the outcome of a mined register call. TokenID and
// Expires are nil when the receipt carries no DomainRegistered event.
type Registration struct {
	Receipt *types.Receipt
	Owner   common.Address
	TokenID *big.Int
	Expires *big.Int
}

func (r *Registration) TxHash() common.Hash {
	if r == nil || r.Receipt == nil {
		return common.Hash{}
	}
	return r.Receipt.TxHash
}
