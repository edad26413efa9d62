package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	nnscommon "github.com/tranvictor/nns/common"
)

// RegistrarContract sells labels under the top level domain. It takes bare
// labels, never formatted names.
type RegistrarContract struct {
	contract
}

func NewRegistrar(address common.Address, opts Options) *RegistrarContract {
	return &RegistrarContract{newContract("registrar", address, nnscommon.GetRegistrarABI(), opts)}
}

type domainReply struct {
	Owner   common.Address
	Expires *big.Int
	Exists  bool
	TokenID *big.Int `abi:"tokenId"`
	Name    string
}

func (r domainReply) record() DomainRecord {
	return DomainRecord{
		Owner:   r.Owner,
		Expires: r.Expires,
		Exists:  r.Exists,
		TokenID: r.TokenID,
		Name:    r.Name,
	}
}

type domainRegisteredEvent struct {
	Expires    *big.Int
	DomainName string
	TokenID    *big.Int `abi:"tokenId"`
}

func (r *RegistrarContract) Available(ctx context.Context, label string) (bool, error) {
	var available bool
	err := r.read(ctx, &available, "available", label)
	return available, err
}

func (r *RegistrarContract) RegistrationFee(ctx context.Context) (*big.Int, error) {
	fee := new(big.Int)
	err := r.read(ctx, &fee, "registrationFee")
	return fee, err
}

// GetDomain never fails for unknown labels, it reports Exists false.
func (r *RegistrarContract) GetDomain(ctx context.Context, label string) (DomainRecord, error) {
	var reply domainReply
	if err := r.read(ctx, &reply, "getDomain", label); err != nil {
		return DomainRecord{}, err
	}
	return reply.record(), nil
}

func (r *RegistrarContract) GetDomainsOfOwner(ctx context.Context, owner common.Address) ([]string, error) {
	labels := []string{}
	err := r.read(ctx, &labels, "getDomainsOfOwner", owner)
	return labels, err
}

func (r *RegistrarContract) Domains(ctx context.Context, labelHash common.Hash) (DomainRecord, error) {
	var reply domainReply
	if err := r.read(ctx, &reply, "domains", [32]byte(labelHash)); err != nil {
		return DomainRecord{}, err
	}
	return reply.record(), nil
}

// Register pays fee to register label for owner. The returned registration
// is decoded from the DomainRegistered event of the receipt.
func (r *RegistrarContract) Register(ctx context.Context, label string, owner common.Address, duration, fee *big.Int) (*Registration, error) {
	receipt, err := r.write(ctx, fee, "register", label, owner, duration)
	if err != nil {
		return nil, err
	}
	reg := &Registration{Receipt: receipt, Owner: owner}
	event := r.abi.Events["DomainRegistered"]
	for _, lg := range receipt.Logs {
		if lg == nil || lg.Address != r.address || len(lg.Topics) < 4 || lg.Topics[0] != event.ID {
			continue
		}
		var ev domainRegisteredEvent
		if err := r.abi.UnpackIntoInterface(&ev, "DomainRegistered", lg.Data); err != nil {
			r.l.Warn("couldn't decode DomainRegistered", zap.Error(err))
			continue
		}
		reg.Owner = common.BytesToAddress(lg.Topics[3].Bytes())
		reg.TokenID = ev.TokenID
		reg.Expires = ev.Expires
		break
	}
	return reg, nil
}

func (r *RegistrarContract) Renew(ctx context.Context, label string, duration, fee *big.Int) (*types.Receipt, error) {
	return r.write(ctx, fee, "renew", label, duration)
}

func (r *RegistrarContract) Transfer(ctx context.Context, label string, to common.Address) (*types.Receipt, error) {
	return r.write(ctx, nil, "transfer", label, to)
}
