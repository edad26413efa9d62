package nns

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	nnscommon "github.com/tranvictor/nns/common"
)

type RegisterRequest struct {
	Name  string
	Owner string
	// Session is the token the Guard checks, the cookie value behind the
	// HTTP API.
	Session string
}

type RegisterResult struct {
	Name    string
	Label   string
	Owner   common.Address
	Fee     *big.Int
	TxHash  common.Hash
	TokenID *big.Int
	Expires *big.Int
}

// PreparedTx is a contract call the caller's wallet still has to sign.
type PreparedTx struct {
	Method string
	To     common.Address
	Value  *big.Int
	Data   []byte
}

// CheckAvailability validates name and asks the registrar whether its label
// is free.
func (s *Service) CheckAvailability(ctx context.Context, name string) (bool, error) {
	label, err := s.label(name)
	if err != nil {
		return false, err
	}
	return s.registrar.Available(ctx, label)
}

// precheck runs the steps every registration shares before anything is
// sent: validate, authorize, check availability and quote the fee. The
// first two never touch the chain.
func (s *Service) precheck(ctx context.Context, req RegisterRequest) (string, common.Address, *big.Int, error) {
	label, err := s.label(req.Name)
	if err != nil {
		return "", common.Address{}, nil, err
	}
	owner, err := nnscommon.ParseAddress(req.Owner)
	if err != nil {
		return "", common.Address{}, nil, fmt.Errorf("owner: %w", err)
	}
	if err := s.authorize(req.Session, req.Owner, MsgSessionInvalid); err != nil {
		return "", common.Address{}, nil, err
	}
	available, err := s.registrar.Available(ctx, label)
	if err != nil {
		return "", common.Address{}, nil, err
	}
	if !available {
		return "", common.Address{}, nil, &UnavailableError{Name: s.tld.Format(label)}
	}
	fee, err := s.registrar.RegistrationFee(ctx)
	if err != nil {
		return "", common.Address{}, nil, err
	}
	return label, owner, fee, nil
}

// Register registers name for req.Owner for one registration period,
// paying the current on-chain fee, and returns once the transaction is
// mined.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	label, owner, fee, err := s.precheck(ctx, req)
	if err != nil {
		return nil, err
	}
	reg, err := s.registrar.Register(ctx, label, owner, s.duration, fee)
	if err != nil {
		s.l.Warn("registration failed", zap.String("label", label), zap.String("owner", owner.Hex()), zap.Error(err))
		return nil, err
	}
	s.l.Info("name registered",
		zap.String("name", s.tld.Format(label)),
		zap.String("owner", reg.Owner.Hex()),
		zap.String("tx", reg.TxHash().Hex()),
	)
	return &RegisterResult{
		Name:    s.tld.Format(label),
		Label:   label,
		Owner:   reg.Owner,
		Fee:     fee,
		TxHash:  reg.TxHash(),
		TokenID: reg.TokenID,
		Expires: reg.Expires,
	}, nil
}

// PrepareRegister runs the same checks as Register but returns the
// register call instead of sending it.
func (s *Service) PrepareRegister(ctx context.Context, req RegisterRequest) (*PreparedTx, error) {
	label, owner, fee, err := s.precheck(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := nnscommon.GetRegistrarABI().Pack("register", label, owner, s.duration)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack register: %w", err)
	}
	return &PreparedTx{
		Method: "register",
		To:     s.registrar.Address(),
		Value:  fee,
		Data:   data,
	}, nil
}
