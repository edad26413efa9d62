// Package nns implements the name service flows on top of the contract
// bindings: availability and registration, profile updates, and the
// profile aggregation that feeds the read endpoints.
package nns

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/tranvictor/nns/contracts"
	"github.com/tranvictor/nns/metrics"
	"github.com/tranvictor/nns/names"
)

// Authorizer checks that whoever presents token may act for claimedOwner.
// session.Guard is the implementation used behind the HTTP API.
type Authorizer interface {
	Authorize(token string, claimedOwner string) error
}

// SignerAuthorizer authorizes the holder of a local key: the claimed owner
// must be exactly the checksummed signing address. The token is ignored.
type SignerAuthorizer struct {
	Address string
}

func (a SignerAuthorizer) Authorize(token string, claimedOwner string) error {
	if a.Address == "" || claimedOwner != a.Address {
		return ErrUnauthorized
	}
	return nil
}

type Options struct {
	Registry  contracts.Registry
	Resolver  contracts.Resolver
	Registrar contracts.Registrar
	Guard     Authorizer
	TLD       names.TLD
	// MinDuration is the registration period in seconds.
	MinDuration uint64
	Metadata    MetadataOptions
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

type Service struct {
	registry  contracts.Registry
	resolver  contracts.Resolver
	registrar contracts.Registrar
	guard     Authorizer
	tld       names.TLD
	duration  *big.Int
	metadata  MetadataOptions
	l         *zap.Logger
	metrics   *metrics.Metrics
}

func NewService(opts Options) *Service {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	tld := opts.TLD
	if tld == "" {
		tld = names.Nexus
	}
	return &Service{
		registry:  opts.Registry,
		resolver:  opts.Resolver,
		registrar: opts.Registrar,
		guard:     opts.Guard,
		tld:       tld,
		duration:  new(big.Int).SetUint64(opts.MinDuration),
		metadata:  opts.Metadata,
		l:         l,
		metrics:   opts.Metrics,
	}
}

func (s *Service) TLD() names.TLD {
	return s.tld
}

// label normalizes user input to a bare label and validates it.
func (s *Service) label(name string) (string, error) {
	label := s.tld.Label(name)
	if err := names.Validate(label); err != nil {
		return "", err
	}
	return label, nil
}

func (s *Service) authorize(token, owner, message string) error {
	if s.guard == nil {
		return &AuthorizationError{Message: message}
	}
	if err := s.guard.Authorize(token, owner); err != nil {
		return &AuthorizationError{Message: message}
	}
	return nil
}
