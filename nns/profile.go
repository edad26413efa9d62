package nns

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/contracts"
	"github.com/tranvictor/nns/namehash"
)

// Profile is the read view of a registered name. Optional fields are nil
// when the record is unset or could not be read.
type Profile struct {
	Name     string
	Label    string
	Owner    common.Address
	Expires  *big.Int
	TokenID  *big.Int
	Avatar   *string
	Twitter  *string
	Telegram *string
}

type DomainInfo struct {
	Name    string
	Label   string
	Node    common.Hash
	Exists  bool
	Owner   common.Address
	Expires *big.Int
	TokenID *big.Int
	// Resolver and Addr come from the registry and resolver. They are zero
	// when the name has none or the read failed.
	Resolver common.Address
	Addr     common.Address
}

// GetProfile returns nil without error when name is not registered.
func (s *Service) GetProfile(ctx context.Context, name string) (*Profile, error) {
	label, err := s.label(name)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, label)
}

func (s *Service) profile(ctx context.Context, label string) (*Profile, error) {
	record, err := s.registrar.GetDomain(ctx, label)
	if err != nil {
		return nil, err
	}
	if !record.Exists {
		return nil, nil
	}
	name := s.tld.Format(label)
	node := namehash.NameHash(name)
	p := &Profile{
		Name:    name,
		Label:   label,
		Owner:   record.Owner,
		Expires: record.Expires,
		TokenID: record.TokenID,
	}

	fields := []struct {
		key    string
		target **string
	}{
		{contracts.KeyAvatar, &p.Avatar},
		{contracts.KeyTwitter, &p.Twitter},
		{contracts.KeyTelegram, &p.Telegram},
	}
	var g errgroup.Group
	for _, f := range fields {
		f := f
		g.Go(func() error {
			value, err := s.resolver.Text(ctx, node, f.key)
			if err != nil {
				s.l.Warn("text record unreadable", zap.String("name", name), zap.String("key", f.key), zap.Error(err))
				s.metrics.RecordProfileDegraded(f.key)
				return nil
			}
			if value != "" {
				*f.target = &value
			}
			return nil
		})
	}
	_ = g.Wait()
	return p, nil
}

// GetProfilesOfOwner aggregates every name owner holds, in the order the
// registrar lists them. Names whose record no longer exists are dropped.
// A failed registrar read fails the whole call.
func (s *Service) GetProfilesOfOwner(ctx context.Context, owner string) ([]*Profile, error) {
	addr, err := nnscommon.ParseAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	labels, err := s.registrar.GetDomainsOfOwner(ctx, addr)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, len(labels))
	g, gctx := errgroup.WithContext(ctx)
	for i, label := range labels {
		i, label := i, s.tld.Label(label)
		g.Go(func() error {
			p, err := s.profile(gctx, label)
			if err != nil {
				return err
			}
			profiles[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := []*Profile{}
	for _, p := range profiles {
		if p != nil {
			result = append(result, p)
		}
	}
	return result, nil
}

// GetDomainsOfOwner lists the formatted names owned by owner.
func (s *Service) GetDomainsOfOwner(ctx context.Context, owner string) ([]string, error) {
	addr, err := nnscommon.ParseAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	labels, err := s.registrar.GetDomainsOfOwner(ctx, addr)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		result = append(result, s.tld.Format(label))
	}
	return result, nil
}

// GetDomainInfo reads the registrar record of name and, when it exists,
// its registry resolver and resolved address.
func (s *Service) GetDomainInfo(ctx context.Context, name string) (*DomainInfo, error) {
	label, err := s.label(name)
	if err != nil {
		return nil, err
	}
	record, err := s.registrar.GetDomain(ctx, label)
	if err != nil {
		return nil, err
	}
	full := s.tld.Format(label)
	info := &DomainInfo{
		Name:    full,
		Label:   label,
		Node:    namehash.NameHash(full),
		Exists:  record.Exists,
		Owner:   record.Owner,
		Expires: record.Expires,
		TokenID: record.TokenID,
	}
	if !record.Exists {
		return info, nil
	}
	_, _ = nnscommon.RunParallel(
		func() error {
			resolver, err := s.registry.Resolver(ctx, info.Node)
			if err != nil {
				s.l.Warn("resolver unreadable", zap.String("name", full), zap.Error(err))
				return err
			}
			info.Resolver = resolver
			return nil
		},
		func() error {
			addr, err := s.resolver.Addr(ctx, info.Node)
			if err != nil {
				s.l.Warn("addr record unreadable", zap.String("name", full), zap.Error(err))
				return err
			}
			info.Addr = addr
			return nil
		},
	)
	return info, nil
}

// ListAll is not supported, see ErrEnumerationUnsupported.
func (s *Service) ListAll(ctx context.Context) ([]*Profile, error) {
	return nil, ErrEnumerationUnsupported
}
