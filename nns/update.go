package nns

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/contracts"
	"github.com/tranvictor/nns/names"
	"github.com/tranvictor/nns/namehash"
)

// UpdateRequest writes only the fields that are non nil. An empty string
// clears the record.
type UpdateRequest struct {
	Name     string
	Owner    string
	Session  string
	Avatar   *string
	Twitter  *string
	Telegram *string
}

type textUpdate struct {
	key   string
	value string
}

func (r UpdateRequest) updates() []textUpdate {
	result := []textUpdate{}
	if r.Avatar != nil {
		result = append(result, textUpdate{contracts.KeyAvatar, *r.Avatar})
	}
	if r.Twitter != nil {
		result = append(result, textUpdate{contracts.KeyTwitter, *r.Twitter})
	}
	if r.Telegram != nil {
		result = append(result, textUpdate{contracts.KeyTelegram, *r.Telegram})
	}
	return result
}

type UpdateResult struct {
	Name string
	// TxHashes maps each written text key to its transaction.
	TxHashes map[string]common.Hash
}

func (s *Service) precheckUpdate(req UpdateRequest) (string, []textUpdate, error) {
	label, err := s.label(req.Name)
	if err != nil {
		return "", nil, err
	}
	updates := req.updates()
	if len(updates) == 0 {
		return "", nil, ErrNothingToUpdate
	}
	for _, u := range updates {
		if err := names.ValidateTextValue(u.value); err != nil {
			return "", nil, err
		}
	}
	if err := s.authorize(req.Session, req.Owner, MsgUnauthorized); err != nil {
		return "", nil, err
	}
	return label, updates, nil
}

// checkOwner fails unless owner holds label on the registrar. Writes are
// signed by this service's key, which may not be owner's, so the resolver's
// own check is not enough.
func (s *Service) checkOwner(ctx context.Context, label, owner string) error {
	addr, err := nnscommon.ParseAddress(owner)
	if err != nil {
		return &AuthorizationError{Message: MsgNotOwner}
	}
	record, err := s.registrar.GetDomain(ctx, label)
	if err != nil {
		return err
	}
	if !record.Exists || record.Owner != addr {
		s.l.Debug("write rejected", zap.String("label", label), zap.String("owner", owner), zap.String("cause", "not the owner"))
		return &AuthorizationError{Message: MsgNotOwner}
	}
	return nil
}

// UpdateProfile writes the requested text records concurrently once owner
// is confirmed to hold the name. When some writes fail the result still
// lists the ones that went through.
func (s *Service) UpdateProfile(ctx context.Context, req UpdateRequest) (*UpdateResult, error) {
	label, updates, err := s.precheckUpdate(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, label, req.Owner); err != nil {
		return nil, err
	}
	name := s.tld.Format(label)
	node := namehash.NameHash(name)

	result := &UpdateResult{Name: name, TxHashes: map[string]common.Hash{}}
	var mu sync.Mutex
	tasks := []func() error{}
	for _, u := range updates {
		u := u
		tasks = append(tasks, func() error {
			receipt, err := s.resolver.SetText(ctx, node, u.key, u.value)
			if err != nil {
				return fmt.Errorf("%s: %w", u.key, err)
			}
			mu.Lock()
			result.TxHashes[u.key] = receipt.TxHash
			mu.Unlock()
			return nil
		})
	}
	failed, err := nnscommon.RunParallel(tasks...)
	if failed > 0 {
		s.l.Warn("profile update incomplete", zap.String("name", name), zap.Int("failed", failed), zap.Error(err))
		return result, err
	}
	s.l.Info("profile updated", zap.String("name", name), zap.Int("records", len(updates)))
	return result, nil
}

// PrepareUpdate runs the UpdateProfile checks and returns one setText call
// per field.
func (s *Service) PrepareUpdate(ctx context.Context, req UpdateRequest) ([]*PreparedTx, error) {
	label, updates, err := s.precheckUpdate(req)
	if err != nil {
		return nil, err
	}
	node := namehash.NameHash(s.tld.Format(label))
	result := []*PreparedTx{}
	for _, u := range updates {
		data, err := nnscommon.GetResolverABI().Pack("setText", [32]byte(node), u.key, u.value)
		if err != nil {
			return nil, fmt.Errorf("couldn't pack setText: %w", err)
		}
		result = append(result, &PreparedTx{
			Method: "setText",
			To:     s.resolver.Address(),
			Data:   data,
		})
	}
	return result, nil
}

type SetAddressRequest struct {
	Name    string
	Owner   string
	Session string
	Address string
}

// SetAddress points the name's resolver addr record at req.Address.
func (s *Service) SetAddress(ctx context.Context, req SetAddressRequest) (common.Hash, error) {
	label, err := s.label(req.Name)
	if err != nil {
		return common.Hash{}, err
	}
	target, err := nnscommon.ParseAddress(req.Address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("address: %w", err)
	}
	if err := s.authorize(req.Session, req.Owner, MsgUnauthorized); err != nil {
		return common.Hash{}, err
	}
	if err := s.checkOwner(ctx, label, req.Owner); err != nil {
		return common.Hash{}, err
	}
	name := s.tld.Format(label)
	receipt, err := s.resolver.SetAddr(ctx, namehash.NameHash(name), target)
	if err != nil {
		return common.Hash{}, err
	}
	s.l.Info("address record set", zap.String("name", name), zap.String("addr", target.Hex()))
	return receipt.TxHash, nil
}
