package nns

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/contracts"
	"github.com/tranvictor/nns/metrics"
	"github.com/tranvictor/nns/names"
	"github.com/tranvictor/nns/namehash"
	"github.com/tranvictor/nns/session"
)

const (
	addrA = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	addrB = "0x00000000000000000000000000000000000A11cE"
)

type fixture struct {
	calls     *chainCalls
	registrar *fakeRegistrar
	resolver  *fakeResolver
	registry  *fakeRegistry
	store     *session.Store
	metrics   *metrics.Metrics
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	calls := &chainCalls{}
	f := &fixture{
		calls: calls,
		registrar: &fakeRegistrar{
			calls:     calls,
			available: map[string]bool{},
			records:   map[string]contracts.DomainRecord{},
			owned:     map[common.Address][]string{},
			fee:       big.NewInt(5e17),
			domainErr: map[string]error{},
		},
		resolver: &fakeResolver{
			calls:   calls,
			texts:   map[common.Hash]map[string]string{},
			textErr: map[string]error{},
			setErr:  map[string]error{},
		},
		registry: &fakeRegistry{calls: calls},
		store:    session.NewStore([]byte("test-secret"), time.Hour),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
	f.svc = NewService(Options{
		Registry:    f.registry,
		Resolver:    f.resolver,
		Registrar:   f.registrar,
		Guard:       session.NewGuard(f.store, "siwe", nil),
		TLD:         names.Nexus,
		MinDuration: 31536000,
		Metrics:     f.metrics,
	})
	return f
}

func (f *fixture) token(t *testing.T, address string) string {
	token, err := f.store.Issue(address)
	require.NoError(t, err)
	return token
}

func (f *fixture) addRecord(label string, owner common.Address, texts map[string]string) {
	f.registrar.records[label] = contracts.DomainRecord{
		Owner:   owner,
		Expires: big.NewInt(1731536000),
		Exists:  true,
		TokenID: big.NewInt(9),
	}
	f.resolver.texts[namehash.NameHash(label+".nexus")] = texts
}

func strPtr(s string) *string {
	return &s
}

func TestRegisterHappyPath(t *testing.T) {
	f := newFixture(t)
	f.registrar.available["foo"] = true

	res, err := f.svc.Register(context.Background(), RegisterRequest{
		Name:    "Foo.nexus",
		Owner:   addrA,
		Session: f.token(t, addrA),
	})
	require.NoError(t, err)
	assert.Equal(t, "foo.nexus", res.Name)
	assert.Equal(t, "foo", res.Label)
	assert.Equal(t, common.HexToHash("0x1234"), res.TxHash)
	assert.Equal(t, []string{"foo"}, f.registrar.registered)
	assert.Equal(t, big.NewInt(5e17), f.registrar.paid)
	assert.Equal(t, "31536000", f.registrar.duration.String())
	assert.Equal(t, []string{"available", "registrationFee", "register"}, f.calls.calls)
}

func TestRegisterRejectsOtherWalletWithoutChainCalls(t *testing.T) {
	f := newFixture(t)
	f.registrar.available["foo"] = true

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Name:    "foo",
		Owner:   addrA,
		Session: f.token(t, addrB),
	})
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, MsgSessionInvalid, err.Error())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, f.calls.count())
}

func TestRegisterValidatesBeforeAuthorizing(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), RegisterRequest{Name: "ab", Owner: addrA})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, names.RuleTooShort, ve.Rule)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.svc.Register(context.Background(), RegisterRequest{Name: "foo", Owner: "0x1234"})
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Equal(t, 0, f.calls.count())
}

func TestRegisterUnavailable(t *testing.T) {
	f := newFixture(t)
	f.registrar.available["foo"] = false

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Name:    "foo",
		Owner:   addrA,
		Session: f.token(t, addrA),
	})
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "foo.nexus is already registered", err.Error())
	assert.False(t, f.calls.has("register"))
	assert.False(t, f.calls.has("registrationFee"))
}

func TestRegisterChainFailure(t *testing.T) {
	f := newFixture(t)
	f.registrar.available["foo"] = true
	f.registrar.regErr = &contracts.ChainError{Op: "registrar.register", Reason: "insufficient fee"}

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Name:    "foo",
		Owner:   addrA,
		Session: f.token(t, addrA),
	})
	assert.Equal(t, KindChain, KindOf(err))
	assert.Contains(t, err.Error(), "insufficient fee")
}

func TestRegisterUnconfirmed(t *testing.T) {
	f := newFixture(t)
	f.registrar.available["foo"] = true
	f.registrar.regErr = &contracts.UnconfirmedError{TxHash: common.HexToHash("0x99"), Err: ErrUnconfirmed}

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Name:    "foo",
		Owner:   addrA,
		Session: f.token(t, addrA),
	})
	assert.ErrorIs(t, err, ErrUnconfirmed)
	assert.Equal(t, KindUnconfirmed, KindOf(err))
}

func TestPrepareRegister(t *testing.T) {
	f := newFixture(t)
	f.registrar.available["foo"] = true

	tx, err := f.svc.PrepareRegister(context.Background(), RegisterRequest{
		Name:    "foo",
		Owner:   addrA,
		Session: f.token(t, addrA),
	})
	require.NoError(t, err)
	assert.Equal(t, f.registrar.Address(), tx.To)
	assert.Equal(t, big.NewInt(5e17), tx.Value)
	assert.False(t, f.calls.has("register"))

	method := nnscommon.GetRegistrarABI().Methods["register"]
	args, err := method.Inputs.Unpack(tx.Data[4:])
	require.NoError(t, err)
	assert.Equal(t, "foo", args[0])
	assert.Equal(t, common.HexToAddress(addrA), args[1])
	assert.Equal(t, "31536000", args[2].(*big.Int).String())
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	f.registrar.available["bar"] = true

	ok, err := f.svc.CheckAvailability(context.Background(), "BAR.nexus")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.CheckAvailability(context.Background(), "-bar")
	assert.Error(t, err)
}

func TestUpdateProfileWritesPresentFields(t *testing.T) {
	f := newFixture(t)
	f.addRecord("alice", common.HexToAddress(addrA), nil)
	res, err := f.svc.UpdateProfile(context.Background(), UpdateRequest{
		Name:     "alice",
		Owner:    addrA,
		Session:  f.token(t, addrA),
		Avatar:   strPtr("ipfs://QmAvatar"),
		Telegram: strPtr("alice_tg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice.nexus", res.Name)
	assert.Len(t, res.TxHashes, 2)
	assert.Equal(t, map[string]string{"avatar": "ipfs://QmAvatar", "org.telegram": "alice_tg"}, f.resolver.written)
}

func TestUpdateProfileChecks(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateProfile(context.Background(), UpdateRequest{
		Name: "alice", Owner: addrA, Session: f.token(t, addrA),
	})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	_, err = f.svc.UpdateProfile(context.Background(), UpdateRequest{
		Name: "alice", Owner: addrA, Session: f.token(t, addrA), Twitter: strPtr("alice bob"),
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, names.RuleWhitespace, ve.Rule)

	_, err = f.svc.UpdateProfile(context.Background(), UpdateRequest{
		Name: "alice", Owner: addrA, Session: "garbage", Twitter: strPtr("alice"),
	})
	assert.Equal(t, MsgUnauthorized, err.Error())
	assert.Equal(t, 0, f.calls.count())
}

func TestUpdateProfilePartialFailure(t *testing.T) {
	f := newFixture(t)
	f.addRecord("alice", common.HexToAddress(addrA), nil)
	f.resolver.setErr[contracts.KeyTwitter] = &contracts.ChainError{Op: "resolver.setText", Reason: "not owner"}

	res, err := f.svc.UpdateProfile(context.Background(), UpdateRequest{
		Name:    "alice",
		Owner:   addrA,
		Session: f.token(t, addrA),
		Avatar:  strPtr("https://example.com/a.png"),
		Twitter: strPtr("alice"),
	})
	require.Error(t, err)
	assert.Equal(t, KindChain, KindOf(err))
	assert.Contains(t, res.TxHashes, contracts.KeyAvatar)
	assert.NotContains(t, res.TxHashes, contracts.KeyTwitter)
}

func TestPrepareUpdate(t *testing.T) {
	f := newFixture(t)
	txs, err := f.svc.PrepareUpdate(context.Background(), UpdateRequest{
		Name: "alice", Owner: addrA, Session: f.token(t, addrA), Twitter: strPtr("alice"),
	})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, f.resolver.Address(), txs[0].To)
	assert.Nil(t, txs[0].Value)
	assert.Equal(t, 0, f.calls.count())
}

func TestUpdateProfileRejectsNameOfAnotherOwner(t *testing.T) {
	f := newFixture(t)
	f.addRecord("victim", common.HexToAddress(addrB), nil)

	_, err := f.svc.UpdateProfile(context.Background(), UpdateRequest{
		Name: "victim", Owner: addrA, Session: f.token(t, addrA), Avatar: strPtr("ipfs://evil"),
	})
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))
	assert.Equal(t, MsgNotOwner, err.Error())
	assert.Empty(t, f.resolver.written)
	assert.Equal(t, 1, f.calls.count())

	_, err = f.svc.UpdateProfile(context.Background(), UpdateRequest{
		Name: "nobody", Owner: addrA, Session: f.token(t, addrA), Avatar: strPtr("ipfs://x"),
	})
	assert.Equal(t, KindAuthorization, KindOf(err))
	assert.Empty(t, f.resolver.written)
}

func TestUpdateProfileOwnerReadFailure(t *testing.T) {
	f := newFixture(t)
	f.registrar.domainErr["alice"] = &contracts.ChainError{Op: "registrar.getDomain", Err: errNode}
	_, err := f.svc.UpdateProfile(context.Background(), UpdateRequest{
		Name: "alice", Owner: addrA, Session: f.token(t, addrA), Twitter: strPtr("alice"),
	})
	assert.Equal(t, KindChain, KindOf(err))
	assert.Empty(t, f.resolver.written)
}

func TestSetAddressRejectsNameOfAnotherOwner(t *testing.T) {
	f := newFixture(t)
	f.addRecord("victim", common.HexToAddress(addrB), nil)
	_, err := f.svc.SetAddress(context.Background(), SetAddressRequest{
		Name: "victim", Owner: addrA, Session: f.token(t, addrA), Address: addrA,
	})
	assert.Equal(t, KindAuthorization, KindOf(err))
	assert.Equal(t, common.Address{}, f.resolver.setAddr)
}

func TestSetAddress(t *testing.T) {
	f := newFixture(t)
	f.addRecord("alice", common.HexToAddress(addrA), nil)
	hash, err := f.svc.SetAddress(context.Background(), SetAddressRequest{
		Name: "alice", Owner: addrA, Session: f.token(t, addrA), Address: addrB,
	})
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0xadd"), hash)
	assert.Equal(t, common.HexToAddress(addrB), f.resolver.setAddr)

	_, err = f.svc.SetAddress(context.Background(), SetAddressRequest{
		Name: "alice", Owner: addrA, Session: f.token(t, addrA), Address: "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	owner := common.HexToAddress(addrA)
	f.addRecord("alice", owner, map[string]string{
		contracts.KeyAvatar:  "ipfs://QmAvatar",
		contracts.KeyTwitter: "alice",
	})

	p, err := f.svc.GetProfile(context.Background(), "alice.nexus")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice.nexus", p.Name)
	assert.Equal(t, owner, p.Owner)
	assert.Equal(t, "ipfs://QmAvatar", *p.Avatar)
	assert.Equal(t, "alice", *p.Twitter)
	assert.Nil(t, p.Telegram)
}

func TestGetProfileAbsentIsNotAnError(t *testing.T) {
	f := newFixture(t)
	p, err := f.svc.GetProfile(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, f.calls.has("text"))
}

func TestGetProfileDegradesUnreadableFields(t *testing.T) {
	f := newFixture(t)
	owner := common.HexToAddress(addrA)
	f.addRecord("alice", owner, map[string]string{})
	for _, key := range []string{contracts.KeyAvatar, contracts.KeyTwitter, contracts.KeyTelegram} {
		f.resolver.textErr[key] = errNode
	}

	p, err := f.svc.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, owner, p.Owner)
	assert.Nil(t, p.Avatar)
	assert.Nil(t, p.Twitter)
	assert.Nil(t, p.Telegram)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ProfileDegraded.WithLabelValues(contracts.KeyAvatar)))
}

func TestGetProfileRegistrarFailure(t *testing.T) {
	f := newFixture(t)
	f.registrar.domainErr["alice"] = &contracts.ChainError{Op: "registrar.getDomain", Err: errNode}
	_, err := f.svc.GetProfile(context.Background(), "alice")
	assert.Equal(t, KindChain, KindOf(err))
}

func TestGetProfilesOfOwnerKeepsOrder(t *testing.T) {
	f := newFixture(t)
	owner := common.HexToAddress(addrA)
	labels := []string{"zeta", "alpha", "gone", "mid"}
	f.registrar.owned[owner] = labels
	for _, l := range []string{"zeta", "alpha", "mid"} {
		f.addRecord(l, owner, map[string]string{contracts.KeyTwitter: l + "_x"})
	}

	profiles, err := f.svc.GetProfilesOfOwner(context.Background(), addrA)
	require.NoError(t, err)
	got := []string{}
	for _, p := range profiles {
		got = append(got, p.Label)
		assert.Equal(t, p.Label+"_x", *p.Twitter)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got)
}

func TestGetProfilesOfOwnerFailsOnRegistrarError(t *testing.T) {
	f := newFixture(t)
	owner := common.HexToAddress(addrA)
	f.registrar.owned[owner] = []string{"alpha", "beta"}
	f.addRecord("alpha", owner, nil)
	f.registrar.domainErr["beta"] = &contracts.ChainError{Op: "registrar.getDomain", Err: errNode}

	_, err := f.svc.GetProfilesOfOwner(context.Background(), addrA)
	assert.True(t, errors.Is(err, errNode))
}

func TestGetDomainsOfOwnerFormatsNames(t *testing.T) {
	f := newFixture(t)
	f.registrar.owned[common.HexToAddress(addrA)] = []string{"alpha", "beta"}
	got, err := f.svc.GetDomainsOfOwner(context.Background(), addrA)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.nexus", "beta.nexus"}, got)

	_, err = f.svc.GetDomainsOfOwner(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestGetDomainInfo(t *testing.T) {
	f := newFixture(t)
	owner := common.HexToAddress(addrA)
	f.addRecord("alice", owner, nil)
	f.registry.resolver = f.resolver.Address()
	f.resolver.addrErr = errNode

	info, err := f.svc.GetDomainInfo(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.Equal(t, namehash.NameHash("alice.nexus"), info.Node)
	assert.Equal(t, f.resolver.Address(), info.Resolver)
	assert.Equal(t, common.Address{}, info.Addr)

	info, err = f.svc.GetDomainInfo(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, info.Exists)
}

func TestListAllIsUnsupported(t *testing.T) {
	_, err := newFixture(t).svc.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrEnumerationUnsupported)
}

func TestSignerAuthorizer(t *testing.T) {
	a := SignerAuthorizer{Address: addrA}
	assert.NoError(t, a.Authorize("", addrA))
	assert.ErrorIs(t, a.Authorize("", strings.ToLower(addrA)), ErrUnauthorized)
	assert.ErrorIs(t, SignerAuthorizer{}.Authorize("", ""), ErrUnauthorized)
}
