package nns

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/nns/contracts"
)

var errNode = errors.New("node unreachable")

// chainCalls counts every call made to any fake contract.
type chainCalls struct {
	mu    sync.Mutex
	calls []string
}

func (c *chainCalls) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
}

func (c *chainCalls) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *chainCalls) has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, call := range c.calls {
		if call == name {
			return true
		}
	}
	return false
}

type fakeRegistrar struct {
	calls     *chainCalls
	available map[string]bool
	records   map[string]contracts.DomainRecord
	owned     map[common.Address][]string
	fee       *big.Int
	domainErr map[string]error
	regErr    error

	registered []string
	paid       *big.Int
	duration   *big.Int
}

func (f *fakeRegistrar) Address() common.Address {
	return common.HexToAddress("0xDfB90263512321E6f14Cf63e30675A6E443924A8")
}

func (f *fakeRegistrar) Available(ctx context.Context, label string) (bool, error) {
	f.calls.add("available")
	return f.available[label], nil
}

func (f *fakeRegistrar) RegistrationFee(ctx context.Context) (*big.Int, error) {
	f.calls.add("registrationFee")
	return f.fee, nil
}

func (f *fakeRegistrar) GetDomain(ctx context.Context, label string) (contracts.DomainRecord, error) {
	f.calls.add("getDomain")
	if err := f.domainErr[label]; err != nil {
		return contracts.DomainRecord{}, err
	}
	return f.records[label], nil
}

func (f *fakeRegistrar) GetDomainsOfOwner(ctx context.Context, owner common.Address) ([]string, error) {
	f.calls.add("getDomainsOfOwner")
	return f.owned[owner], nil
}

func (f *fakeRegistrar) Domains(ctx context.Context, labelHash common.Hash) (contracts.DomainRecord, error) {
	f.calls.add("domains")
	return contracts.DomainRecord{}, nil
}

func (f *fakeRegistrar) Register(ctx context.Context, label string, owner common.Address, duration, fee *big.Int) (*contracts.Registration, error) {
	f.calls.add("register")
	if f.regErr != nil {
		return nil, f.regErr
	}
	f.registered = append(f.registered, label)
	f.paid = fee
	f.duration = duration
	return &contracts.Registration{
		Receipt: &types.Receipt{TxHash: common.HexToHash("0x1234")},
		Owner:   owner,
		TokenID: big.NewInt(1),
		Expires: big.NewInt(1731536000),
	}, nil
}

func (f *fakeRegistrar) Renew(ctx context.Context, label string, duration, fee *big.Int) (*types.Receipt, error) {
	f.calls.add("renew")
	return &types.Receipt{}, nil
}

func (f *fakeRegistrar) Transfer(ctx context.Context, label string, to common.Address) (*types.Receipt, error) {
	f.calls.add("transfer")
	return &types.Receipt{}, nil
}

type fakeResolver struct {
	calls   *chainCalls
	mu      sync.Mutex
	texts   map[common.Hash]map[string]string
	textErr map[string]error
	setErr  map[string]error
	written map[string]string
	addr    common.Address
	addrErr error
	setAddr common.Address
}

func (f *fakeResolver) Address() common.Address {
	return common.HexToAddress("0xc0bEC1491c336b514CA4496bc00816C66E24a972")
}

func (f *fakeResolver) Addr(ctx context.Context, node common.Hash) (common.Address, error) {
	f.calls.add("addr")
	return f.addr, f.addrErr
}

func (f *fakeResolver) Text(ctx context.Context, node common.Hash, key string) (string, error) {
	f.calls.add("text")
	if err := f.textErr[key]; err != nil {
		return "", err
	}
	return f.texts[node][key], nil
}

func (f *fakeResolver) Name(ctx context.Context, node common.Hash) (string, error) {
	f.calls.add("name")
	return "", nil
}

func (f *fakeResolver) SetAddr(ctx context.Context, node common.Hash, addr common.Address) (*types.Receipt, error) {
	f.calls.add("setAddr")
	f.setAddr = addr
	return &types.Receipt{TxHash: common.HexToHash("0xadd")}, nil
}

func (f *fakeResolver) SetText(ctx context.Context, node common.Hash, key, value string) (*types.Receipt, error) {
	f.calls.add("setText")
	if err := f.setErr[key]; err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.written == nil {
		f.written = map[string]string{}
	}
	f.written[key] = value
	return &types.Receipt{TxHash: common.BytesToHash([]byte(key))}, nil
}

func (f *fakeResolver) SetName(ctx context.Context, node common.Hash, name string) (*types.Receipt, error) {
	f.calls.add("setName")
	return &types.Receipt{}, nil
}

type fakeRegistry struct {
	calls    *chainCalls
	resolver common.Address
	err      error
}

func (f *fakeRegistry) Address() common.Address {
	return common.HexToAddress("0x84f1bF40B68Eb18bf17DD2220ea2364AD32EA754")
}

func (f *fakeRegistry) Owner(ctx context.Context, node common.Hash) (common.Address, error) {
	f.calls.add("owner")
	return common.Address{}, f.err
}

func (f *fakeRegistry) Resolver(ctx context.Context, node common.Hash) (common.Address, error) {
	f.calls.add("resolver")
	return f.resolver, f.err
}

func (f *fakeRegistry) RecordExists(ctx context.Context, node common.Hash) (bool, error) {
	f.calls.add("recordExists")
	return false, f.err
}

func (f *fakeRegistry) SetOwner(ctx context.Context, node common.Hash, owner common.Address) (*types.Receipt, error) {
	f.calls.add("setOwner")
	return &types.Receipt{}, nil
}

func (f *fakeRegistry) SetResolver(ctx context.Context, node common.Hash, resolver common.Address) (*types.Receipt, error) {
	f.calls.add("setResolver")
	return &types.Receipt{}, nil
}

func (f *fakeRegistry) SetRecord(ctx context.Context, node common.Hash, owner, resolver common.Address, ttl uint64) (*types.Receipt, error) {
	f.calls.add("setRecord")
	return &types.Receipt{}, nil
}
