package contracts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/metrics"
	"github.com/tranvictor/nns/namehash"
)

var (
	registrarAddr = common.HexToAddress("0xDfB90263512321E6f14Cf63e30675A6E443924A8")
	alice         = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
)

// abiCaller answers view calls from canned outputs keyed by method name.
type abiCaller struct {
	abi     *abi.ABI
	replies map[string][]interface{}
	errs    map[string]error
	raw     map[string][]byte
	inputs  map[string][]interface{}
}

func newABICaller(a *abi.ABI) *abiCaller {
	return &abiCaller{
		abi:     a,
		replies: map[string][]interface{}{},
		errs:    map[string]error{},
		raw:     map[string][]byte{},
		inputs:  map[string][]interface{}{},
	}
}

func (c *abiCaller) CallContract(ctx context.Context, caddr common.Address, data []byte) ([]byte, error) {
	method, err := c.abi.MethodById(data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, err
	}
	c.inputs[method.Name] = args
	if err := c.errs[method.Name]; err != nil {
		return nil, err
	}
	if raw, ok := c.raw[method.Name]; ok {
		return raw, nil
	}
	return method.Outputs.Pack(c.replies[method.Name]...)
}

// revertError mimics the JSON-RPC error a node returns for a reverted call.
type revertError struct {
	data string
}

func (e revertError) Error() string          { return "execution reverted" }
func (e revertError) ErrorData() interface{} { return e.data }

func revertData(t *testing.T, reason string) string {
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return hexutil.Encode(append(selector, packed...))
}

type recordingTransactor struct {
	to      common.Address
	value   *big.Int
	data    []byte
	receipt *types.Receipt
	err     error
}

func (r *recordingTransactor) Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	r.to, r.value, r.data = to, value, data
	if r.receipt == nil && r.err == nil {
		r.receipt = &types.Receipt{Status: types.ReceiptStatusSuccessful}
	}
	return r.receipt, r.err
}

func TestRegistrarReads(t *testing.T) {
	caller := newABICaller(nnscommon.GetRegistrarABI())
	caller.replies["available"] = []interface{}{true}
	caller.replies["registrationFee"] = []interface{}{big.NewInt(5e17)}
	caller.replies["getDomain"] = []interface{}{alice, big.NewInt(1700000000), true, big.NewInt(42)}
	caller.replies["getDomainsOfOwner"] = []interface{}{[]string{"alice", "bob"}}
	caller.replies["domains"] = []interface{}{alice, big.NewInt(1700000000), true, big.NewInt(42), "alice"}

	r := NewRegistrar(registrarAddr, Options{Caller: caller})
	ctx := context.Background()

	available, err := r.Available(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, available)
	assert.Equal(t, []interface{}{"alice"}, caller.inputs["available"])

	fee, err := r.RegistrationFee(ctx)
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", fee.String())

	rec, err := r.GetDomain(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, rec.Owner)
	assert.True(t, rec.Exists)
	assert.Equal(t, int64(42), rec.TokenID.Int64())
	assert.Equal(t, int64(1700000000), rec.Expires.Int64())

	labels, err := r.GetDomainsOfOwner(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, labels)

	rec, err = r.Domains(ctx, namehash.LabelHash("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Name)
	assert.Equal(t, [32]byte(namehash.LabelHash("alice")), caller.inputs["domains"][0])
}

func TestResolverAndRegistryReads(t *testing.T) {
	node := namehash.NameHash("alice.nexus")

	resolverCaller := newABICaller(nnscommon.GetResolverABI())
	resolverCaller.replies["text"] = []interface{}{"ipfs://avatar"}
	resolverCaller.replies["addr"] = []interface{}{alice}
	resolverCaller.replies["name"] = []interface{}{"alice.nexus"}
	res := NewResolver(common.Address{1}, Options{Caller: resolverCaller})

	value, err := res.Text(context.Background(), node, KeyAvatar)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://avatar", value)
	assert.Equal(t, []interface{}{[32]byte(node), "avatar"}, resolverCaller.inputs["text"])

	addr, err := res.Addr(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, alice, addr)

	name, err := res.Name(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, "alice.nexus", name)

	registryCaller := newABICaller(nnscommon.GetRegistryABI())
	registryCaller.replies["owner"] = []interface{}{alice}
	registryCaller.replies["resolver"] = []interface{}{common.Address{1}}
	registryCaller.replies["recordExists"] = []interface{}{true}
	reg := NewRegistry(common.Address{2}, Options{Caller: registryCaller})

	owner, err := reg.Owner(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	resolver, err := reg.Resolver(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, common.Address{1}, resolver)
	exists, err := reg.RecordExists(context.Background(), node)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReadFailureIsChainErrorWithReason(t *testing.T) {
	caller := newABICaller(nnscommon.GetRegistrarABI())
	caller.errs["getDomain"] = fmt.Errorf("couldn't read from any nodes: %w",
		errors.Join(fmt.Errorf("node-a: %w", revertError{data: revertData(t, "Domain expired")})))

	m := metrics.New(prometheus.NewRegistry())
	_, err := NewRegistrar(registrarAddr, Options{Caller: caller, Metrics: m}).GetDomain(context.Background(), "alice")
	var ce *ChainError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "registrar.getDomain", ce.Op)
	assert.Equal(t, "Domain expired", ce.Reason)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContractCalls.WithLabelValues("registrar", "getDomain", "error")))
}

func TestEmptyReplyIsChainError(t *testing.T) {
	caller := newABICaller(nnscommon.GetRegistrarABI())
	caller.raw["available"] = []byte{}
	_, err := NewRegistrar(registrarAddr, Options{Caller: caller}).Available(context.Background(), "alice")
	var ce *ChainError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "malformed reply")
}

func TestWriteWithoutTransactor(t *testing.T) {
	res := NewResolver(common.Address{1}, Options{Caller: newABICaller(nnscommon.GetResolverABI())})
	_, err := res.SetText(context.Background(), common.Hash{}, KeyTwitter, "alice")
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestSetTextPacksCall(t *testing.T) {
	tr := &recordingTransactor{}
	resolverAddr := common.Address{1}
	res := NewResolver(resolverAddr, Options{Transactor: tr})
	node := namehash.NameHash("alice.nexus")

	_, err := res.SetText(context.Background(), node, KeyTelegram, "alice_tg")
	require.NoError(t, err)
	assert.Equal(t, resolverAddr, tr.to)
	assert.Nil(t, tr.value)

	method := nnscommon.GetResolverABI().Methods["setText"]
	assert.True(t, bytes.HasPrefix(tr.data, method.ID))
	args, err := method.Inputs.Unpack(tr.data[4:])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{[32]byte(node), "org.telegram", "alice_tg"}, args)
}

func TestRegisterDecodesEvent(t *testing.T) {
	registrarABI := nnscommon.GetRegistrarABI()
	event := registrarABI.Events["DomainRegistered"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(1731536000), "alice", big.NewInt(7))
	require.NoError(t, err)

	tr := &recordingTransactor{receipt: &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		TxHash: common.HexToHash("0xbeef"),
		Logs: []*types.Log{
			{Address: common.Address{9}, Topics: []common.Hash{event.ID}},
			{
				Address: registrarAddr,
				Topics: []common.Hash{
					event.ID,
					crypto.Keccak256Hash([]byte("alice")),
					namehash.LabelHash("alice"),
					common.BytesToHash(alice.Bytes()),
				},
				Data: data,
			},
		},
	}}
	m := metrics.New(prometheus.NewRegistry())
	r := NewRegistrar(registrarAddr, Options{Transactor: tr, Metrics: m})

	fee := big.NewInt(5e17)
	reg, err := r.Register(context.Background(), "alice", alice, big.NewInt(31536000), fee)
	require.NoError(t, err)
	assert.Equal(t, fee, tr.value)
	assert.Equal(t, alice, reg.Owner)
	assert.Equal(t, int64(7), reg.TokenID.Int64())
	assert.Equal(t, int64(1731536000), reg.Expires.Int64())
	assert.Equal(t, common.HexToHash("0xbeef"), reg.TxHash())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues("register", "done")))
}

func TestRegisterFailureKeepsOp(t *testing.T) {
	tr := &recordingTransactor{err: &ChainError{Op: "estimate gas", Reason: "Name not available"}}
	_, err := NewRegistrar(registrarAddr, Options{Transactor: tr}).
		Register(context.Background(), "alice", alice, big.NewInt(31536000), big.NewInt(1))
	var ce *ChainError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "registrar.register estimate gas", ce.Op)
	assert.Equal(t, "registrar.register estimate gas: Name not available", ce.Error())
}

func TestRevertReasonWithoutData(t *testing.T) {
	assert.Equal(t, "", RevertReason(errors.New("connection refused")))
	assert.Equal(t, "", RevertReason(revertError{data: "0x"}))
	assert.Equal(t, "Name taken", RevertReason(revertError{data: revertData(t, "Name taken")}))
}

func TestWritesPackCalls(t *testing.T) {
	node := namehash.NameHash("alice.nexus")
	other := common.HexToAddress("0x00000000000000000000000000000000000000b0")
	fee := big.NewInt(5e17)

	cases := []struct {
		method string
		abi    *abi.ABI
		call   func(tr Transactor) (*types.Receipt, error)
		value  *big.Int
		args   []interface{}
	}{
		{"setOwner", nnscommon.GetRegistryABI(), func(tr Transactor) (*types.Receipt, error) {
			return NewRegistry(common.Address{2}, Options{Transactor: tr}).SetOwner(context.Background(), node, other)
		}, nil, []interface{}{[32]byte(node), other}},
		{"setResolver", nnscommon.GetRegistryABI(), func(tr Transactor) (*types.Receipt, error) {
			return NewRegistry(common.Address{2}, Options{Transactor: tr}).SetResolver(context.Background(), node, other)
		}, nil, []interface{}{[32]byte(node), other}},
		{"setRecord", nnscommon.GetRegistryABI(), func(tr Transactor) (*types.Receipt, error) {
			return NewRegistry(common.Address{2}, Options{Transactor: tr}).SetRecord(context.Background(), node, alice, other, 300)
		}, nil, []interface{}{[32]byte(node), alice, other, uint64(300)}},
		{"setAddr", nnscommon.GetResolverABI(), func(tr Transactor) (*types.Receipt, error) {
			return NewResolver(common.Address{1}, Options{Transactor: tr}).SetAddr(context.Background(), node, other)
		}, nil, []interface{}{[32]byte(node), other}},
		{"setName", nnscommon.GetResolverABI(), func(tr Transactor) (*types.Receipt, error) {
			return NewResolver(common.Address{1}, Options{Transactor: tr}).SetName(context.Background(), node, "alice.nexus")
		}, nil, []interface{}{[32]byte(node), "alice.nexus"}},
		{"renew", nnscommon.GetRegistrarABI(), func(tr Transactor) (*types.Receipt, error) {
			return NewRegistrar(registrarAddr, Options{Transactor: tr}).Renew(context.Background(), "alice", big.NewInt(31536000), fee)
		}, fee, []interface{}{"alice", big.NewInt(31536000)}},
		{"transfer", nnscommon.GetRegistrarABI(), func(tr Transactor) (*types.Receipt, error) {
			return NewRegistrar(registrarAddr, Options{Transactor: tr}).Transfer(context.Background(), "alice", other)
		}, nil, []interface{}{"alice", other}},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			tr := &recordingTransactor{}
			receipt, err := tc.call(tr)
			require.NoError(t, err)
			assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
			assert.Equal(t, tc.value, tr.value)

			method := tc.abi.Methods[tc.method]
			require.True(t, bytes.HasPrefix(tr.data, method.ID))
			args, err := method.Inputs.Unpack(tr.data[4:])
			require.NoError(t, err)
			assert.Equal(t, tc.args, args)
		})
	}
}
