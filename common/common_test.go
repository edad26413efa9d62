package common_test

import (
	"errors"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/nns/common"
)

func TestParseAddress(t *testing.T) {
	addr, err := common.ParseAddress("0xDfB90263512321E6f14Cf63e30675A6E443924A8")
	require.NoError(t, err)
	assert.Equal(t, ethcommon.HexToAddress("0xDfB90263512321E6f14Cf63e30675A6E443924A8"), addr)

	for _, bad := range []string{"", "0x1234", "hello", "0xZZB90263512321E6f14Cf63e30675A6E443924A8"} {
		_, err := common.ParseAddress(bad)
		assert.ErrorIs(t, err, common.ErrInvalidAddress, bad)
	}
}

func TestFloatStringToBig(t *testing.T) {
	v, err := common.FloatStringToBig("0.5", 18)
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", v.String())

	v, err = common.FloatStringToBig("0.1", 18)
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000", v.String())

	_, err = common.FloatStringToBig("half", 18)
	assert.Error(t, err)
}

func TestBigToFloatString(t *testing.T) {
	assert.Equal(t, "0.5", common.BigToFloatString(big.NewInt(500000000000000000), 18))
	assert.Equal(t, "12", common.BigToFloatString(big.NewInt(12000), 3))
	assert.Equal(t, "0", common.BigToFloatString(nil, 18))
}

func TestRunParallel(t *testing.T) {
	failed, err := common.RunParallel(
		func() error { return nil },
		func() error { return errors.New("boom") },
		func() error { return errors.New("bang") },
	)
	assert.Equal(t, 2, failed)
	assert.ErrorContains(t, err, "boom")
	assert.ErrorContains(t, err, "bang")

	failed, err = common.RunParallel()
	assert.Equal(t, 0, failed)
	assert.NoError(t, err)
}

func TestABIsExposeBoundMethods(t *testing.T) {
	for _, m := range []string{"owner", "resolver", "recordExists", "setOwner", "setResolver", "setRecord"} {
		_, ok := common.GetRegistryABI().Methods[m]
		assert.True(t, ok, m)
	}
	for _, m := range []string{"addr", "text", "name", "setAddr", "setText", "setName"} {
		_, ok := common.GetResolverABI().Methods[m]
		assert.True(t, ok, m)
	}
	for _, m := range []string{"available", "registrationFee", "getDomain", "getDomainsOfOwner", "register", "renew", "transfer", "domains"} {
		_, ok := common.GetRegistrarABI().Methods[m]
		assert.True(t, ok, m)
	}
	assert.True(t, common.GetRegistrarABI().Methods["register"].IsPayable())
	_, ok := common.GetRegistrarABI().Events["DomainRegistered"]
	assert.True(t, ok)
}
