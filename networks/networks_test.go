package networks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/nns/networks"
)

func TestNexusTestnetLookup(t *testing.T) {
	for _, name := range []string{"nexus-testnet", "NEXUS", "nexus-testnet3"} {
		n, err := networks.GetNetwork(name)
		require.NoError(t, err, name)
		assert.Equal(t, uint64(3940), n.GetChainID())
	}
	n, err := networks.GetNetworkByID(3940)
	require.NoError(t, err)
	assert.Equal(t, "NEX", n.GetNativeTokenSymbol())
	assert.Equal(t, uint64(18), n.GetNativeTokenDecimal())

	_, err = networks.GetNetwork("mainnet")
	assert.ErrorIs(t, err, networks.ErrNetworkNotFound)
}

func TestCustomNodeFromEnv(t *testing.T) {
	t.Setenv("NEXUS_TESTNET_NODE", "http://localhost:8545")
	nodes := networks.NexusTestnet.GetDefaultNodes()
	assert.Equal(t, "http://localhost:8545", nodes["custom-node"])
	assert.Equal(t, "https://testnet3.rpc.nexus.xyz", nodes["nexus-testnet3"])
}

func TestRegisterCustomNetwork(t *testing.T) {
	networks.Register(networks.NewGenericNetwork(networks.GenericNetworkConfig{
		Name:    "devnet",
		ChainID: 31337,
	}))
	n, err := networks.GetNetworkByID(31337)
	require.NoError(t, err)
	assert.Equal(t, "devnet", n.GetName())
	assert.Contains(t, networks.GetSupportedNetworkNames(), "devnet")
}

func TestTxURL(t *testing.T) {
	assert.Equal(t,
		"https://testnet3.explorer.nexus.xyz/tx/0xabc",
		networks.TxURL(networks.NexusTestnet, "0xabc"),
	)
}
