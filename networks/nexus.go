package networks

var NexusTestnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "nexus-testnet",
	AlternativeNames:   []string{"nexus", "nexus-testnet3"},
	ChainID:            3940,
	NativeTokenSymbol:  "NEX",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "NEXUS_TESTNET_NODE",
	DefaultNodes: map[string]string{
		"nexus-testnet3": "https://testnet3.rpc.nexus.xyz",
	},
	ExplorerURL: "https://testnet3.explorer.nexus.xyz",
})
