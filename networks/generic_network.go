package networks

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type GenericNetworkConfig struct {
	Name               string            `json:"name" yaml:"name"`
	AlternativeNames   []string          `json:"alternative_names" yaml:"alternative_names"`
	ChainID            uint64            `json:"chain_id" yaml:"chain_id"`
	NativeTokenSymbol  string            `json:"native_token_symbol" yaml:"native_token_symbol"`
	NativeTokenDecimal uint64            `json:"native_token_decimal" yaml:"native_token_decimal"`
	BlockTime          uint64            `json:"block_time" yaml:"block_time"`
	NodeVariableName   string            `json:"node_variable_name" yaml:"node_variable_name"`
	DefaultNodes       map[string]string `json:"default_nodes" yaml:"default_nodes"`
	ExplorerURL        string            `json:"explorer_url" yaml:"explorer_url"`
}

// GenericNetwork is a Network fully described by its config.
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	return &GenericNetwork{config: config}
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNativeTokenSymbol() string {
	return gn.config.NativeTokenSymbol
}

func (gn *GenericNetwork) GetNativeTokenDecimal() uint64 {
	return gn.config.NativeTokenDecimal
}

func (gn *GenericNetwork) GetBlockTime() time.Duration {
	return time.Duration(gn.config.BlockTime) * time.Second
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

// GetDefaultNodes returns the configured nodes. When the node env variable
// of the network is set, it is used as an extra node named "custom-node".
func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	result := map[string]string{}
	for name, url := range gn.config.DefaultNodes {
		result[name] = url
	}
	if gn.config.NodeVariableName != "" {
		if custom := strings.TrimSpace(os.Getenv(gn.config.NodeVariableName)); custom != "" {
			result["custom-node"] = custom
		}
	}
	return result
}

func (gn *GenericNetwork) GetExplorerURL() string {
	return gn.config.ExplorerURL
}

// TxURL links a transaction on the network explorer.
func TxURL(n Network, txHash string) string {
	if n.GetExplorerURL() == "" {
		return txHash
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(n.GetExplorerURL(), "/"), txHash)
}
