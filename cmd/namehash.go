package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/namehash"
)

type hashInfo struct {
	Name      string `json:"name"`
	Node      string `json:"node"`
	LabelHash string `json:"labelHash"`
}

func hashName(name string) hashInfo {
	label := name
	if i := strings.Index(name, "."); i >= 0 {
		label = name[:i]
	}
	return hashInfo{
		Name:      name,
		Node:      namehash.NameHash(name).Hex(),
		LabelHash: namehash.LabelHash(label).Hex(),
	}
}

var namehashCmd = &cobra.Command{
	Use:   "namehash [names...]",
	Short: "Show the namehash node and label hash of names",
	Long: `Computes the on-chain identifiers of dotted names offline. Names are
hashed exactly as given, "Alice.nexus" and "alice.nexus" differ.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := make([]hashInfo, 0, len(args))
		for _, name := range args {
			infos = append(infos, hashName(name))
		}
		if config.JSONOutput {
			return printJSON(infos)
		}
		ac, err := appContext(cmd)
		if err != nil {
			return err
		}
		for _, info := range infos {
			ac.UI.KeyValue([][2]string{
				{"Name", info.Name},
				{"Node", info.Node},
				{"Label hash", info.LabelHash},
			})
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(namehashCmd)
}
