package cmd

import (
	"github.com/spf13/cobra"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/nns"
	"github.com/tranvictor/nns/ui"
)

func addressOrNone(hex string, zero bool) string {
	if zero {
		return "-"
	}
	return hex
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [name]",
	Short: "Show the registrar record, resolver and addr record of a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, svc, err := readService(cmd)
		if err != nil {
			return err
		}
		info, err := svc.GetDomainInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if config.JSONOutput {
			return printJSON(info)
		}
		printDomainInfo(ac.UI, info)
		return nil
	},
}

func printDomainInfo(u ui.UI, info *nns.DomainInfo) {
	u.Section(info.Name)
	if !info.Exists {
		u.Warn("%s is not registered", info.Name)
		u.KeyValue([][2]string{{"Node", info.Node.Hex()}})
		return
	}
	u.KeyValue([][2]string{
		{"Node", info.Node.Hex()},
		{"Owner", info.Owner.Hex()},
		{"Expires", formatExpiry(info.Expires)},
		{"Token ID", bigOrNone(info.TokenID)},
		{"Resolver", addressOrNone(info.Resolver.Hex(), nnscommon.IsZeroAddress(info.Resolver))},
		{"Addr", addressOrNone(info.Addr.Hex(), nnscommon.IsZeroAddress(info.Addr))},
	})
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
