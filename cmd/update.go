package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/nns"
)

// updateRequest keeps only the record flags given on the command line, so
// --twitter "" clears the record while an absent flag leaves it alone.
func updateRequest(cmd *cobra.Command, name, owner string) nns.UpdateRequest {
	req := nns.UpdateRequest{Name: name, Owner: owner}
	if cmd.Flags().Changed("avatar") {
		req.Avatar = &config.Avatar
	}
	if cmd.Flags().Changed("twitter") {
		req.Twitter = &config.Twitter
	}
	if cmd.Flags().Changed("telegram") {
		req.Telegram = &config.Telegram
	}
	return req
}

var updateCmd = &cobra.Command{
	Use:     "update [name]",
	Aliases: []string{"set-text"},
	Short:   "Update the avatar, twitter or telegram record of a name",
	Long: `Writes the profile records given as flags, one transaction per record,
sent in parallel. Values cannot contain spaces. The resolver rejects
writes from anyone but the name's owner.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wc, err := writeService(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		req := updateRequest(cmd, args[0], wc.owner)

		prepared, err := wc.service.PrepareUpdate(ctx, req)
		if err != nil {
			return err
		}
		name := wc.service.TLD().Format(args[0])
		if !config.JSONOutput {
			wc.UI.Section("Update " + name)
			rows := [][2]string{{"Owner", wc.owner}}
			for _, f := range []struct {
				key   string
				value *string
			}{{"Avatar", req.Avatar}, {"Twitter", req.Twitter}, {"Telegram", req.Telegram}} {
				if f.value != nil {
					rows = append(rows, [2]string{f.key, *f.value})
				}
			}
			wc.UI.KeyValue(rows)
		}
		if wc.dry {
			return printPrepared(wc, prepared...)
		}
		if !config.NoConfirm && !wc.UI.Confirm("Sign and broadcast the update?", true) {
			wc.UI.Warn("Aborted")
			return nil
		}

		stop := wc.UI.Spinner("Waiting for the updates to be mined...")
		res, err := wc.service.UpdateProfile(ctx, req)
		stop()
		if res != nil {
			keys := make([]string, 0, len(res.TxHashes))
			for key := range res.TxHashes {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			if config.JSONOutput && err == nil {
				hashes := map[string]string{}
				for _, key := range keys {
					hashes[key] = res.TxHashes[key].Hex()
				}
				return printJSON(map[string]any{"name": res.Name, "txHashes": hashes})
			}
			for _, key := range keys {
				wc.UI.Critical("%s: %s", key, txLink(wc.chain.Network, res.TxHashes[key]))
			}
		}
		if err != nil {
			reportUnconfirmed(wc, err)
			return err
		}
		wc.UI.Success("Updated %s", res.Name)
		return nil
	},
}

var setAddrCmd = &cobra.Command{
	Use:   "set-addr [name] [address]",
	Short: "Point the addr record of a name at an address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		wc, err := writeService(cmd)
		if err != nil {
			return err
		}
		if wc.dry {
			wc.UI.Warn("--dry is not supported by set-addr")
			return nil
		}
		name := wc.service.TLD().Format(args[0])
		if !config.JSONOutput {
			wc.UI.Section("Set addr of " + name)
			wc.UI.KeyValue([][2]string{{"Owner", wc.owner}, {"Addr", args[1]}})
		}
		if !config.NoConfirm && !wc.UI.Confirm("Sign and broadcast?", true) {
			wc.UI.Warn("Aborted")
			return nil
		}
		stop := wc.UI.Spinner("Waiting for the tx to be mined...")
		hash, err := wc.service.SetAddress(cmd.Context(), nns.SetAddressRequest{
			Name:    args[0],
			Owner:   wc.owner,
			Address: args[1],
		})
		stop()
		if err != nil {
			reportUnconfirmed(wc, err)
			return err
		}
		if config.JSONOutput {
			return printJSON(map[string]string{"name": name, "txHash": hash.Hex()})
		}
		wc.UI.Success("addr record of %s set", name)
		wc.UI.Critical("Tx: %s", txLink(wc.chain.Network, hash))
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&config.Avatar, "avatar", "", "Avatar URI, ipfs:// or https://.")
	updateCmd.Flags().StringVar(&config.Twitter, "twitter", "", "Twitter handle.")
	updateCmd.Flags().StringVar(&config.Telegram, "telegram", "", "Telegram handle.")
	AddCommonFlagsToTransactionalCmds(updateCmd)
	AddCommonFlagsToTransactionalCmds(setAddrCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(setAddrCmd)
}
