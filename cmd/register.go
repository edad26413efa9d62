package cmd

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tranvictor/nns/api"
	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/networks"
	"github.com/tranvictor/nns/nns"
)

func printPrepared(wc *writeContext, txs ...*nns.PreparedTx) error {
	result := make([]api.Transaction, 0, len(txs))
	for _, tx := range txs {
		result = append(result, api.NewTransaction(tx))
	}
	if config.JSONOutput {
		return printJSON(result)
	}
	wc.UI.Info("Checks passed. Calls to sign with the owner wallet:")
	for _, tx := range result {
		wc.UI.Indent().KeyValue([][2]string{
			{"Method", tx.Method},
			{"To", tx.To},
			{"Value", tx.Value},
			{"Data", tx.Data},
		})
	}
	return nil
}

// reportUnconfirmed tells the user where to follow a tx that outlived
// --wait. It does not swallow err.
func reportUnconfirmed(wc *writeContext, err error) {
	var ue *nns.UnconfirmedError
	if errors.As(err, &ue) {
		wc.UI.Warn("The tx was broadcast but not mined in time, it may still be: %s", txLink(wc.chain.Network, ue.TxHash))
	}
}

// checkMaxFee fails when --max-fee is set and fee is above it.
func checkMaxFee(n networks.Network, fee *big.Int) error {
	if config.MaxFee == "" {
		return nil
	}
	limit, err := nnscommon.FloatStringToBig(config.MaxFee, n.GetNativeTokenDecimal())
	if err != nil {
		return fmt.Errorf("max-fee: %w", err)
	}
	if fee != nil && fee.Cmp(limit) > 0 {
		return fmt.Errorf("the registration fee %s is above --max-fee %s %s",
			formatNative(n, fee), config.MaxFee, n.GetNativeTokenSymbol())
	}
	return nil
}

var registerCmd = &cobra.Command{
	Use:   "register [name]",
	Short: "Register a name for one registration period",
	Long: `Registers a name for the owner (the signing account by default) for one
registration period, paying the fee the registrar currently asks for.

The name is validated and checked for availability before anything is
signed. The owner must be the signing account.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wc, err := writeService(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		req := nns.RegisterRequest{Name: args[0], Owner: wc.owner}

		prepared, err := wc.service.PrepareRegister(ctx, req)
		if err != nil {
			return err
		}
		network := wc.chain.Network
		if err := checkMaxFee(network, prepared.Value); err != nil {
			return err
		}
		name := wc.service.TLD().Format(args[0])
		if !config.JSONOutput {
			wc.UI.Section("Register " + name)
			wc.UI.KeyValue([][2]string{
				{"Owner", wc.owner},
				{"Duration", fmt.Sprintf("%d days", wc.Config.MinDuration/86400)},
				{"Fee", formatNative(network, prepared.Value)},
				{"Registrar", prepared.To.Hex()},
			})
		}
		if wc.dry {
			return printPrepared(wc, prepared)
		}
		balance, err := wc.chain.Reader.GetBalance(ctx, common.HexToAddress(wc.owner))
		if err != nil {
			return fmt.Errorf("couldn't read the balance of %s: %w", wc.owner, err)
		}
		if !config.JSONOutput {
			wc.UI.KeyValue([][2]string{{"Balance", formatNative(network, balance)}})
		}
		if balance.Cmp(prepared.Value) < 0 {
			return fmt.Errorf("%s holds %s, the registration costs %s", wc.owner,
				formatNative(network, balance), formatNative(network, prepared.Value))
		}
		if !config.NoConfirm && !wc.UI.Confirm("Sign and broadcast the registration?", true) {
			wc.UI.Warn("Aborted")
			return nil
		}

		stop := wc.UI.Spinner("Waiting for the registration to be mined...")
		res, err := wc.service.Register(ctx, req)
		stop()
		if err != nil {
			reportUnconfirmed(wc, err)
			return err
		}
		if config.JSONOutput {
			return printJSON(map[string]string{
				"name":    res.Name,
				"owner":   res.Owner.Hex(),
				"fee":     bigOrNone(res.Fee),
				"txHash":  res.TxHash.Hex(),
				"tokenId": bigOrNone(res.TokenID),
				"expires": bigOrNone(res.Expires),
			})
		}
		wc.UI.Success("Registered %s", res.Name)
		wc.UI.Critical("Tx: %s", txLink(network, res.TxHash))
		wc.UI.KeyValue([][2]string{
			{"Token ID", bigOrNone(res.TokenID)},
			{"Expires", formatExpiry(res.Expires)},
		})
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&config.MaxFee, "max-fee", "", "Abort when the registration fee is above this amount of native token, e.g. 0.5.")
	AddCommonFlagsToTransactionalCmds(registerCmd)
	rootCmd.AddCommand(registerCmd)
}
