package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	nnscommon "github.com/tranvictor/nns/common"
	cmdutil "github.com/tranvictor/nns/cmd/util"
	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/networks"
	"github.com/tranvictor/nns/nns"
	"github.com/tranvictor/nns/util/account"
)

func appContext(cmd *cobra.Command) (*cmdutil.AppContext, error) {
	ac, ok := cmdutil.AppContextFrom(cmd)
	if !ok {
		return nil, fmt.Errorf("command context was not initialized")
	}
	return ac, nil
}

// readService wires a service without a signing account.
func readService(cmd *cobra.Command) (*cmdutil.AppContext, *nns.Service, error) {
	ac, err := appContext(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := ac.Config.Validate(); err != nil {
		return nil, nil, err
	}
	chain, err := cmdutil.Dial(ac.Config, ac.Logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := cmdutil.NewService(cmd.Context(), ac.Config, chain, cmdutil.ServiceOptions{
		Logger:  ac.Logger,
		Metrics: ac.Metrics,
	})
	return ac, svc, err
}

// writeContext is what a transactional command works with.
type writeContext struct {
	*cmdutil.AppContext
	chain   *cmdutil.Chain
	service *nns.Service
	// owner is the checksummed address the write is for.
	owner string
	// dry is set when nothing will be signed.
	dry bool
}

// writeService loads the signing account and wires a service that writes
// with it. With --dry no key is needed as long as --owner is given, the
// checks then run as if owner were signing.
func writeService(cmd *cobra.Command) (*writeContext, error) {
	ac, err := appContext(cmd)
	if err != nil {
		return nil, err
	}
	if err := ac.Config.Validate(); err != nil {
		return nil, err
	}
	acc, err := cmdutil.LoadAccount()
	if err != nil {
		return nil, err
	}
	owner, err := resolveOwner(acc)
	if err != nil {
		return nil, err
	}
	chain, err := cmdutil.Dial(ac.Config, ac.Logger)
	if err != nil {
		return nil, err
	}

	opts := cmdutil.ServiceOptions{
		Account: acc,
		MaxWait: config.MaxWait,
		Logger:  ac.Logger,
		Metrics: ac.Metrics,
	}
	if acc == nil {
		if !config.DontBroadcast {
			return nil, fmt.Errorf("a signing key is required, use --private-key, --keystore or --key-file (or --dry to only prepare the call)")
		}
		opts.Guard = nns.SignerAuthorizer{Address: owner}
	}
	svc, err := cmdutil.NewService(cmd.Context(), ac.Config, chain, opts)
	if err != nil {
		return nil, err
	}
	return &writeContext{
		AppContext: ac,
		chain:      chain,
		service:    svc,
		owner:      owner,
		dry:        config.DontBroadcast,
	}, nil
}

// resolveOwner normalizes --owner to its checksummed form, defaulting to
// the signing account.
func resolveOwner(acc *account.Account) (string, error) {
	if config.Owner == "" {
		if acc == nil {
			return "", fmt.Errorf("--owner is required when no signing key is given")
		}
		return acc.AddressHex(), nil
	}
	addr, err := nnscommon.ParseAddress(config.Owner)
	if err != nil {
		return "", fmt.Errorf("owner: %w", err)
	}
	return addr.Hex(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNative(n networks.Network, amount *big.Int) string {
	if amount == nil {
		return "0 " + n.GetNativeTokenSymbol()
	}
	return fmt.Sprintf("%s %s", nnscommon.BigToFloatString(amount, n.GetNativeTokenDecimal()), n.GetNativeTokenSymbol())
}

func formatExpiry(expires *big.Int) string {
	if expires == nil || expires.Sign() == 0 {
		return "-"
	}
	return time.Unix(expires.Int64(), 0).UTC().Format(time.RFC3339)
}

func bigOrNone(n *big.Int) string {
	if n == nil {
		return "-"
	}
	return n.String()
}

func txLink(n networks.Network, hash common.Hash) string {
	return networks.TxURL(n, hash.Hex())
}
