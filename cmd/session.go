package cmd

import (
	"github.com/spf13/cobra"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/session"
)

var sessionTokenCmd = &cobra.Command{
	Use:   "session-token [address]",
	Short: "Issue a session cookie for an address, for testing a server",
	Long: `Signs a session for address with session.secret, as the sign-in step
does after a wallet signature. Anyone holding the secret can act as any
address, keep it private.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := appContext(cmd)
		if err != nil {
			return err
		}
		cfg := ac.Config
		if err := cfg.ValidateSession(); err != nil {
			return err
		}
		addr, err := nnscommon.ParseAddress(args[0])
		if err != nil {
			return err
		}
		store := session.NewStore([]byte(cfg.Session.Secret), cfg.Session.TTL)
		token, err := store.Issue(addr.Hex())
		if err != nil {
			return err
		}
		cookie := session.NewGuard(store, cfg.Session.CookieName, ac.Logger).Cookie(token)
		if config.JSONOutput {
			return printJSON(map[string]string{
				"address": addr.Hex(),
				"cookie":  cookie.Name,
				"token":   token,
			})
		}
		ac.UI.KeyValue([][2]string{
			{"Address", addr.Hex()},
			{"Expires in", cfg.Session.TTL.String()},
			{"Cookie", cookie.String()},
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionTokenCmd)
}
