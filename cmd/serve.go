package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/nns/api"
	cmdutil "github.com/tranvictor/nns/cmd/util"
	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the metadata and names HTTP API",
	Long: `Serves the NFT metadata, names, availability and session guarded write
endpoints. The session cookie is checked against session.secret.

Without a signing key the write endpoints only validate the request and
return the contract calls for the client wallet to sign. With one
(--private-key or --keystore) the server signs and sends them itself.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := appContext(cmd)
		if err != nil {
			return err
		}
		cfg := ac.Config
		if config.Listen != "" {
			cfg.Server.Listen = config.Listen
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.ValidateSession(); err != nil {
			return err
		}

		acc, err := cmdutil.LoadAccount()
		if err != nil {
			return err
		}
		chain, err := cmdutil.Dial(cfg, ac.Logger)
		if err != nil {
			return err
		}
		store := session.NewStore([]byte(cfg.Session.Secret), cfg.Session.TTL)
		guard := session.NewGuard(store, cfg.Session.CookieName, ac.Logger.Named("session"))
		svc, err := cmdutil.NewService(cmd.Context(), cfg, chain, cmdutil.ServiceOptions{
			Account: acc,
			Guard:   guard,
			Logger:  ac.Logger,
			Metrics: ac.Metrics,
		})
		if err != nil {
			return err
		}
		if acc != nil {
			ac.Logger.Info("relaying writes", zap.String("account", acc.AddressHex()))
		}

		server := api.NewServer(api.Options{
			Service:    svc,
			CookieName: guard.CookieName(),
			Relay:      acc != nil,
			Mode:       cfg.Server.Mode,
			Logger:     ac.Logger.Named("api"),
			Metrics:    ac.Metrics,
			Gatherer:   ac.Registry,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx, cfg.Server.Listen)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&config.Listen, "listen", "l", "", "Listen address, overrides server.listen.")
	serveCmd.Flags().StringVar(&config.PrivateKey, "private-key", "", "Hex private key the server relays writes with.")
	serveCmd.Flags().StringVarP(&config.KeystoreFile, "keystore", "K", "", "Keystore of the account the server relays writes with.")
	serveCmd.Flags().StringVar(&config.KeyFile, "key-file", "", "File holding the hex private key the server relays writes with.")
	serveCmd.Flags().StringVar(&config.KeystorePass, "keystore-pass", "", "Password of the keystore. Prompted for when empty.")
	rootCmd.AddCommand(serveCmd)
}
