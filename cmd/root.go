// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	cmdutil "github.com/tranvictor/nns/cmd/util"
	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/logger"
	"github.com/tranvictor/nns/metrics"
	"github.com/tranvictor/nns/networks"
	"github.com/tranvictor/nns/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nns",
	Short: "Look up, register and manage names on the Nexus Name Service",
	Long: fmt.Sprintf(`nns is a command line client of the Nexus Name Service. It maps
human readable names like alice.nexus to on-chain owners and profile
records (avatar, twitter, telegram).

It can:

	1. Check availability of names and register them for one year,
	paying the registration fee set by the registrar.

	2. Read a name's owner, expiry, resolver, addr record and profile, or
	every name an address owns.

	3. Update profile records and the addr record of names you own.

	4. Serve the NFT metadata and names API over HTTP (nns serve).

By default nns talks to %s using its public RPC node. Contract addresses,
nodes and the session secret can be set in a YAML file (--config) or with
the env vars NNS_RPC_URL, NNS_REGISTRY, NNS_RESOLVER, NNS_REGISTRAR and
NNS_SESSION_SECRET.

Writes are signed with a key given by --private-key or --keystore. nns
never stores keys.`,
		networks.NexusTestnet.GetName(),
	),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadAppContext,
}

func loadAppContext(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ConfigFile)
	if err != nil {
		return err
	}
	if config.Network != "" {
		cfg.Network = config.Network
	}
	if config.Node != "" {
		cfg.Nodes = map[string]string{"flag-node": config.Node}
	}
	if config.LogLevel != "" {
		cfg.Log.Level = config.LogLevel
	}
	if config.ExtraGasLimit != 0 {
		cfg.Tx.ExtraGasLimit = config.ExtraGasLimit
	}

	l, err := logger.New(cfg.Log.Level, cfg.Log.Production)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	ac := &cmdutil.AppContext{
		Config:   cfg,
		Logger:   l,
		Metrics:  metrics.New(registry),
		Registry: registry,
		UI:       ui.NewTerminalUI(),
	}
	cmd.SetContext(cmdutil.WithAppContext(cmd.Context(), ac))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&config.ConfigFile, "config", "c", "", "YAML config file. Defaults to the public testnet deployment.")
	rootCmd.PersistentFlags().StringVarP(&config.Network, "network", "k", "", fmt.Sprintf("network. Valid values: %v.", networks.GetSupportedNetworkNames()))
	rootCmd.PersistentFlags().StringVarP(&config.Node, "node", "N", "", "JSON-RPC node url, overrides the configured nodes.")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "", "log level: debug, info, warn or error.")
	rootCmd.PersistentFlags().BoolVar(&config.JSONOutput, "json", false, "print results as JSON.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
