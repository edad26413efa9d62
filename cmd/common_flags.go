package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/nns/config"
)

func AddCommonFlagsToTransactionalCmds(c *cobra.Command) {
	c.PersistentFlags().
		StringVar(&config.PrivateKey, "private-key", "", "Hex private key of the account signing the tx.")
	c.PersistentFlags().
		StringVarP(&config.KeystoreFile, "keystore", "K", "", "Keystore file of the account signing the tx.")
	c.PersistentFlags().
		StringVar(&config.KeystorePass, "keystore-pass", "", "Password of the keystore. Prompted for when empty.")
	c.PersistentFlags().
		StringVar(&config.KeyFile, "key-file", "", "File holding the hex private key of the account signing the tx.")
	c.PersistentFlags().
		StringVarP(&config.Owner, "owner", "o", "", "Owner address the name is registered or updated for. Defaults to the signing account, which must match it.")
	c.PersistentFlags().
		BoolVarP(&config.DontBroadcast, "dry", "d", false, "Will not sign nor broadcast the tx, only run the checks and show the prepared call.")
	c.PersistentFlags().
		BoolVarP(&config.NoConfirm, "yes", "y", false, "Do not ask for confirmation before signing.")
	c.PersistentFlags().
		DurationVarP(&config.MaxWait, "wait", "w", 0, "Max time to wait for the tx to be mined. Defaults to the configured confirm timeout.")
	c.PersistentFlags().
		Uint64VarP(&config.ExtraGasLimit, "extragas", "G", 0, "Extra gas limit added to the estimate. Defaults to the configured value.")
}
