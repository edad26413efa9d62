package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/nns"
	"github.com/tranvictor/nns/ui"
)

// profileJSON mirrors nns.Profile with unset records as null.
type profileJSON struct {
	Name     string  `json:"name"`
	Owner    string  `json:"owner"`
	Expires  string  `json:"expires"`
	TokenID  string  `json:"tokenId"`
	Avatar   *string `json:"avatar"`
	Twitter  *string `json:"twitter"`
	Telegram *string `json:"telegram"`
}

func toProfileJSON(p *nns.Profile) profileJSON {
	return profileJSON{
		Name:     p.Name,
		Owner:    p.Owner.Hex(),
		Expires:  bigOrNone(p.Expires),
		TokenID:  bigOrNone(p.TokenID),
		Avatar:   p.Avatar,
		Twitter:  p.Twitter,
		Telegram: p.Telegram,
	}
}

func printProfile(u ui.UI, p *nns.Profile) {
	u.Section(p.Name)
	u.KeyValue([][2]string{
		{"Owner", p.Owner.Hex()},
		{"Expires", formatExpiry(p.Expires)},
		{"Avatar", u.Style(ui.OrNone(p.Avatar))},
		{"Twitter", u.Style(ui.OrNone(p.Twitter))},
		{"Telegram", u.Style(ui.OrNone(p.Telegram))},
	})
}

var profileCmd = &cobra.Command{
	Use:   "profile [name]",
	Short: "Show the owner and profile records of a name",
	Long: `Shows the owner, expiry and the avatar, twitter and telegram records of
a name. A record that could not be read is shown as unset.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, svc, err := readService(cmd)
		if err != nil {
			return err
		}
		p, err := svc.GetProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if p == nil {
			if config.JSONOutput {
				return printJSON(nil)
			}
			ac.UI.Warn("%s is not registered", svc.TLD().Format(args[0]))
			return nil
		}
		if config.JSONOutput {
			return printJSON(toProfileJSON(p))
		}
		printProfile(ac.UI, p)
		return nil
	},
}

var namesCmd = &cobra.Command{
	Use:   "names [address]",
	Short: "List the names an address owns with their profiles",
	Long: `Lists the names owned by address with their expiry and profile records.
With --short only the names are printed, which takes a single read.
--all lists every registered name, which needs an event indexer and is
not supported.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if config.AllNames {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, svc, err := readService(cmd)
		if err != nil {
			return err
		}
		if config.AllNames {
			_, err := svc.ListAll(cmd.Context())
			return err
		}
		if config.NamesOnly {
			names, err := svc.GetDomainsOfOwner(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if config.JSONOutput {
				return printJSON(names)
			}
			for _, name := range names {
				fmt.Fprintln(ac.UI.Writer(), name)
			}
			return nil
		}
		profiles, err := svc.GetProfilesOfOwner(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if config.JSONOutput {
			result := make([]profileJSON, 0, len(profiles))
			for _, p := range profiles {
				result = append(result, toProfileJSON(p))
			}
			return printJSON(result)
		}
		if len(profiles) == 0 {
			ac.UI.Info("%s owns no names", args[0])
			return nil
		}
		rows := make([][]string, 0, len(profiles))
		for _, p := range profiles {
			rows = append(rows, []string{
				p.Name,
				formatExpiry(p.Expires),
				ac.UI.Style(ui.OrNone(p.Avatar)),
				ac.UI.Style(ui.OrNone(p.Twitter)),
				ac.UI.Style(ui.OrNone(p.Telegram)),
			})
		}
		ac.UI.Table([]string{"Name", "Expires", "Avatar", "Twitter", "Telegram"}, rows)
		return nil
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata [name]",
	Short: "Print the NFT metadata document of a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, svc, err := readService(cmd)
		if err != nil {
			return err
		}
		doc, fallback, err := svc.Metadata(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if fallback {
			ac.Logger.Warn("chain unreadable, printing the fallback document")
		}
		return printJSON(doc)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	namesCmd.Flags().BoolVarP(&config.NamesOnly, "short", "s", false, "Print the names only.")
	namesCmd.Flags().BoolVar(&config.AllNames, "all", false, "List every registered name.")
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(metadataCmd)
}
