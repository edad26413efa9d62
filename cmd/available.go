package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/ui"
)

type availability struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

var availableCmd = &cobra.Command{
	Use:   "available [names...]",
	Short: "Check whether names can be registered",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, svc, err := readService(cmd)
		if err != nil {
			return err
		}
		tld := svc.TLD()
		results := make([]availability, 0, len(args))
		for _, name := range args {
			available, err := svc.CheckAvailability(cmd.Context(), name)
			result := availability{Name: tld.Format(name), Available: available}
			if err != nil {
				result.Error = err.Error()
			}
			results = append(results, result)
		}
		if config.JSONOutput {
			return printJSON(results)
		}

		rows := [][]string{}
		for _, r := range results {
			status := ac.UI.Style(ui.Available(r.Available))
			if r.Error != "" {
				status = ac.UI.Style(ui.StyledText{Text: r.Error, Severity: ui.SeverityError})
			}
			rows = append(rows, []string{r.Name, status})
		}
		ac.UI.Table([]string{"Name", "Status"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(availableCmd)
}
