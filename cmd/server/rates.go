package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
)

func newRatesCmd(opts *options) *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "List statutory rate versions, or show the one in effect on --date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			table, err := tableFor(cmd, cfg)
			if err != nil {
				return err
			}

			versions := table.Versions()
			if cmd.Flags().Changed("date") {
				day, err := parseDate(date)
				if err != nil {
					return err
				}
				r, err := table.For(day)
				if err != nil {
					return err
				}
				versions = []statute.Rates{r}
			}

			if asJSON {
				docs := make([]statute.RatesJSON, 0, len(versions))
				for _, r := range versions {
					docs = append(docs, r.ToJSON())
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(docs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tEFFECTIVE\tMINIMUM/H\tWEEKS/MONTH")
			for _, r := range versions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					r.Version,
					r.EffectiveFrom.Format("2006-01-02"),
					labor.FormatWon(r.MinimumHourlyWage),
					r.WeeksPerMonth.String(),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Show only the version in effect on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON documents")
	return cmd
}

// parseDate parses YYYY-MM-DD; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &labor.FieldError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	return day, nil
}
