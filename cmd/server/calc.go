package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/wage-engine/api"
	"github.com/warp/wage-engine/config"
	"github.com/warp/wage-engine/contract"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/store/sqlite"
)

func newCalcCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "calc [draft.json]",
		Short: "Assess a contract draft read from a file or stdin",
		Long: `Assess a contract draft in the request format of POST /api/contracts/assess.
Without --db the built-in statutory table is used, plus any --rates-file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var req api.AssessRequest
			if err := json.NewDecoder(in).Decode(&req); err != nil {
				return fmt.Errorf("decode draft: %w", err)
			}
			if err := api.Validate(&req); err != nil {
				return err
			}
			draft, err := req.Draft()
			if err != nil {
				return err
			}

			table, err := tableFor(cmd, cfg)
			if err != nil {
				return err
			}
			day, err := parseDate(req.RatesDate())
			if err != nil {
				return err
			}
			rates, err := table.For(day)
			if err != nil {
				return err
			}

			a := contract.Assess(draft, rates)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(api.AssessResponse{Assessment: a, Warnings: a.Warnings()})
			}
			printAssessment(cmd.OutOrStdout(), a)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full assessment as JSON")
	return cmd
}

// tableFor returns the stored table when --db was given, otherwise the
// built-in table overlaid with the rates file.
func tableFor(cmd *cobra.Command, cfg config.Config) (*statute.Table, error) {
	if cmd.Flags().Changed("db") {
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		defer store.Close()
		logger := config.NewLogger(cmd.ErrOrStderr(), slog.LevelWarn)
		return loadRates(context.Background(), store, cfg.RatesFile, logger)
	}

	table := statute.DefaultTable()
	if cfg.RatesFile == "" {
		return table, nil
	}
	data, err := os.ReadFile(cfg.RatesFile)
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}
	extra, err := statute.ParseTable(data)
	if err != nil {
		return nil, err
	}
	for _, r := range extra.Versions() {
		if table, err = table.With(r); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func printAssessment(out io.Writer, a contract.Assessment) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	stats := a.WorkTime.Stats
	fmt.Fprintf(tw, "Rates\t%s\n", a.RatesVersion)
	if a.Period.Indefinite {
		fmt.Fprintf(tw, "Period\tindefinite\n")
	} else {
		fmt.Fprintf(tw, "Period\t%d days\n", a.Period.Days)
	}
	fmt.Fprintf(tw, "Weekly hours\t%s h (+%s h overtime, %s h night)\n",
		labor.FormatHours(stats.WeeklyHours()),
		labor.FormatHours(stats.WeeklyOvertimeHours()),
		labor.FormatHours(stats.WeeklyNightHours()),
	)
	fmt.Fprintf(tw, "Monthly hours\t%s h\n", labor.FormatHours(stats.MonthlyHours()))
	fmt.Fprintf(tw, "Basic wage\t%s won\n", labor.FormatWon(a.Wage.Breakdown.BasicWage))
	fmt.Fprintf(tw, "Weekly holiday pay\t%s won\n", labor.FormatWon(a.Wage.Breakdown.WeeklyHolidayPay))
	fmt.Fprintf(tw, "Legal minimum\t%s won\n", labor.FormatWon(a.Wage.Minimum.TotalMinimumWage))
	fmt.Fprintf(tw, "Insurance\t%s\n", a.Insurance.Reason)
	fmt.Fprintf(tw, "Weekly holiday\t%s\n", a.WeeklyHoliday.Reason)
	if a.Probation.Applicable && a.Probation.Result.Applied {
		fmt.Fprintf(tw, "Probation total\t%s won\n", labor.FormatWon(a.Probation.Result.AppliedTotal))
	}
	for _, w := range a.Warnings() {
		fmt.Fprintf(tw, "Warning\t%s\n", w)
	}
}
