/*
main.go - Application entry point

PURPOSE:
  Command-line entry point of the wage engine. Runs the HTTP server for the
  contract wizard, or evaluates a contract draft from a file for scripting.

COMMANDS:
  serve   Start the HTTP server (default when no command is given)
  calc    Assess a contract draft read from a file or stdin
  rates   List the statutory rate versions, or show the one in effect

CONFIGURATION:
  Environment first (see config/config.go), optionally from a .env file.
  Flags override the environment:
    --addr        HTTP listen address        (WAGE_ADDR, default :8080)
    --db          SQLite database path       (WAGE_DB, default wage.db)
                  Use ":memory:" for an in-memory database
    --drafts      Draft backend              (WAGE_DRAFT_BACKEND, default sqlite)
    --rates-file  Extra statutory versions   (WAGE_RATES_FILE)

EXAMPLES:
  # Run with file database
  ./server serve --db=./data/wage.db

  # Keep wizard drafts in Redis
  WAGE_REDIS_URL=redis://localhost:6379/0 ./server serve --drafts=redis

  # Assess a draft from stdin
  ./server calc < draft.json

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/wage-engine/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options holds the flag overrides shared by every command.
type options struct {
	addr         string
	dbPath       string
	draftBackend string
	ratesFile    string
}

// apply overlays the flags the user actually set on cfg.
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = o.addr
	}
	if flags.Changed("db") {
		cfg.DBPath = o.dbPath
	}
	if flags.Changed("drafts") {
		cfg.DraftBackend = o.draftBackend
	}
	if flags.Changed("rates-file") {
		cfg.RatesFile = o.ratesFile
	}
	return cfg.Validate()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "server",
		Short:         "Korean wage and working-time compliance engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "wage.db", "SQLite database path")
	root.PersistentFlags().StringVar(&opts.ratesFile, "rates-file", "", "JSON array of statutory versions to store at startup")

	serve := newServeCmd(opts)
	root.AddCommand(serve, newCalcCmd(opts), newRatesCmd(opts))

	// A bare invocation starts the server.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}
