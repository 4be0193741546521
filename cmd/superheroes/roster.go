package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joestump/superheroes/internal/config"
	"github.com/joestump/superheroes/internal/datasource"
	"github.com/joestump/superheroes/internal/db"
	"github.com/joestump/superheroes/internal/heroes"
)

func newRosterCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Print the initial roster, or reset the database to it",
		Long: "Prints the heroes a fresh store starts with (HEROES_ROSTER_FILE or the built-in list).\n" +
			"With --reset, replaces every hero in the configured database with that roster.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			names := cfg.Roster
			if len(names) == 0 {
				names = heroes.DefaultRoster
			}

			list := heroes.BuildRoster(heroes.NewSequence(), names)
			if reset {
				if cfg.DB.Driver == "" {
					return fmt.Errorf("--reset needs a database: set HEROES_DB_DRIVER and HEROES_DB_DSN")
				}
				database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()
				if err := db.Migrate(database, cfg.DB.Driver); err != nil {
					return err
				}
				list, err = datasource.NewSQLSource(database, names).Reset(cmd.Context())
				if err != nil {
					return err
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, h := range list {
				fmt.Fprintf(tw, "%d\t%s\n", h.ID, h.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "replace the database contents with the roster")
	return cmd
}
