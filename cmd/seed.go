package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/thingdock/internal/infrastructure/sqlite"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the demo model into the database",
	Long: `Write a small demo model into the database: a spacecraft with power and
communications subsystems, a requirements specification, a person and an
iteration. Running it twice adds a second copy.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, repo, session, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		defer session.Close()

		saved, err := sqlite.Seed(cmd.Context(), repo, session.DataSource())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d things into %s\n", len(saved), db.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
