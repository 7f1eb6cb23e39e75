package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/thingdock/internal/presentation"
	"github.com/zjrosen/thingdock/internal/thing"
)

var thingsKind string

var thingsCmd = &cobra.Command{
	Use:   "things",
	Short: "List things in the model database as JSON",
	Example: `  thingdock things
  thingdock things --kind Requirement`,
	RunE: runThings,
}

func init() {
	thingsCmd.Flags().StringVar(&thingsKind, "kind", "", "only list one class kind, e.g. ElementDefinition")
	rootCmd.AddCommand(thingsCmd)
}

func runThings(cmd *cobra.Command, _ []string) error {
	kinds := thing.AllKinds()
	if thingsKind != "" {
		k, err := thing.ParseClassKind(thingsKind)
		if err != nil {
			return err
		}
		kinds = []thing.ClassKind{k}
	}

	db, _, session, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	defer session.Close()

	var dtos []presentation.ThingDTO
	for _, k := range kinds {
		things, err := session.List(cmd.Context(), k)
		if err != nil {
			return err
		}
		for _, t := range things {
			dtos = append(dtos, presentation.FromThing(t))
		}
	}
	if dtos == nil {
		dtos = []presentation.ThingDTO{}
	}
	return presentation.NewFormatter(cmd.OutOrStdout()).FormatThings(dtos)
}
