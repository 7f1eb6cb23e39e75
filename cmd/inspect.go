package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/ui/shell"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <thing-id>",
	Short: "Open the inspect dialog for one thing",
	Long: `Open the read-only dialog registered for a thing's kind and exit when it is
closed. Containers can be inspected in turn from inside the dialog.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid thing id %q: %w", args[0], err)
	}

	env, err := openEnvironment(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	target, err := env.session.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	opts := env.shellOptions(cfg)
	opts.Startup = inspectStartup(env.nav, env.session, target)
	opts.QuitAfterStartup = true

	zone.NewGlobal()
	model := shell.New(opts)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	model.Close()
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	if m, ok := final.(shell.Model); ok {
		return m.Err()
	}
	return nil
}

func inspectStartup(nav *navigation.Navigator, session *thing.Session, t *thing.Thing) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := nav.Modal().NavigateThing(ctx, navigation.ThingRequest{
			Thing:   t,
			Session: session,
			IsRoot:  true,
			Kind:    thing.DialogInspect,
		})
		return err
	}
}
