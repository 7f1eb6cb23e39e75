package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/presentation"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the capability catalog",
}

var catalogListNamespace string

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered capabilities as JSON",
	Long: `List every registered capability as JSON.

Each entry names the discriminator it is registered under (kind, name or
surface), the provider that contributed it, and the logic and surface
identities it builds. Use --namespace to restrict the listing.`,
	Example: `  thingdock catalog list
  thingdock catalog list -n kind`,
	RunE: runCatalogList,
}

func init() {
	catalogListCmd.Flags().StringVarP(&catalogListNamespace, "namespace", "n", "",
		"only list one namespace (kind, name or surface)")
	catalogCmd.AddCommand(catalogListCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry(cfg, viewkit.Env{})
	if err != nil {
		return err
	}

	descs := reg.List()
	if catalogListNamespace != "" {
		ns := navigation.Namespace(catalogListNamespace)
		switch ns {
		case navigation.NamespaceKind, navigation.NamespaceName, navigation.NamespaceSurface:
		default:
			return fmt.Errorf("unknown namespace %q", catalogListNamespace)
		}
		descs = reg.ByNamespace(ns)
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	return formatter.FormatDescriptors(presentation.FromDescriptors(descs))
}
