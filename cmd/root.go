package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/thingdock/internal/config"
	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/ui/shell"
)

func init() {
	// Query the terminal background before any program starts so the OSC 11
	// reply cannot land in an input field.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".thingdock/config.yaml"

var (
	version  = "dev"
	cfgFile  string
	debug    bool
	cfg      config.Config
	logClose func()
)

var rootCmd = &cobra.Command{
	Use:   "thingdock",
	Short: "A terminal workbench for browsing and editing engineering models",
	Long: `A terminal user interface for browsing, inspecting and editing the things of an
engineering model: element definitions and usages, parameters and requirements.

Panels dock side by side, details open in floating windows and edits happen in
stacked dialogs that share one transaction.`,
	Version:           version,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logClose != nil {
			logClose()
		}
	},
	RunE: runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.thingdock/config.yaml or ~/.config/thingdock/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs to thingdock.log (also enabled by "+log.EnvDebug+")")
	rootCmd.PersistentFlags().StringP("db", "d", "",
		"path to the model database, or a directory holding one")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"do not reload views when the database changes on disk")

	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Lookup order: ./.thingdock/config.yaml, then ~/.config/thingdock/config.yaml
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "thingdock"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func setup(*cobra.Command, []string) error {
	if debug || log.DebugRequested() {
		closer, err := log.Init("thingdock.log")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "warning: debug logging disabled: %v\n", err)
		} else {
			logClose = closer
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// configPath is where layout changes are written back.
func configPath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	return localConfigPath
}

func runApp(cmd *cobra.Command, _ []string) error {
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	env, err := openEnvironment(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	zone.NewGlobal()
	model := shell.New(env.shellOptions(cfg))
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	model.Close()

	if cfg.Dock.RememberLayout {
		if m, ok := final.(shell.Model); ok {
			if saveErr := config.SaveDefaultPanels(configPath(), m.PanelNames()); saveErr != nil {
				log.ErrorErr(log.CatConfig, "saving layout failed", saveErr)
			}
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
