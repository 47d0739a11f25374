package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bond-trader/internal/config"
	"bond-trader/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "bond-trader",
		Short: "Fixed-income trading back office",
		Long: `bond-trader processes bond trades, quotes, market depth and client
inquiries through a listener-driven pipeline: position keeping, PV01
risk, two-sided price streaming, execution decisions and inquiry
quoting, with per-stage record files.

Use 'bond-trader help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/bond-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newGenerateCmd(app))
	rootCmd.AddCommand(newSnapshotCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("bond-trader v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Data")
	output.Printf("  Input dir:        %s\n", cfg.Data.InputDir)
	output.Printf("  Output dir:       %s\n", cfg.Data.OutputDir)
	output.Println()

	output.Bold("Pricing")
	output.Printf("  Throttle:         %dms\n", cfg.Pricing.ThrottleMs)
	output.Printf("  Visible qty:      %d\n", cfg.Pricing.VisibleQty)
	output.Printf("  Hidden qty:       %d\n", cfg.Pricing.HiddenQty)
	output.Println()

	output.Bold("Execution")
	output.Printf("  Spread tolerance: %s\n", cfg.Execution.SpreadTolerance)
	output.Printf("  Hidden ratio:     %.2f\n", cfg.Execution.HiddenRatio)
	output.Println()

	output.Bold("Risk")
	output.Printf("  PV01:             %.4f\n", cfg.Risk.PV01)
	output.Println()

	output.Bold("Position")
	output.Printf("  Strict books:     %v\n", cfg.Position.StrictBooks)
	output.Println()

	output.Bold("Inquiry")
	output.Printf("  Quote price:      %.2f\n", cfg.Inquiry.QuotePrice)
	output.Println()

	output.Bold("Journal")
	output.Printf("  Enabled:          %v\n", cfg.Journal.Enabled)
	output.Printf("  Path:             %s\n", cfg.Journal.Path)
}
