package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/appshell/modloader/internal/config"
	"github.com/appshell/modloader/internal/output"
)

var (
	// Global flags
	configFlag       string
	manifestFlag     string
	outputFormatFlag string
	verboseFlag      bool
	preferDevFlag    bool
	productionFlag   bool
	allowDevFlag     bool
	routePolicyFlag  string
	timeoutFlag      time.Duration

	// Resolved configuration (loaded during PersistentPreRunE)
	cliConfig *config.Config
)

// NewRootCmd creates the root command for the modloader CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "modloader",
		Short:         "Runtime module loader for host applications",
		Long:          `modloader fetches a module index, resolves each module's entry source, loads its code, and reports the routes and locales it would wire into a host application.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: MODLOADER_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&manifestFlag, "manifest", "m", "", "Module index URL or file path (env: MODLOADER_MANIFEST)")
	rootCmd.PersistentFlags().StringVarP(&outputFormatFlag, "output", "o", "text", "Output format: text, yaml, json")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&preferDevFlag, "prefer-dev", false, "Prefer development entry sources")
	rootCmd.PersistentFlags().BoolVar(&productionFlag, "production", false, "Treat the deployment posture as production")
	rootCmd.PersistentFlags().BoolVar(&allowDevFlag, "allow-dev", false, "Allow development sources in production")
	rootCmd.PersistentFlags().StringVar(&routePolicyFlag, "route-policy", "", "Duplicate-route policy: name, path, off")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Per-module code load timeout (0 disables)")

	rootCmd.AddCommand(NewLoadCmd())
	rootCmd.AddCommand(NewVetCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration, with flags
// taking precedence over file and environment values.
func initializeGlobals(cmd *cobra.Command) error {
	output.SetupLogging(verboseFlag)

	cfg, err := config.NewLoader().Load(configFlag)
	if err != nil {
		output.Debug("config load error", "error", err)
		cfg = (&config.Config{}).WithDefaults()
	}

	if cmd.Flags().Changed("manifest") || manifestFlag != "" {
		if manifestFlag != "" {
			cfg.Manifest = manifestFlag
		}
	}
	if cmd.Flags().Changed("prefer-dev") {
		cfg.PreferDev = preferDevFlag
	}
	if cmd.Flags().Changed("production") {
		cfg.Production = productionFlag
	}
	if cmd.Flags().Changed("allow-dev") {
		cfg.AllowDevInProduction = allowDevFlag
	}
	if routePolicyFlag != "" {
		cfg.RoutePolicy = routePolicyFlag
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = timeoutFlag
	}

	cliConfig = cfg
	return nil
}
