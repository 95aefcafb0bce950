package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pseudoc/internal/config"
)

var (
	outDir     string
	configPath string
	profile    string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "pseudoc",
	Short: "pseudoc — Python to pseudocode converter",
	Long: `pseudoc converts a subset of Python into exam-style pseudocode.

Commands:
  init     Scaffold a .pseudoc.yaml config file
  convert  Convert a (.py) source file or a directory of them
  watch    Re-convert files whenever they change
`,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "output directory for generated pseudocode")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default .pseudoc.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "config profile to apply")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(InitCmd, ConvertCmd, WatchCmd)
}

// loadConfig resolves the effective configuration: file values first, then
// the selected profile, then any flags the user actually set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if profile != "" {
		if err := cfg.ApplyProfile(profile); err != nil {
			return cfg, err
		}
	}
	if cmd.Root().PersistentFlags().Changed("out") {
		cfg.OutDir = outDir
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "out"
	}
	return cfg, nil
}

func reportDiagnostics(path string, errs, warns int) {
	switch {
	case errs > 0:
		fmt.Printf("✗ %s: %d errors, %d warnings\n", path, errs, warns)
	case warns > 0:
		fmt.Printf("⚠ %s: %d warnings\n", path, warns)
	}
}
