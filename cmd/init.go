package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pseudoc/internal/config"
)

// init: scaffold a project config file
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a .pseudoc.yaml config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultFileName
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := os.WriteFile(path, []byte(config.Scaffold), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("↪ wrote %s\n", path)
		return nil
	},
}
