// init.go implements the "vibe-console init" command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ftorstensson/vibe-console/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Create the config directory with a default config.yaml pointing
at a local agent engine. Refuses to overwrite an existing config
unless --force is given.`,
	RunE: runInit,
}

var forceFlag bool

func init() {
	initCmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := config.Dir()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !forceFlag {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.WriteConfig(dir, config.DefaultConfig()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Configuration written to %s\n", path)
	fmt.Println("Edit service.base_url if your engine is not on localhost:8000.")
	return nil
}
