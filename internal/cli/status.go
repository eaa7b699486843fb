// status.go implements the "vibe-console status" command reporting
// engine readiness.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftorstensson/vibe-console/internal/engine"
	"github.com/ftorstensson/vibe-console/internal/log"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the agent engine is reachable",
	Long: `Probe the agent engine and report whether it is ready to take
queries. Exits non-zero when the engine cannot be reached within the
attempt budget.`,
	RunE: runStatus,
}

var statusAttempts int

func init() {
	statusCmd.Flags().IntVar(&statusAttempts, "attempts", 3, "Probe attempts before giving up")
}

func runStatus(cmd *cobra.Command, args []string) error {
	log.SetupStderr(verbose)
	cfg := loadConfig()

	interval := time.Duration(cfg.Probe.IntervalMS) * time.Millisecond
	prober := engine.NewProber(cfg.Service.BaseURL, statusAttempts, interval)

	fmt.Printf("Probing %s ...\n", cfg.Service.BaseURL)
	if prober.Run(cmd.Context()) == engine.ReadinessReady {
		fmt.Println("Engine is ready.")
		return nil
	}

	return fmt.Errorf("engine unavailable after %d attempts", statusAttempts)
}
