// ask.go implements the "vibe-console ask" command for one-shot
// queries outside the TUI.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftorstensson/vibe-console/internal/config"
	"github.com/ftorstensson/vibe-console/internal/engine"
	"github.com/ftorstensson/vibe-console/internal/log"
	"github.com/ftorstensson/vibe-console/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Send one query and print the streamed answer",
	Long: `Send a single query to the agent engine and print the answer to
stdout as it streams. With --wait, polls the engine with the full
startup budget before querying instead of a single quick check.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var waitFlag bool

func init() {
	askCmd.Flags().BoolVar(&waitFlag, "wait", false, "Poll for engine startup before querying")
}

func runAsk(cmd *cobra.Command, args []string) error {
	log.SetupStderr(verbose)
	cfg := loadConfig()

	attempts := 1
	if waitFlag {
		attempts = cfg.Probe.MaxAttempts
	}
	interval := time.Duration(cfg.Probe.IntervalMS) * time.Millisecond
	prober := engine.NewProber(cfg.Service.BaseURL, attempts, interval)
	if prober.Run(cmd.Context()) != engine.ReadinessReady {
		return fmt.Errorf("engine at %s is not ready", cfg.Service.BaseURL)
	}

	return ask(cmd, cfg, strings.Join(args, " "))
}

// ask runs one query to completion, printing each streamed fragment as
// it is committed.
func ask(cmd *cobra.Command, cfg *config.Config, query string) error {
	sess := session.New(engine.NewClient(cfg.Service.BaseURL))

	updates := sess.Submit(cmd.Context(), query)
	if updates == nil {
		return fmt.Errorf("empty query")
	}

	printed := 0
	var failed error
	for snap := range updates {
		if snap.Err != nil {
			failed = snap.Err
			break
		}
		fmt.Print(snap.Content[printed:])
		printed = len(snap.Content)
	}
	if printed > 0 {
		fmt.Println()
	}

	if failed != nil {
		return fmt.Errorf("query failed: %w", failed)
	}
	if printed == 0 {
		return fmt.Errorf("engine returned no answer")
	}
	return nil
}
