package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lexbot/internal/dispatch"
	"lexbot/internal/engine"
	"lexbot/internal/intent"
)

// replayCmd feeds transcript files through the pipeline, one fresh
// session per file, and prints each exchange. Lines starting with '#'
// are comments; blank lines are skipped. Handlers are not wired, so
// ready intents echo instead of touching the case repository.
var replayCmd = &cobra.Command{
	Use:   "replay [archivo...]",
	Short: "Reproduce transcripciones de conversación contra el motor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := intent.NewRegistry(intent.Defaults())
		if err != nil {
			return err
		}
		d := dispatch.New(nil)

		var mu sync.Mutex
		g, ctx := errgroup.WithContext(cmd.Context())
		for _, path := range args {
			g.Go(func() error {
				// Each transcript is an independent conversation.
				eng := engine.New(loadedConfig, reg, d)

				out, err := replayFile(ctx, eng, path)
				if err != nil {
					return fmt.Errorf("replay %s: %w", path, err)
				}
				mu.Lock()
				fmt.Print(out)
				mu.Unlock()
				return nil
			})
		}
		return g.Wait()
	},
}

func replayFile(ctx context.Context, eng *engine.Engine, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", path)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reply, err := eng.ProcessMessage(ctx, line)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "> %s\n%s\n", line, reply)
	}
	return b.String(), scanner.Err()
}
