// Package main provides the lexbot CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lexbot/internal/config"
	"lexbot/internal/dispatch"
	"lexbot/internal/engine"
	"lexbot/internal/intent"
	"lexbot/internal/logging"
	"lexbot/internal/store"
	"lexbot/internal/summarize"
)

var (
	cfgPath string
	verbose bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "lexbot",
	Short: "lexbot - asistente conversacional para la gestión de casos",
	Long: `lexbot entiende instrucciones en español para un estudio jurídico:
agendar audiencias, crear y consultar casos, actualizar expedientes y
resumir documentos.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Debug = true
		}
		loadedConfig = cfg
		return logging.Init(cfg.Logging.Debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(loadedConfig)
	},
}

// loadedConfig is resolved once in PersistentPreRunE.
var loadedConfig config.Config

// processCmd runs a single message through the pipeline and prints the
// reply. Useful for scripting and debugging.
var processCmd = &cobra.Command{
	Use:   "process [mensaje]",
	Short: "Procesa un solo mensaje y muestra la respuesta",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, cleanup, err := buildEngine(ctx, loadedConfig)
		if err != nil {
			return err
		}
		defer cleanup()

		reply, err := eng.ProcessMessage(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "ruta del archivo de configuración YAML")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "registro detallado")
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(replayCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildEngine wires the store, handlers, dispatcher, and intent
// catalogue into an engine. The returned cleanup closes everything.
func buildEngine(ctx context.Context, cfg config.Config) (*engine.Engine, func(), error) {
	log := logging.Get(logging.CategoryBoot)

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}

	var sum summarize.Summarizer
	if cfg.Gemini.APIKey != "" {
		g, err := summarize.NewGemini(ctx, cfg.Gemini)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		sum = g
	} else {
		log.Warn("gemini API key not set, document summaries disabled")
	}

	defs := intent.Defaults()
	if cfg.Classifier.IntentsPath != "" {
		if loaded, err := intent.LoadYAMLFile(cfg.Classifier.IntentsPath); err != nil {
			log.Warn("failed to load intent table, using defaults",
				zap.String("path", cfg.Classifier.IntentsPath),
				zap.Error(err))
		} else {
			defs = loaded
		}
	}
	reg, err := intent.NewRegistry(defs)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	eng := engine.New(cfg, reg, dispatch.New(newHandlers(st, sum)))

	var watcher *config.Watcher
	if cfg.Classifier.IntentsPath != "" {
		w, err := config.WatchIntents(cfg.Classifier.IntentsPath, func(path string) {
			if err := eng.ReloadIntents(path); err != nil {
				log.Warn("intent reload failed", zap.String("path", path), zap.Error(err))
			}
		})
		if err != nil {
			log.Warn("intent table watching disabled", zap.Error(err))
		} else {
			watcher = w
		}
	}

	cleanup := func() {
		if watcher != nil {
			watcher.Close()
		}
		st.Close()
	}
	return eng, cleanup, nil
}
