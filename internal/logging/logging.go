// Package logging provides categorized zap loggers for lexbot.
// Every subsystem logs through its own named logger so that a single
// conversation turn can be traced across the pipeline stages.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names one pipeline subsystem.
type Category string

const (
	CategoryBoot     Category = "boot"     // Process startup and wiring
	CategoryNLU      Category = "nlu"      // Normalization and entity extraction
	CategoryIntent   Category = "intent"   // Intent classification
	CategoryDialogue Category = "dialogue" // Session state machine
	CategoryDispatch Category = "dispatch" // Action handler execution
	CategoryEngine   Category = "engine"   // Turn pipeline
	CategoryStore    Category = "store"    // Case repository
	CategorySummary  Category = "summary"  // Document summarization
	CategoryUI       Category = "ui"       // Chat surface
)

var (
	mu      sync.RWMutex
	root    *zap.Logger
	loggers = make(map[Category]*zap.Logger)
)

// Init builds the root logger. Debug mode switches to a console encoder
// at debug level; production mode uses the zap production config.
// Safe to call more than once; the last call wins.
func Init(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	root = logger
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// Get returns the logger for a category, creating it on first use.
// Before Init is called a no-op logger is returned so library code
// never needs a nil check.
func Get(cat Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}
	if root == nil {
		root = zap.NewNop()
	}
	l := root.Named(string(cat))
	loggers[cat] = l
	return l
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}
