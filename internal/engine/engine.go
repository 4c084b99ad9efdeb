// Package engine wires the turn pipeline: normalize, extract, classify,
// resolve, dispatch, format. One engine serves one conversation surface.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"lexbot/internal/config"
	"lexbot/internal/dialogue"
	"lexbot/internal/dispatch"
	"lexbot/internal/intent"
	"lexbot/internal/logging"
	"lexbot/internal/nlu"
	"lexbot/internal/respond"
)

// Engine processes user turns for a single session. Turns are
// serialized: the mutex guarantees each message observes the session
// state left by the previous one.
type Engine struct {
	mu sync.Mutex

	cfg        config.Config
	reg        *intent.Registry
	extractor  *nlu.Extractor
	classifier intent.Classifier
	resolver   *dialogue.Resolver
	dispatcher *dispatch.Dispatcher
	formatter  *respond.Formatter
	sess       *dialogue.Session
	log        *zap.Logger
}

// New builds an engine with a fresh session. The classifier strategy
// comes from the configuration.
func New(cfg config.Config, reg *intent.Registry, d *dispatch.Dispatcher) *Engine {
	var c intent.Classifier
	if cfg.Classifier.Strategy == "similarity" {
		c = intent.NewSimilarityScorer(reg, cfg.Classifier.MinSimilarity)
	} else {
		c = intent.NewWeighted(reg)
	}

	return &Engine{
		cfg:        cfg,
		reg:        reg,
		extractor:  nlu.NewExtractor(cfg),
		classifier: c,
		resolver:   dialogue.NewResolver(cfg),
		dispatcher: d,
		formatter:  respond.New(),
		sess:       dialogue.NewSession(cfg.HistoryLimit),
		log:        logging.Get(logging.CategoryEngine),
	}
}

// ProcessMessage runs one user turn through the pipeline and returns
// the display text. Handler failures become a user-safe reply, not an
// error; the returned error is reserved for a cancelled context.
func (e *Engine) ProcessMessage(ctx context.Context, text string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := time.Now()
	e.sess.Record("user", text, now)

	normalized := nlu.Normalize(text)
	ents := e.extractor.Extract(normalized)

	snap, err := e.sess.Snapshot()
	if err != nil {
		// Malformed session: discard it rather than fail the turn.
		e.log.Warn("discarding malformed session", zap.Error(err))
		e.sess.Reset()
		snap = intent.SessionSnapshot{}
	}

	res := e.classifier.Classify(normalized, ents, snap)
	out := e.resolver.Resolve(e.sess, res, e.reg, ents, normalized)

	reply := e.render(ctx, out)
	e.sess.Record("assistant", reply, time.Now())

	e.log.Debug("turn processed",
		zap.String("session", e.sess.ID),
		zap.String("intent", res.Intent),
		zap.String("state", e.sess.Phase().String()))
	return reply, nil
}

// render executes or answers the outcome. After a dispatch the session
// is always reset, success or failure; an action never runs twice off
// the same collected slots.
func (e *Engine) render(ctx context.Context, out dialogue.Outcome) string {
	switch out.Kind {
	case dialogue.OutcomeDispatch:
		defer e.sess.Reset()
		res, err := e.dispatcher.Dispatch(ctx, out.Intent, out.Slots)
		if err != nil {
			return e.formatter.Failed(out)
		}
		return e.formatter.Executed(res)

	case dialogue.OutcomeAsk:
		return e.formatter.Ask(out)

	case dialogue.OutcomeExpired:
		return e.formatter.Expired(out)

	default:
		return e.formatter.Fallback(out)
	}
}

// ReloadIntents replaces the intent catalogue from a YAML table. Called
// by the config watcher; a bad file keeps the current catalogue.
func (e *Engine) ReloadIntents(path string) error {
	defs, err := intent.LoadYAMLFile(path)
	if err != nil {
		return err
	}
	if err := e.reg.Replace(defs); err != nil {
		return err
	}
	e.log.Info("intent catalogue reloaded",
		zap.String("path", path),
		zap.Int("intents", len(defs)))
	return nil
}

// SeedHistory preloads prior conversation turns into the session.
func (e *Engine) SeedHistory(turns []dialogue.Turn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.SeedHistory(turns)
}

// History returns the session's retained turns for display.
func (e *Engine) History() []dialogue.Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.History()
}
