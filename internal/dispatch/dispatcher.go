// Package dispatch routes a ready intent to its registered action
// handler and shields the conversation from handler failures.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"lexbot/internal/intent"
	"lexbot/internal/logging"
)

// Result is what a handler hands back for the user-facing reply.
type Result struct {
	// Message is the handler's answer, already phrased for the user.
	Message string

	// Lines optionally carries extra detail lines appended under the
	// message, subject to the formatter's cap.
	Lines []string
}

// Handler executes one intent's action. Slots contains every collected
// slot, required ones guaranteed present.
type Handler func(ctx context.Context, slots intent.SlotSet) (Result, error)

// Dispatcher maps intent names to handlers. Handlers are injected at
// construction; unknown intents fall through to an echo handler so a
// misconfigured deployment degrades to a visible no-op instead of an
// error.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	log      *zap.Logger
}

// New builds a dispatcher from an initial handler map. The map is
// copied; later Register calls do not affect the caller's map.
func New(handlers map[string]Handler) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler, len(handlers)),
		log:      logging.Get(logging.CategoryDispatch),
	}
	for name, h := range handlers {
		d.handlers[name] = h
	}
	return d
}

// Register adds or replaces the handler for an intent.
func (d *Dispatcher) Register(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// Dispatch runs the handler for def with the collected slots. A missing
// handler echoes the request back; a panicking handler is recovered and
// reported as an ordinary failure.
func (d *Dispatcher) Dispatch(ctx context.Context, def *intent.Definition, slots intent.SlotSet) (res Result, err error) {
	d.mu.RLock()
	h, ok := d.handlers[def.Name]
	d.mu.RUnlock()

	if !ok {
		d.log.Warn("no handler registered, echoing", zap.String("intent", def.Name))
		return echo(def, slots), nil
	}

	defer func() {
		if p := recover(); p != nil {
			d.log.Error("handler panicked",
				zap.String("intent", def.Name),
				zap.Any("panic", p))
			res = Result{}
			err = fmt.Errorf("handler %s: panic: %v", def.Name, p)
		}
	}()

	res, err = h(ctx, slots)
	if err != nil {
		d.log.Warn("handler failed", zap.String("intent", def.Name), zap.Error(err))
		return Result{}, fmt.Errorf("handler %s: %w", def.Name, err)
	}
	return res, nil
}

// echo describes the understood request without acting on it.
func echo(def *intent.Definition, slots intent.SlotSet) Result {
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, slots[name].Display()))
	}

	msg := fmt.Sprintf("Entendido: %s", def.Name)
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return Result{Message: msg}
}
