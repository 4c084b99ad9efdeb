// Package respond turns resolver outcomes and handler results into the
// short Spanish replies shown to the user.
package respond

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"lexbot/internal/dialogue"
	"lexbot/internal/dispatch"
	"lexbot/internal/logging"
)

// maxLines caps every reply. Anything longer is truncated; chat
// surfaces in the office are small.
const maxLines = 4

const (
	fallbackIdle = "Disculpe, no le entendí. Puedo agendar audiencias, crear o consultar casos, y resumir documentos."
	failureReply = "Lo siento, no pude completar la acción. Intente de nuevo en un momento."
)

// Formatter renders outcomes into display text.
type Formatter struct {
	log *zap.Logger
}

// New returns a formatter.
func New() *Formatter {
	return &Formatter{log: logging.Get(logging.CategoryEngine)}
}

// Ask produces the acknowledgment plus one targeted question for the
// first missing slot. Only one question per turn.
func (f *Formatter) Ask(out dialogue.Outcome) string {
	lines := make([]string, 0, 2)
	if ack := acknowledge(out); ack != "" {
		lines = append(lines, ack)
	}
	lines = append(lines, question(out))
	return clamp(lines)
}

// Executed renders a successful dispatch. Follow-up questions inside
// handler detail lines are suppressed; once the action ran the turn is
// over and the next question belongs to the next command.
func (f *Formatter) Executed(res dispatch.Result) string {
	lines := []string{res.Message}
	for _, l := range res.Lines {
		if isQuestion(l) {
			f.log.Debug("suppressed follow-up question", zap.String("line", l))
			continue
		}
		lines = append(lines, l)
	}
	return clamp(lines)
}

// Failed renders a dispatch failure without leaking internals.
func (f *Formatter) Failed(out dialogue.Outcome) string {
	return failureReply
}

// Fallback renders an unrecognized turn. With a pending intent the
// targeted question repeats so the dialogue can still move forward.
func (f *Formatter) Fallback(out dialogue.Outcome) string {
	if out.Intent == nil || len(out.Missing) == 0 {
		return fallbackIdle
	}
	return clamp([]string{
		"Disculpe, no le entendí.",
		question(out),
	})
}

// Expired renders the drop of an abandoned dialogue.
func (f *Formatter) Expired(out dialogue.Outcome) string {
	name := "la solicitud"
	if out.Intent != nil {
		name = describe(out.Intent.Name)
	}
	return fmt.Sprintf("Dejé pendiente %s. Cuando guste, empezamos de nuevo.", name)
}

// question returns the configured question for the first missing slot.
func question(out dialogue.Outcome) string {
	if out.Intent != nil && len(out.Missing) > 0 {
		if slot, ok := out.Intent.Slot(out.Missing[0]); ok && slot.Question != "" {
			return slot.Question
		}
	}
	return "¿Me puede dar más detalles?"
}

// acknowledge summarizes what was already captured, or nothing when the
// turn captured nothing.
func acknowledge(out dialogue.Outcome) string {
	if len(out.Slots) == 0 {
		return ""
	}
	names := make([]string, 0, len(out.Slots))
	for name := range out.Slots {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", label(name), out.Slots[name].Display()))
	}
	return "Anotado: " + strings.Join(parts, ", ") + "."
}

func label(slot string) string {
	switch slot {
	case "fecha":
		return "fecha"
	case "hora":
		return "hora"
	case "numero_expediente":
		return "expediente"
	case "nombre_cliente":
		return "cliente"
	case "nombre_documento":
		return "documento"
	default:
		return strings.ReplaceAll(slot, "_", " ")
	}
}

func describe(intentName string) string {
	switch intentName {
	case "agendar_audiencia":
		return "la audiencia"
	case "crear_caso":
		return "el caso nuevo"
	case "actualizar_caso":
		return "la actualización"
	case "consultar_caso":
		return "la consulta"
	case "resumir_documento":
		return "el resumen"
	default:
		return "la solicitud"
	}
}

func isQuestion(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "¿") || strings.HasSuffix(trimmed, "?")
}

// clamp joins at most maxLines lines.
func clamp(lines []string) string {
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}
