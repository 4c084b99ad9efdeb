package respond

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbot/internal/dialogue"
	"lexbot/internal/dispatch"
	"lexbot/internal/intent"
	"lexbot/internal/nlu"
)

func hearingDef(t *testing.T) *intent.Definition {
	t.Helper()
	reg, err := intent.NewRegistry(intent.Defaults())
	require.NoError(t, err)
	def, ok := reg.Get("agendar_audiencia")
	require.True(t, ok)
	return def
}

func TestAskTargetsFirstMissingSlot(t *testing.T) {
	def := hearingDef(t)
	got := New().Ask(dialogue.Outcome{
		Kind:    dialogue.OutcomeAsk,
		Intent:  def,
		Missing: []string{"fecha"},
	})

	assert.Contains(t, got, "¿Para qué fecha")
	// One question per turn.
	assert.Equal(t, 1, strings.Count(got, "¿"))
}

func TestAskAcknowledgesCapturedSlots(t *testing.T) {
	def := hearingDef(t)
	got := New().Ask(dialogue.Outcome{
		Kind:   dialogue.OutcomeAsk,
		Intent: def,
		Slots: intent.SlotSet{
			"hora": intent.TimeValue(nlu.Time{Hour: 11, Minute: 0, Meridiem: nlu.AM}),
		},
		Missing: []string{"fecha"},
	})

	assert.Contains(t, got, "11:00 AM")
	assert.Contains(t, got, "¿Para qué fecha")
}

func TestExecutedSuppressesFollowUpQuestions(t *testing.T) {
	got := New().Executed(dispatch.Result{
		Message: "Audiencia agendada.",
		Lines: []string{
			"Expediente 00820-2022.",
			"¿Desea agendar otra?",
		},
	})

	assert.Contains(t, got, "Audiencia agendada.")
	assert.Contains(t, got, "00820-2022")
	assert.NotContains(t, got, "¿Desea")
}

func TestExecutedCapsLines(t *testing.T) {
	got := New().Executed(dispatch.Result{
		Message: "l1",
		Lines:   []string{"l2", "l3", "l4", "l5", "l6"},
	})
	assert.Len(t, strings.Split(got, "\n"), maxLines)
}

func TestFallbackIdle(t *testing.T) {
	got := New().Fallback(dialogue.Outcome{Kind: dialogue.OutcomeFallback})
	assert.Contains(t, got, "no le entendí")
}

func TestFallbackRepeatsPendingQuestion(t *testing.T) {
	def := hearingDef(t)
	got := New().Fallback(dialogue.Outcome{
		Kind:    dialogue.OutcomeFallback,
		Intent:  def,
		Missing: []string{"fecha"},
	})
	assert.Contains(t, got, "¿Para qué fecha")
}

func TestExpired(t *testing.T) {
	def := hearingDef(t)
	got := New().Expired(dialogue.Outcome{Kind: dialogue.OutcomeExpired, Intent: def})
	assert.Contains(t, got, "pendiente")
	assert.Contains(t, got, "la audiencia")
}

func TestFailedIsUserSafe(t *testing.T) {
	got := New().Failed(dialogue.Outcome{Kind: dialogue.OutcomeDispatch})
	assert.NotContains(t, got, "panic")
	assert.NotContains(t, got, "error")
	assert.Contains(t, got, "no pude completar")
}
