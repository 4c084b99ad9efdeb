package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbot/internal/config"
	"lexbot/internal/intent"
	"lexbot/internal/nlu"
)

func newResolver(maxPending int) *Resolver {
	cfg := config.Default()
	cfg.MaxPendingTurns = maxPending
	return NewResolver(cfg)
}

func classify(t *testing.T, reg *intent.Registry, sess *Session, input string) (intent.Result, nlu.Entities, string) {
	t.Helper()
	text := nlu.Normalize(input)
	ents := nlu.NewExtractor(config.Default()).Extract(text)
	snap, err := sess.Snapshot()
	require.NoError(t, err)
	return intent.NewWeighted(reg).Classify(text, ents, snap), ents, text
}

func TestResolveTwoTurnDispatchOnce(t *testing.T) {
	reg := testRegistry(t)
	r := newResolver(0)
	sess := NewSession(8)

	// Turn 1: intent without its required date.
	res, ents, text := classify(t, reg, sess, "agenda una audiencia")
	out := r.Resolve(sess, res, reg, ents, text)
	require.Equal(t, OutcomeAsk, out.Kind)
	assert.Equal(t, "agendar_audiencia", out.Intent.Name)
	assert.Equal(t, []string{"fecha"}, out.Missing)
	assert.Equal(t, AwaitingSlots, sess.Phase())

	// Turn 2: bare completion supplies the date. Exactly one dispatch.
	res, ents, text = classify(t, reg, sess, "el 19 de enero")
	out = r.Resolve(sess, res, reg, ents, text)
	require.Equal(t, OutcomeDispatch, out.Kind)
	assert.True(t, out.Completed)
	assert.Equal(t, "2025-01-19", out.Slots["fecha"].Display())

	// Caller resets after the action runs; the same completion again
	// must not dispatch a second time.
	sess.Reset()
	res, ents, text = classify(t, reg, sess, "el 19 de enero")
	out = r.Resolve(sess, res, reg, ents, text)
	assert.Equal(t, OutcomeFallback, out.Kind)
}

func TestResolveSingleTurnDispatch(t *testing.T) {
	reg := testRegistry(t)
	r := newResolver(0)
	sess := NewSession(8)

	res, ents, text := classify(t, reg, sess,
		"agenda audiencia el 19 de enero a las 11:00, expediente 00820-2022")
	out := r.Resolve(sess, res, reg, ents, text)

	require.Equal(t, OutcomeDispatch, out.Kind)
	assert.False(t, out.Completed)
	assert.Equal(t, "2025-01-19", out.Slots["fecha"].Display())
	assert.Equal(t, "11:00 AM", out.Slots["hora"].Display())
	assert.Equal(t, "00820-2022", out.Slots["numero_expediente"].Display())
}

func TestResolveAsidePreservesPending(t *testing.T) {
	reg := testRegistry(t)
	r := newResolver(0)
	sess := NewSession(8)

	res, ents, text := classify(t, reg, sess, "agenda una audiencia")
	r.Resolve(sess, res, reg, ents, text)
	require.Equal(t, AwaitingSlots, sess.Phase())

	// Gibberish aside: pending intent survives, question can repeat.
	res, ents, text = classify(t, reg, sess, "jsdhfk qwerty")
	out := r.Resolve(sess, res, reg, ents, text)
	assert.Equal(t, OutcomeFallback, out.Kind)
	assert.Equal(t, "agendar_audiencia", out.Intent.Name)
	assert.Equal(t, []string{"fecha"}, out.Missing)
	assert.Equal(t, AwaitingSlots, sess.Phase())

	// The dialogue still completes afterwards.
	res, ents, text = classify(t, reg, sess, "el 19 de enero")
	out = r.Resolve(sess, res, reg, ents, text)
	assert.Equal(t, OutcomeDispatch, out.Kind)
}

func TestResolveBareTextFill(t *testing.T) {
	reg := testRegistry(t)
	r := newResolver(0)
	sess := NewSession(8)

	res, ents, text := classify(t, reg, sess, "quiero dar de alta un caso nuevo")
	out := r.Resolve(sess, res, reg, ents, text)
	require.Equal(t, OutcomeAsk, out.Kind)
	require.Equal(t, []string{"nombre_cliente"}, out.Missing)

	// A short bare answer fills the pending free-text slot even though
	// no classifier recognizes it.
	res, ents, text = classify(t, reg, sess, "maria lopez")
	out = r.Resolve(sess, res, reg, ents, text)
	require.Equal(t, OutcomeDispatch, out.Kind)
	assert.Equal(t, "maria lopez", out.Slots["nombre_cliente"].Display())
}

func TestResolveBareTextFillRejectsLongAside(t *testing.T) {
	reg := testRegistry(t)
	r := newResolver(0)
	sess := NewSession(8)

	res, ents, text := classify(t, reg, sess, "quiero dar de alta un caso nuevo")
	r.Resolve(sess, res, reg, ents, text)

	long := "no estoy seguro de como se llama el cliente todavia la verdad"
	res, ents, text = classify(t, reg, sess, long)
	out := r.Resolve(sess, res, reg, ents, text)
	assert.Equal(t, OutcomeFallback, out.Kind)
	assert.Equal(t, AwaitingSlots, sess.Phase())
}

func TestResolveNewIntentReplacesPending(t *testing.T) {
	reg := testRegistry(t)
	r := newResolver(0)
	sess := NewSession(8)

	res, ents, text := classify(t, reg, sess, "agenda una audiencia")
	r.Resolve(sess, res, reg, ents, text)
	require.Equal(t, "agendar_audiencia", sess.Pending().Name)

	res, ents, text = classify(t, reg, sess, "consulta el expediente 00820-2022")
	out := r.Resolve(sess, res, reg, ents, text)
	require.Equal(t, OutcomeDispatch, out.Kind)
	assert.Equal(t, "consultar_caso", out.Intent.Name)
}

func TestResolveExpiry(t *testing.T) {
	reg := testRegistry(t)
	r := newResolver(2)
	sess := NewSession(8)

	res, ents, text := classify(t, reg, sess, "agenda una audiencia")
	r.Resolve(sess, res, reg, ents, text)

	for i := 0; i < 2; i++ {
		res, ents, text = classify(t, reg, sess, "qwerty asdfgh zxcvbn qazwsx edcrfv tgbyhn ujmikl")
		out := r.Resolve(sess, res, reg, ents, text)
		assert.Equal(t, OutcomeFallback, out.Kind, "aside %d", i+1)
	}

	res, ents, text = classify(t, reg, sess, "qwerty asdfgh zxcvbn qazwsx edcrfv tgbyhn ujmikl")
	out := r.Resolve(sess, res, reg, ents, text)
	assert.Equal(t, OutcomeExpired, out.Kind)
	assert.Equal(t, "agendar_audiencia", out.Intent.Name)
	assert.Equal(t, Idle, sess.Phase())
}

func TestResolveCompletionWithoutPendingResets(t *testing.T) {
	reg := testRegistry(t)
	r := newResolver(0)
	sess := NewSession(8)

	// Force the inconsistent input directly: a completion result while
	// the session is idle.
	res := intent.Result{Intent: "agendar_audiencia", Confidence: 0.95, IsCompletion: true}
	out := r.Resolve(sess, res, reg, nlu.Entities{}, "el 19 de enero")
	assert.Equal(t, OutcomeFallback, out.Kind)
	assert.Equal(t, Idle, sess.Phase())
}
