package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbot/internal/intent"
	"lexbot/internal/nlu"
)

func caseDef(t *testing.T) *intent.Definition {
	t.Helper()
	reg, err := intent.NewRegistry(intent.Defaults())
	require.NoError(t, err)
	def, ok := reg.Get("consultar_caso")
	require.True(t, ok)
	return def
}

func TestDispatchRoutesToHandler(t *testing.T) {
	def := caseDef(t)
	var gotID string
	d := New(map[string]Handler{
		"consultar_caso": func(_ context.Context, slots intent.SlotSet) (Result, error) {
			gotID = slots["numero_expediente"].Display()
			return Result{Message: "listo"}, nil
		},
	})

	res, err := d.Dispatch(context.Background(), def, intent.SlotSet{
		"numero_expediente": intent.CaseIDValue(nlu.CaseID{Value: "00820-2022"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "listo", res.Message)
	assert.Equal(t, "00820-2022", gotID)
}

func TestDispatchEchoDefault(t *testing.T) {
	def := caseDef(t)
	d := New(nil)

	res, err := d.Dispatch(context.Background(), def, intent.SlotSet{
		"numero_expediente": intent.CaseIDValue(nlu.CaseID{Value: "00820-2022"}),
	})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "consultar_caso")
	assert.Contains(t, res.Message, "00820-2022")
}

func TestDispatchRecoversPanic(t *testing.T) {
	def := caseDef(t)
	d := New(map[string]Handler{
		"consultar_caso": func(context.Context, intent.SlotSet) (Result, error) {
			panic("boom")
		},
	})

	_, err := d.Dispatch(context.Background(), def, intent.SlotSet{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestDispatchWrapsHandlerError(t *testing.T) {
	def := caseDef(t)
	sentinel := errors.New("db unavailable")
	d := New(map[string]Handler{
		"consultar_caso": func(context.Context, intent.SlotSet) (Result, error) {
			return Result{}, sentinel
		},
	})

	_, err := d.Dispatch(context.Background(), def, intent.SlotSet{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}

func TestRegisterReplacesHandler(t *testing.T) {
	def := caseDef(t)
	d := New(nil)
	d.Register("consultar_caso", func(context.Context, intent.SlotSet) (Result, error) {
		return Result{Message: "nuevo"}, nil
	})

	res, err := d.Dispatch(context.Background(), def, intent.SlotSet{})
	require.NoError(t, err)
	assert.Equal(t, "nuevo", res.Message)
}
