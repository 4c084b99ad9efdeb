package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetCase(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCase(ctx, Case{
		Expediente: "00820-2022",
		Cliente:    "maria lopez",
		Materia:    "divorcio",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "abierto", created.Estado)

	got, err := s.GetCase(ctx, "00820-2022")
	require.NoError(t, err)
	assert.Equal(t, "maria lopez", got.Cliente)
	assert.Equal(t, "divorcio", got.Materia)
}

func TestCreateCaseWithoutExpediente(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateCase(context.Background(), Case{Cliente: "juan perez"})
	require.NoError(t, err)
	assert.Contains(t, created.Expediente, "SN-")
}

func TestGetCaseNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetCase(context.Background(), "99999-2029")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCaseEstadoAndNotes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCase(ctx, Case{Expediente: "00820-2022", Cliente: "maria lopez"})
	require.NoError(t, err)

	updated, err := s.UpdateCase(ctx, "00820-2022", "en tramite", "primera nota")
	require.NoError(t, err)
	assert.Equal(t, "en tramite", updated.Estado)
	require.Len(t, updated.Notas, 1)

	// Empty estado keeps the previous one.
	updated, err = s.UpdateCase(ctx, "00820-2022", "", "segunda nota")
	require.NoError(t, err)
	assert.Equal(t, "en tramite", updated.Estado)
	assert.Equal(t, []string{"primera nota", "segunda nota"}, updated.Notas)
}

func TestUpdateCaseNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.UpdateCase(context.Background(), "99999-2029", "cerrado", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHearings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, h := range []Hearing{
		{Expediente: "00820-2022", Fecha: "2025-01-19", Hora: "11:00 AM"},
		{Fecha: "2025-01-19", Hora: "9:00 AM"},
		{Fecha: "2025-02-03", Hora: "10:00 AM"},
	} {
		_, err := s.ScheduleHearing(ctx, h)
		require.NoError(t, err)
	}

	day, err := s.ListHearings(ctx, "2025-01-19")
	require.NoError(t, err)
	require.Len(t, day, 2)

	all, err := s.ListHearings(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "2025-01-19", all[0].Fecha)
}
