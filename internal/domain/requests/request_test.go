package requests

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/califica/internal/apperr"
)

var now = time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	r, err := New("  Probabilidad y Estadistica ", " second semester ", " ana@example.com ", now)
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Probabilidad y Estadistica", r.CourseName)
	assert.Equal(t, "second semester", r.Details)
	assert.Equal(t, "ana@example.com", r.ContactEmail)
	assert.Equal(t, StatusPending, r.Status)
	assert.True(t, r.SubmittedAt.Equal(now))

	_, err = New("   ", "x", "", now)
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmit_PrependsWithoutMutating(t *testing.T) {
	a, _ := New("A", "", "", now)
	b, _ := New("B", "", "", now.Add(time.Minute))

	l1 := List{}.Submit(a)
	l2 := l1.Submit(b)
	require.Len(t, l2, 2)
	assert.Equal(t, "B", l2[0].CourseName)
	assert.Equal(t, "A", l2[1].CourseName)
	assert.Len(t, l1, 1)
}

// ============================================================================
// Transitions
// ============================================================================

func TestTransition(t *testing.T) {
	r, _ := New("Probabilidad", "", "", now)
	l := List{r}

	accepted, got, err := l.Transition(r.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)
	assert.Equal(t, StatusAccepted, accepted[0].Status)
	assert.Equal(t, StatusPending, l[0].Status, "receiver untouched")

	same, _, err := accepted.Transition(r.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, accepted, same)

	_, _, err = accepted.Transition(r.ID, StatusRejected)
	assert.True(t, apperr.IsConflict(err))
	_, _, err = accepted.Transition(r.ID, StatusPending)
	assert.True(t, apperr.IsConflict(err))

	_, _, err = l.Transition("missing", StatusRejected)
	assert.True(t, apperr.IsNotFound(err))
}

func TestPending(t *testing.T) {
	a, _ := New("A", "", "", now)
	b, _ := New("B", "", "", now)
	l := List{a, b}
	l, _, _ = l.Transition(b.ID, StatusRejected)
	assert.Equal(t, 1, l.Pending())
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"pending":     StatusPending,
		" Accepted ":  StatusAccepted,
		"en revisión": StatusPending,
		"aceptada":    StatusAccepted,
		"rechazada":   StatusRejected,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStatus("maybe")
	assert.True(t, apperr.IsValidation(err))
}

// ============================================================================
// Codec
// ============================================================================

func TestDecode_LegacyFields(t *testing.T) {
	data := []byte(`[
		{"id":"r1","ramo":"Química II","detalle":"lab","email":"x@y.cl","date":"2024-10-01T12:00:00.000Z","status":"aceptada"},
		{"id":"r2","courseName":"TDI","status":"en revisión"}
	]`)
	l := Decode(data)
	require.Len(t, l, 2)
	assert.Equal(t, "Química II", l[0].CourseName)
	assert.Equal(t, "lab", l[0].Details)
	assert.Equal(t, "x@y.cl", l[0].ContactEmail)
	assert.Equal(t, StatusAccepted, l[0].Status)
	assert.Equal(t, time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC), l[0].SubmittedAt)
	assert.Equal(t, StatusPending, l[1].Status)
}

func TestDecode_Lenient(t *testing.T) {
	assert.Empty(t, Decode([]byte(`{"not":"an array"}`)))
	assert.Empty(t, Decode([]byte(`garbage`)))

	l := Decode([]byte(`[1, "x", null, {"id":"a"}, {"id":"b","courseName":"TDI","status":"???"}]`))
	require.Len(t, l, 1)
	assert.Equal(t, "b", l[0].ID)
	assert.Equal(t, StatusPending, l[0].Status)
}

func TestEncodeDecode(t *testing.T) {
	r, _ := New("TDI", "d", "e@f.cl", now)
	data, err := json.Marshal(List{r})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"courseName":"TDI"`)
	assert.Contains(t, string(data), `"status":"pending"`)

	back := Decode(data)
	require.Len(t, back, 1)
	assert.Equal(t, r, back[0])
}
