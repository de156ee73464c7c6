package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/califica/internal/apperr"
	"github.com/corey/califica/internal/domain/ratings"
	"github.com/corey/califica/internal/domain/requests"
	"github.com/corey/califica/internal/domain/snapshot"
	"github.com/corey/califica/internal/ports"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

var testRoster = ratings.Roster{
	{Course: "Cálculo I", Professors: []string{"José Pérez", "Ana Lopez"}},
}

var testBase = []string{"Cálculo I", "TDI"}

func testConfig(root string) Config {
	return Config{
		ProjectRoot: root,
		AdminPin:    "1234",
		Roster:      testRoster,
		BaseCourses: testBase,
		Now:         func() time.Time { return testNow },
	}
}

// newTestApp opens an App over a fresh bbolt file.
func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(testConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

// reopen closes a and opens a new App over the same project.
func reopen(t *testing.T, a *App) *App {
	t.Helper()
	require.NoError(t, a.Close())
	b, err := New(testConfig(a.ProjectRoot))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

// failingStorage wraps a Storage and fails every write once armed.
type failingStorage struct {
	ports.Storage
	fail bool
}

var errDiskFull = errors.New("disk full")

func (f *failingStorage) SaveStore(s *ratings.Store) error {
	if f.fail {
		return errDiskFull
	}
	return f.Storage.SaveStore(s)
}

func (f *failingStorage) SaveRequests(l requests.List) error {
	if f.fail {
		return errDiskFull
	}
	return f.Storage.SaveRequests(l)
}

func (f *failingStorage) SaveState(s *ratings.Store, l requests.List) error {
	if f.fail {
		return errDiskFull
	}
	return f.Storage.SaveState(s, l)
}

func (f *failingStorage) SaveTheme(theme string) error {
	if f.fail {
		return errDiskFull
	}
	return f.Storage.SaveTheme(theme)
}

func newFailingApp(t *testing.T) (*App, *failingStorage) {
	t.Helper()
	a := newTestApp(t)
	fs := &failingStorage{Storage: a.Store}
	a.Store = fs
	return a, fs
}

func storeJSON(t *testing.T, a *App) string {
	t.Helper()
	data, err := json.Marshal(a.Snapshot())
	require.NoError(t, err)
	return string(data)
}

// =============================================================================
// Load
// =============================================================================

func TestNew_SeedsFreshProject(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, []string{"Cálculo I", "TDI"}, a.CourseNames())
	profs, err := a.Professors("Cálculo I", "")
	require.NoError(t, err)
	assert.Len(t, profs, 2)
	assert.Equal(t, ThemeDark, a.Theme())
	assert.Empty(t, a.Requests())
	assert.FileExists(t, a.Paths.DB)
	assert.Equal(t, a.Paths.DB, a.DBPath())
}

func TestNew_NoSeed(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.NoSeed = true
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Empty(t, a.CourseNames())
}

func TestNew_RequiresRoot(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_ReconcilesStoredDuplicates(t *testing.T) {
	a := newTestApp(t)
	// Stored data written before canonicalisation may hold name variants.
	raw := ratings.DecodeStore([]byte(`{"TDI":{"carlos vera":{"reviews":[{"id":"a","rating":9}]},"Carlos  Vera":{"reviews":[{"id":"b","rating":5}]}}}`))
	require.NoError(t, a.Store.SaveStore(raw))

	b := reopen(t, a)
	profs, err := b.Professors("TDI", "")
	require.NoError(t, err)
	require.Len(t, profs, 1)
	assert.Equal(t, "Carlos Vera", profs[0].Name)
	assert.Equal(t, 2, profs[0].Count)
	assert.Equal(t, []string{"TDI", "Cálculo I"}, b.CourseNames())
}

// =============================================================================
// Reviews
// =============================================================================

func TestAddReview_PersistsAndMatchesByKey(t *testing.T) {
	a := newTestApp(t)
	id1, err := a.AddReview("Cálculo I", "jose perez", 8, "bien")
	require.NoError(t, err)
	id2, err := a.AddReview("Cálculo I", "JOSÉ  PÉREZ", 6, "")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	b := reopen(t, a)
	p, err := b.Professor("Cálculo I", "José Pérez")
	require.NoError(t, err)
	assert.Equal(t, "Jose Perez", p.Name)
	assert.Equal(t, 2, p.Count)
	assert.Equal(t, 7.0, p.Average)
	assert.Equal(t, id1, p.Reviews[0].ID, "sorted by rating")
	assert.True(t, p.Reviews[0].CreatedAt.Equal(testNow))

	profs, err := b.Professors("Cálculo I", "")
	require.NoError(t, err)
	assert.Len(t, profs, 2, "no duplicate record created")
}

func TestAddReview_UnknownCourseIsCreated(t *testing.T) {
	a := newTestApp(t)
	_, err := a.AddReview("Probabilidad", "Maria Escobar", 9, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cálculo I", "TDI", "Probabilidad"}, a.CourseNames())
}

func TestAddReview_Validation(t *testing.T) {
	a := newTestApp(t)
	before := storeJSON(t, a)
	_, err := a.AddReview("TDI", "   ", 9, "")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, before, storeJSON(t, a))
}

func TestRemoveReview_Idempotent(t *testing.T) {
	a := newTestApp(t)
	id, err := a.AddReview("TDI", "Carlos Vera", 9, "")
	require.NoError(t, err)

	require.NoError(t, a.RemoveReview("TDI", "carlos vera", id))
	require.NoError(t, a.RemoveReview("TDI", "carlos vera", id))
	p, err := a.Professor("TDI", "Carlos Vera")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Count)
}

func TestDeleteProfessor(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.DeleteProfessor("Cálculo I", "ana lópez"))
	_, err := a.Professor("Cálculo I", "Ana Lopez")
	assert.True(t, apperr.IsNotFound(err))
	require.NoError(t, a.DeleteProfessor("Cálculo I", "Ana Lopez"))
}

func TestQueries_UnknownCourse(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Professors("Nope", "")
	assert.True(t, apperr.IsNotFound(err))
	_, err = a.Suggest("Nope", "a")
	assert.True(t, apperr.IsNotFound(err))
	_, err = a.Stats("Nope")
	assert.True(t, apperr.IsNotFound(err))
}

func TestSuggestAndStats(t *testing.T) {
	a := newTestApp(t)
	sug, err := a.Suggest("Cálculo I", "PER")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jose Perez"}, sug)

	sug, err = a.Suggest("Cálculo I", "")
	require.NoError(t, err)
	assert.NotNil(t, sug)
	assert.Empty(t, sug)

	_, err = a.AddReview("Cálculo I", "Ana Lopez", 10, "")
	require.NoError(t, err)
	st, err := a.Stats("Cálculo I")
	require.NoError(t, err)
	assert.Equal(t, 1, st.ReviewCount)
	require.NotNil(t, st.BestByAverage)
	assert.Equal(t, "Ana Lopez", st.BestByAverage.Name)
}

func TestCoursesAndAddCourse(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.AddCourse("  Inglés "))
	assert.True(t, apperr.IsValidation(a.AddCourse(" ")))

	sums := a.Courses()
	require.Len(t, sums, 3)
	assert.Equal(t, "Inglés", sums[2].Course)
	assert.Equal(t, 2, sums[0].ProfessorCount)
}

func TestMutations_AllOrNothing(t *testing.T) {
	a, fs := newFailingApp(t)
	before := storeJSON(t, a)
	fs.fail = true

	_, err := a.AddReview("TDI", "Carlos Vera", 9, "")
	assert.Equal(t, apperr.TypeInternal, apperr.TypeOf(err))
	assert.ErrorIs(t, err, errDiskFull)
	assert.Error(t, a.DeleteProfessor("Cálculo I", "Ana Lopez"))
	assert.Error(t, a.AddCourse("Inglés"))
	_, err = a.SubmitRequest("Inglés", "", "")
	assert.Error(t, err)
	_, err = a.SetTheme(ThemeLight)
	assert.Error(t, err)

	assert.Equal(t, before, storeJSON(t, a))
	assert.Empty(t, a.Requests())
	assert.Equal(t, ThemeDark, a.Theme())
}

// =============================================================================
// Requests
// =============================================================================

func TestRequests_AcceptEnsuresCourse(t *testing.T) {
	a := newTestApp(t)
	r, err := a.SubmitRequest("  Probabilidad ", "2do semestre", "ana@example.com")
	require.NoError(t, err)
	r2, err := a.SubmitRequest("Química", "", "")
	require.NoError(t, err)
	assert.Equal(t, r2.ID, a.Requests()[0].ID, "newest first")

	got, err := a.SetRequestStatus(r.ID, requests.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, requests.StatusAccepted, got.Status)
	assert.Contains(t, a.CourseNames(), "Probabilidad")

	_, err = a.SetRequestStatus(r2.ID, requests.StatusRejected)
	require.NoError(t, err)
	assert.NotContains(t, a.CourseNames(), "Química")

	b := reopen(t, a)
	assert.Contains(t, b.CourseNames(), "Probabilidad")
	list := b.Requests()
	require.Len(t, list, 2)
	assert.Equal(t, requests.StatusRejected, list[0].Status)
	assert.Equal(t, requests.StatusAccepted, list[1].Status)
}

func TestRequests_Transitions(t *testing.T) {
	a := newTestApp(t)
	r, err := a.SubmitRequest("Probabilidad", "", "")
	require.NoError(t, err)

	_, err = a.SetRequestStatus(r.ID, requests.StatusRejected)
	require.NoError(t, err)
	_, err = a.SetRequestStatus(r.ID, requests.StatusRejected)
	assert.NoError(t, err, "same status is a no-op")
	_, err = a.SetRequestStatus(r.ID, requests.StatusAccepted)
	assert.True(t, apperr.IsConflict(err))
	assert.NotContains(t, a.CourseNames(), "Probabilidad")

	_, err = a.SetRequestStatus("missing", requests.StatusAccepted)
	assert.True(t, apperr.IsNotFound(err))

	_, err = a.SubmitRequest(" ", "", "")
	assert.True(t, apperr.IsValidation(err))
}

func TestRequests_AcceptFailureLeavesStateUnchanged(t *testing.T) {
	a, fs := newFailingApp(t)
	r, err := a.SubmitRequest("Probabilidad", "", "")
	require.NoError(t, err)

	fs.fail = true
	_, err = a.SetRequestStatus(r.ID, requests.StatusAccepted)
	assert.Error(t, err)
	assert.NotContains(t, a.CourseNames(), "Probabilidad")
	assert.Equal(t, requests.StatusPending, a.Requests()[0].Status)
}

// =============================================================================
// Import / export
// =============================================================================

func TestExportImport_RoundTrip(t *testing.T) {
	a := newTestApp(t)
	_, err := a.AddReview("TDI", "Carlos Vera", 9, "bueno")
	require.NoError(t, err)
	_, err = a.SubmitRequest("Probabilidad", "", "")
	require.NoError(t, err)

	data, err := a.ExportSnapshot()
	require.NoError(t, err)

	b := newTestApp(t)
	sum, err := b.ImportSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Summary{Courses: 2, Professors: 3, Reviews: 1, Requests: 1}, sum)
	assert.Equal(t, storeJSON(t, a), storeJSON(t, b))
	assert.Len(t, b.Requests(), 1)
}

func TestImport_RejectsWithoutStore(t *testing.T) {
	a := newTestApp(t)
	_, err := a.AddReview("TDI", "Carlos Vera", 9, "")
	require.NoError(t, err)
	before := storeJSON(t, a)

	for _, in := range []string{`{}`, `[]`, `nope`, `{"store":null}`} {
		_, err := a.ImportSnapshot([]byte(in))
		assert.True(t, apperr.IsFormat(err), in)
	}
	assert.Equal(t, before, storeJSON(t, a))

	b := reopen(t, a)
	assert.Equal(t, before, storeJSON(t, b), "disk untouched")
}

func TestImport_MergesReconcilesAndUnionsCourses(t *testing.T) {
	a := newTestApp(t)
	_, err := a.ImportSnapshot([]byte(`{
		"courses": ["Historia"],
		"store": {"Cálculo I": {"josé pérez": {"reviews": [{"rating": 4, "date": "2024-01-01T00:00:00.000Z"}]}, "Jose Perez": {"reviews": []}}},
		"requests": "not an array"
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Cálculo I", "TDI", "Historia"}, a.CourseNames())
	profs, err := a.Professors("Cálculo I", "")
	require.NoError(t, err)
	require.Len(t, profs, 2)
	assert.Equal(t, "Jose Perez", profs[0].Name)
	assert.Equal(t, 1, profs[0].Count)
	assert.Empty(t, a.Requests())
}

func TestImport_NoSeedDoesNotReseed(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.NoSeed = true
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.ImportSnapshot([]byte(`{
		"courseList": ["Historia"],
		"store": {"Física I": {"ana pérez": {"reviews": [{"id": "r1", "rating": 7}]}, "Ana Perez": {"reviews": []}}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Física I", "Historia"}, a.CourseNames())
	profs, err := a.Professors("Física I", "")
	require.NoError(t, err)
	require.Len(t, profs, 1)
	assert.Equal(t, "Ana Perez", profs[0].Name)
	_, err = a.Professors("TDI", "")
	assert.True(t, apperr.IsNotFound(err), "base courses are not re-added")
}

func TestImport_StorageFailureLeavesStateUnchanged(t *testing.T) {
	a, fs := newFailingApp(t)
	before := storeJSON(t, a)
	fs.fail = true

	_, err := a.ImportSnapshot([]byte(`{"store": {"Historia": {}}}`))
	assert.Error(t, err)
	assert.Equal(t, before, storeJSON(t, a))
}

func TestExportImportFile_Brotli(t *testing.T) {
	a := newTestApp(t)
	_, err := a.AddReview("TDI", "Carlos Vera", 9, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json.br")
	sum, err := a.ExportFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Reviews)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, json.Valid(raw), "file is compressed")

	b := newTestApp(t)
	_, err = b.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, storeJSON(t, a), storeJSON(t, b))

	bad := filepath.Join(t.TempDir(), "bad.json.br")
	require.NoError(t, os.WriteFile(bad, []byte("{}"), 0644))
	_, err = b.ImportFile(bad)
	assert.Error(t, err)
}

func TestInbox_ImportsDroppedSnapshot(t *testing.T) {
	src := newTestApp(t)
	_, err := src.AddReview("TDI", "Carlos Vera", 9, "")
	require.NoError(t, err)
	data, err := src.ExportSnapshot()
	require.NoError(t, err)

	a := newTestApp(t)
	require.NoError(t, a.WatchInbox())
	t.Cleanup(func() { a.Watcher.Stop() })

	drop := filepath.Join(a.InboxDir(), "backup.json")
	require.NoError(t, os.WriteFile(drop, data, 0644))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(drop + importedSuffix)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, storeJSON(t, src), storeJSON(t, a))

	bad := filepath.Join(a.InboxDir(), "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{}`), 0644))
	assert.Eventually(t, func() bool {
		_, err := os.Stat(bad + rejectedSuffix)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)
}

// =============================================================================
// Admin gate, theme, wipe
// =============================================================================

func TestAdminGate(t *testing.T) {
	a := newTestApp(t)
	assert.False(t, a.IsAdmin())
	assert.True(t, apperr.IsUnauthorized(a.RequireAdmin()))

	assert.True(t, apperr.IsUnauthorized(a.Unlock("wrong")))
	assert.False(t, a.IsAdmin())

	require.NoError(t, a.Unlock("1234"))
	assert.True(t, a.IsAdmin())
	assert.NoError(t, a.RequireAdmin())

	require.NoError(t, a.Lock())
	assert.False(t, a.IsAdmin())
	require.NoError(t, a.Lock())
}

func TestAdminGate_SessionExpires(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Unlock("1234"))

	a.now = func() time.Time { return testNow.Add(AdminSessionTTL - time.Minute) }
	assert.True(t, a.IsAdmin())

	a.now = func() time.Time { return testNow.Add(AdminSessionTTL) }
	assert.False(t, a.IsAdmin())
	assert.True(t, apperr.IsUnauthorized(a.RequireAdmin()))
	assert.NoFileExists(t, a.Paths.AdminFlag)
}

func TestAdminGate_CorruptFlagIsLocked(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, os.WriteFile(a.Paths.AdminFlag, []byte("yes"), 0600))
	assert.False(t, a.IsAdmin())
	assert.NoFileExists(t, a.Paths.AdminFlag)
}

func TestTheme(t *testing.T) {
	a := newTestApp(t)
	theme, err := a.SetTheme("toggle")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	_, err = a.SetTheme("neon")
	assert.True(t, apperr.IsValidation(err))

	b := reopen(t, a)
	assert.Equal(t, ThemeLight, b.Theme())
	theme, err = b.SetTheme(" DARK ")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
}

func TestWipe(t *testing.T) {
	a := newTestApp(t)
	_, err := a.AddReview("TDI", "Carlos Vera", 9, "")
	require.NoError(t, err)
	_, err = a.SetTheme(ThemeLight)
	require.NoError(t, err)

	require.NoError(t, a.Wipe())
	assert.Equal(t, []string{"Cálculo I", "TDI"}, a.CourseNames())
	profs, err := a.Professors("TDI", "")
	require.NoError(t, err)
	assert.Empty(t, profs)
	assert.Equal(t, ThemeDark, a.Theme())
}
