package pyq

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/storage"
	"github.com/asteroid-belt/gatewise/internal/testutil"
)

var day0 = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *storage.Memory, *testutil.RecordingLogger) {
	t.Helper()

	kv := storage.NewMemory()
	logger := &testutil.RecordingLogger{}
	s, err := Open(kv, WithClock(testutil.NewClock(day0).Now), WithLogger(logger))
	require.NoError(t, err)
	return s, kv, logger
}

func paper(year int, branch, code string, topics ...string) models.PyqItem {
	return models.PyqItem{
		ID:               models.PyqID(year, branch, code),
		Year:             year,
		Branch:           branch,
		PaperCode:        code,
		OfficialPaperURL: "https://gate.iitk.ac.in/papers/" + code + ".pdf",
		Topics:           topics,
		Source:           models.SourceOfficial,
	}
}

func TestUpsert_ReplacesByID(t *testing.T) {
	s, _, _ := newTestStore(t)

	first := paper(2023, "CS", "CS1", "dbms")
	s.UpsertOne(first)

	second := first
	second.Topics = []string{"os"}
	second.Checksum = "abc"
	s.UpsertMany([]models.PyqItem{second, paper(2024, "CS", "CS1")})

	got, ok := s.Item(first.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"os"}, got.Topics, "upsert replaces, never merges")
	assert.Equal(t, "abc", got.Checksum)
	assert.Len(t, s.Items(), 2)
}

func TestUpsert_DerivesMissingID(t *testing.T) {
	s, _, _ := newTestStore(t)

	item := paper(2022, "EE", "EE")
	item.ID = ""
	s.UpsertOne(item)

	_, ok := s.Item("2022-EE-EE")
	assert.True(t, ok)
}

func TestItems_SortedByYearDescThenID(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.UpsertMany([]models.PyqItem{
		paper(2022, "ME", "ME1"),
		paper(2024, "CS", "CS2"),
		paper(2024, "CS", "CS1"),
	})

	var ids []string
	for _, item := range s.Items() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"2024-CS-CS1", "2024-CS-CS2", "2022-ME-ME1"}, ids)
}

func TestToggleBookmark_TwiceReturnsToDefaults(t *testing.T) {
	s, _, _ := newTestStore(t)

	assert.True(t, s.ToggleBookmark("2020-CS-CS"))
	assert.False(t, s.ToggleBookmark("2020-CS-CS"))

	st, ok := s.UserState("2020-CS-CS")
	require.True(t, ok, "the record is created even though no catalog entry exists")
	assert.Equal(t, models.NewPyqUserState("2020-CS-CS"), st)
}

func TestToggleFlagForRevision_CreatesWithOnlyFlagSet(t *testing.T) {
	s, _, _ := newTestStore(t)

	assert.True(t, s.ToggleFlagForRevision("x"))

	st, _ := s.UserState("x")
	assert.True(t, st.FlaggedForRevision)
	assert.False(t, st.Bookmarked)
	assert.False(t, st.Solved)
	assert.Nil(t, st.Correct)
	assert.Zero(t, st.Attempts)
}

func TestMarkAsSolved_CountsEveryAttempt(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.ToggleBookmark("p")

	s.MarkAsSolved("p", models.Ptr(false))
	s.MarkAsSolved("p", models.Ptr(true))

	st, _ := s.UserState("p")
	assert.True(t, st.Solved)
	require.NotNil(t, st.Correct)
	assert.True(t, *st.Correct)
	assert.Equal(t, 2, st.Attempts)
	assert.True(t, st.Bookmarked, "existing fields survive the merge")
	require.NotNil(t, st.LastAttemptAt)
	assert.True(t, st.LastAttemptAt.Equal(day0))

	s.MarkAsSolved("p", nil)
	st, _ = s.UserState("p")
	assert.Nil(t, st.Correct, "an unknown verdict clears the previous one")
	assert.Equal(t, 3, st.Attempts)
}

func TestUpdateUserState_MergesPartial(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.UpdateUserState("p", models.PyqUserStateUpdate{Notes: models.Ptr("revisit Q12")})
	s.UpdateUserState("p", models.PyqUserStateUpdate{TimeSpentMin: models.Ptr(40)})

	st, _ := s.UserState("p")
	assert.Equal(t, "revisit Q12", st.Notes)
	assert.Equal(t, 40, st.TimeSpentMin)
}

func TestRemoveItem_DoesNotCascade(t *testing.T) {
	s, _, _ := newTestStore(t)
	item := paper(2021, "CS", "CS1")
	s.UpsertOne(item)
	s.ToggleBookmark(item.ID)
	s.MarkAsCached(item.ID)
	s.ToggleSelection(item.ID)

	s.RemoveItem(item.ID)

	_, ok := s.Item(item.ID)
	assert.False(t, ok)
	_, ok = s.UserState(item.ID)
	assert.True(t, ok, "user state outlives its catalog entry")
	assert.True(t, s.IsCached(item.ID))
	assert.Equal(t, []string{item.ID}, s.Selected())
}

func TestBulkDelete_Cascades(t *testing.T) {
	s, _, _ := newTestStore(t)
	a, b := paper(2021, "CS", "CS1"), paper(2021, "CS", "CS2")
	s.UpsertMany([]models.PyqItem{a, b})
	for _, id := range []string{a.ID, b.ID} {
		s.ToggleBookmark(id)
		s.MarkAsCached(id)
		s.ToggleSelection(id)
	}

	s.BulkDelete([]string{a.ID})

	_, ok := s.Item(a.ID)
	assert.False(t, ok)
	_, ok = s.UserState(a.ID)
	assert.False(t, ok)
	assert.False(t, s.IsCached(a.ID))
	assert.Equal(t, []string{b.ID}, s.Selected())

	_, ok = s.Item(b.ID)
	assert.True(t, ok, "other ids are untouched")
	assert.True(t, s.IsCached(b.ID))
}

func TestGetStatistics(t *testing.T) {
	t.Run("accuracy rounds to two decimals", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.UpsertMany([]models.PyqItem{paper(2020, "CS", "A"), paper(2020, "CS", "B")})
		s.MarkAsSolved("a", models.Ptr(true))
		s.MarkAsSolved("b", models.Ptr(true))
		s.MarkAsSolved("c", models.Ptr(false))
		s.ToggleBookmark("a")
		s.ToggleFlagForRevision("d")
		s.MarkAsCached("a")

		stats := s.GetStatistics()
		assert.Equal(t, models.PyqStatistics{
			Total:      2,
			Solved:     3,
			Bookmarked: 1,
			Flagged:    1,
			Cached:     1,
			Accuracy:   66.67,
		}, stats)
	})

	t.Run("nothing solved gives zero accuracy", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.ToggleBookmark("a")

		assert.Zero(t, s.GetStatistics().Accuracy)
	})

	t.Run("unknown verdict counts as solved but not correct", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.MarkAsSolved("a", nil)
		s.MarkAsSolved("b", models.Ptr(true))

		assert.Equal(t, 50.0, s.GetStatistics().Accuracy)
	})
}

func TestDownloadQueue_Dedups(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.AddToDownloadQueue([]string{"a", "b"})
	s.BulkDownload([]string{"b", "c"})

	assert.Equal(t, []string{"a", "b", "c"}, s.Queue())
}

func TestRemoveFromDownloadQueue_DropsProgress(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.AddToDownloadQueue([]string{"a", "b"})
	s.UpdateDownloadProgress("a", 40)
	s.UpdateDownloadProgress("b", 250)

	p, ok := s.Progress("b")
	require.True(t, ok)
	assert.Equal(t, 100, p)

	s.RemoveFromDownloadQueue("a")

	assert.Equal(t, []string{"b"}, s.Queue())
	_, ok = s.Progress("a")
	assert.False(t, ok)
}

func TestCache_IndependentOfQueue(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.MarkAsCached("seeded")
	s.MarkAsCached("seeded")

	assert.Equal(t, []string{"seeded"}, s.Snapshot().CachedItems)
	assert.Empty(t, s.Queue())

	s.RemoveFromCache("seeded")
	assert.False(t, s.IsCached("seeded"))
}

func TestBulkUpdateUserStates_AppliesAgainstOneSnapshot(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.UpdateUserState("a", models.PyqUserStateUpdate{Attempts: models.Ptr(2)})

	s.BulkUpdateUserStates([]StateChange{
		{PyqID: "a", Update: models.PyqUserStateUpdate{Bookmarked: models.Ptr(true)}},
		{PyqID: "a", Update: models.PyqUserStateUpdate{FlaggedForRevision: models.Ptr(true)}},
		{PyqID: "new", Update: models.PyqUserStateUpdate{Solved: models.Ptr(true)}},
	})

	a, _ := s.UserState("a")
	assert.Equal(t, 2, a.Attempts)
	assert.True(t, a.FlaggedForRevision)
	assert.False(t, a.Bookmarked, "changes in one batch do not see each other")

	created, ok := s.UserState("new")
	require.True(t, ok)
	assert.True(t, created.Solved)
}

func TestSelection(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.UpsertMany([]models.PyqItem{paper(2020, "CS", "B"), paper(2020, "CS", "A")})

	s.ToggleSelection("x")
	s.ToggleSelection("y")
	s.ToggleSelection("x")
	assert.Equal(t, []string{"y"}, s.Selected())

	s.SelectAll()
	assert.Equal(t, []string{"2020-CS-A", "2020-CS-B"}, s.Selected())

	s.UpsertOne(paper(2021, "CS", "C"))
	assert.Len(t, s.Selected(), 2, "select-all is a snapshot, not a live view")

	s.ClearSelection()
	assert.Empty(t, s.Selected())
}

func TestFilters(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.UpsertMany([]models.PyqItem{
		paper(2024, "CS", "CS1", "Algorithms"),
		paper(2023, "CS", "CS1", "Operating Systems"),
		paper(2024, "EE", "EE", "Signals"),
	})
	s.MarkAsSolved("2023-CS-CS1", models.Ptr(true))

	s.SetFilters(models.FiltersUpdate{Branch: models.Ptr("cs")})
	assert.Len(t, s.Filtered(), 2)

	s.SetFilters(models.FiltersUpdate{Status: models.Ptr(models.StatusCompleted)})
	got := s.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "2023-CS-CS1", got[0].ID)
	assert.Equal(t, "cs", s.Filters().Branch, "set merges into the current filters")

	s.ClearFilters()
	assert.Equal(t, models.SearchFilters{Q: ""}, s.Filters())

	s.SetFilters(models.FiltersUpdate{Q: models.Ptr("signal")})
	got = s.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "2024-EE-EE", got[0].ID)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src, _, _ := newTestStore(t)
	item := paper(2019, "ME", "ME1", "thermo")
	src.UpsertOne(item)
	src.MarkAsSolved(item.ID, models.Ptr(true))
	src.MarkAsCached(item.ID)

	exported := src.ExportData()
	assert.Contains(t, exported, `"exportDate"`)

	dst, _, _ := newTestStore(t)
	dst.SetViewMode(models.ViewList)
	require.True(t, dst.ImportData(exported))

	got, ok := dst.Item(item.ID)
	require.True(t, ok)
	assert.Equal(t, item.Topics, got.Topics)
	st, _ := dst.UserState(item.ID)
	assert.Equal(t, 1, st.Attempts)
	assert.True(t, dst.IsCached(item.ID))
	assert.Equal(t, models.ViewList, dst.ViewMode(), "import leaves the browser state alone")
}

func TestImportData_MalformedLeavesStateUnchanged(t *testing.T) {
	for _, input := range []string{"not json", "null", `{"items": [}`, `{"items": 7}`} {
		t.Run(input, func(t *testing.T) {
			s, kv, logger := newTestStore(t)
			s.UpsertOne(paper(2020, "CS", "CS"))
			s.ToggleBookmark("2020-CS-CS")
			before := s.Snapshot()
			persisted, _, _ := kv.Get(models.DocPyq)

			assert.False(t, s.ImportData(input))

			assert.Equal(t, before, s.Snapshot())
			after, _, _ := kv.Get(models.DocPyq)
			assert.Equal(t, persisted, after)
			assert.Equal(t, 1, logger.Count())
		})
	}
}

func TestOpen_RestoresPersistedDocumentOnly(t *testing.T) {
	s, kv, _ := newTestStore(t)
	s.UpsertOne(paper(2020, "CS", "CS"))
	s.ToggleFlagForRevision("2020-CS-CS")
	s.MarkAsCached("2020-CS-CS")
	s.SetViewMode(models.ViewList)
	s.SetFilters(models.FiltersUpdate{Year: models.Ptr(2020)})
	s.SetLastRefreshAt("2026-02-01T10:00:00Z")
	s.SetLastUpdateCheck(day0)
	s.AddToDownloadQueue([]string{"2020-CS-CS"})
	s.ToggleSelection("2020-CS-CS")

	reopened, err := Open(kv)
	require.NoError(t, err)

	snap := reopened.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.True(t, snap.UserStates["2020-CS-CS"].FlaggedForRevision)
	assert.Equal(t, []string{"2020-CS-CS"}, snap.CachedItems)
	assert.Equal(t, models.ViewList, snap.ViewMode)
	assert.Equal(t, 2020, snap.Filters.Year)
	assert.Equal(t, "2026-02-01T10:00:00Z", snap.LastRefreshAt)
	require.NotNil(t, snap.LastUpdateCheck)
	assert.True(t, snap.LastUpdateCheck.Equal(day0))

	assert.Empty(t, snap.DownloadQueue, "the queue is transient")
	assert.Empty(t, snap.SelectedItems, "the selection is transient")
}

func TestConcurrentToggles_AreSerialized(t *testing.T) {
	s, _, _ := newTestStore(t)

	var wg sync.WaitGroup
	for range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MarkAsSolved("busy", nil)
		}()
	}
	wg.Wait()

	st, _ := s.UserState("busy")
	assert.Equal(t, 40, st.Attempts)
}

func TestLoadCatalog(t *testing.T) {
	const catalog = `
papers:
  - year: 2024
    branch: CS
    paperCode: CS1
    session: Shift1
    officialPaperUrl: https://gate2024.iisc.ac.in/cs1.pdf
    officialAnswerKeyUrl: https://gate2024.iisc.ac.in/cs1-key.pdf
    mirrors:
      - paper: https://gate.iitk.ac.in/cs1.pdf
    topics: [algorithms, dbms]
    difficulty: medium
  - id: custom-id
    year: 2023
    branch: EE
    paperCode: EE
    officialPaperUrl: https://gate.iitk.ac.in/ee.pdf
    source: community
`
	items, err := LoadCatalog(strings.NewReader(catalog))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "2024-CS-CS1", items[0].ID)
	assert.Equal(t, models.SourceOfficial, items[0].Source)
	assert.Equal(t, []models.Mirror{{Paper: "https://gate.iitk.ac.in/cs1.pdf"}}, items[0].Mirrors)
	assert.Equal(t, models.DifficultyMedium, items[0].Difficulty)
	assert.Equal(t, "custom-id", items[1].ID)
	assert.Equal(t, models.SourceCommunity, items[1].Source)
}

func TestLoadCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not yaml", "papers: [unclosed"},
		{"unknown field", "papers:\n  - year: 2024\n    colour: red\n"},
		{"missing url", "papers:\n  - year: 2024\n    branch: CS\n    paperCode: CS1\n"},
		{"missing year", "papers:\n  - branch: CS\n    paperCode: CS1\n    officialPaperUrl: https://x\n"},
		{"duplicate id", "papers:\n  - {year: 2024, branch: CS, paperCode: CS1, officialPaperUrl: https://x}\n  - {year: 2024, branch: CS, paperCode: CS1, officialPaperUrl: https://y}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}
