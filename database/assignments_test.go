package database

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"learnhub/database/models"
	"learnhub/helper"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func putRaw(t *testing.T, s *Store, key string, raw []byte) {
	t.Helper()
	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(Buckets["local"]).Put([]byte(key), raw)
	}))
}

func TestLoadAssignmentsMissingOrMalformed(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, LoadAssignments(store))

	putRaw(t, store, AssignmentsKey, []byte("{not json"))
	got := LoadAssignments(store)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpsertAssignedIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	first, err := UpsertAssigned(store, models.Assignment{Title: "Intro", Href: "docs/intro.txt"})
	require.NoError(t, err)
	for loopIdx := 0; loopIdx < 3; loopIdx++ {
		id, err := UpsertAssigned(store, models.Assignment{Title: "Intro", Href: "docs/intro.txt"})
		require.NoError(t, err)
		assert.Equal(t, first, id)
	}

	records := LoadAssignments(store)
	require.Len(t, records, 1)
	assert.True(t, records[0].Assigned)
	assert.NotNil(t, records[0].AssignedAt)
	assert.Regexp(t, `^\d+-[0-9a-z]{6}$`, first)

	// same title, different href is a different resource
	other, err := UpsertAssigned(store, models.Assignment{Title: "Intro", Href: "docs/intro.md"})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
	assert.Len(t, LoadAssignments(store), 2)
}

func TestUpsertAssignedRepeatWritesNothing(t *testing.T) {
	store := newTestStore(t)
	_, err := UpsertAssigned(store, models.Assignment{Title: "Quiz"})
	require.NoError(t, err)

	var changes []Change
	unsubscribe := store.OnChange(func(c Change) { changes = append(changes, c) })
	defer unsubscribe()

	_, err = UpsertAssigned(store, models.Assignment{Title: "Quiz"})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestUpsertAssignedReassignsAndMerges(t *testing.T) {
	store := newTestStore(t)
	oldAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, SaveAssignments(store, []models.Assignment{
		{Id: "1-abcdef", Title: "Essay", Href: "essay.md", Progress: 40, Notes: "draft", AssignedAt: &oldAt},
	}))
	assert.False(t, IsAssigned(LoadAssignments(store), "Essay", "essay.md"))

	id, err := UpsertAssigned(store, models.Assignment{Title: "Essay", Href: "essay.md", FontSize: helper.Ptr(20)})
	require.NoError(t, err)
	assert.Equal(t, "1-abcdef", id)

	rec, err := GetAssignment(store, id)
	require.NoError(t, err)
	assert.True(t, rec.Assigned)
	assert.True(t, rec.AssignedAt.After(oldAt))
	assert.Equal(t, 20, *rec.FontSize)
	assert.Equal(t, 40, rec.Progress)
	assert.Equal(t, "draft", rec.Notes)
	assert.True(t, IsAssigned(LoadAssignments(store), "Essay", "essay.md"))
}

func TestNullHrefMatchesEmpty(t *testing.T) {
	store := newTestStore(t)
	putRaw(t, store, AssignmentsKey, []byte(`[{"id":"1-aaaaaa","title":"Quiz","href":null,"progress":0,"assigned":true,"notes":""}]`))

	id, err := UpsertAssigned(store, models.Assignment{Title: "Quiz"})
	require.NoError(t, err)
	assert.Equal(t, "1-aaaaaa", id)
	assert.Len(t, LoadAssignments(store), 1)
}

func TestToggleComplete(t *testing.T) {
	store := newTestStore(t)
	id, err := UpsertAssigned(store, models.Assignment{Title: "Reading", Href: "r.pdf"})
	require.NoError(t, err)

	tests := []struct {
		start int
		want  int
	}{
		{0, 100},
		{100, 0},
		{45, 100},
		{99, 100},
	}
	for _, tt := range tests {
		_, err := SetProgress(store, id, tt.start)
		require.NoError(t, err)
		got, found, err := ToggleComplete(store, id)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, tt.want, got, "from %d", tt.start)
	}

	// twice is identity for 0 and 100
	for _, start := range []int{0, 100} {
		_, err := SetProgress(store, id, start)
		require.NoError(t, err)
		_, _, _ = ToggleComplete(store, id)
		got, _, _ := ToggleComplete(store, id)
		assert.Equal(t, start, got)
	}
}

func TestMutationsOnMissingIDAreNoOps(t *testing.T) {
	store := newTestStore(t)
	_, err := UpsertAssigned(store, models.Assignment{Title: "Keep", Href: "k.txt"})
	require.NoError(t, err)
	before := LoadAssignments(store)

	found, err := SetNotes(store, "gone", "x")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = ToggleComplete(store, "gone")
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, before, LoadAssignments(store))
}

func TestChangeProgressClamps(t *testing.T) {
	store := newTestStore(t)
	id, err := UpsertAssigned(store, models.Assignment{Title: "Lab", Href: "lab.md"})
	require.NoError(t, err)

	_, err = ChangeProgress(store, id, -10)
	require.NoError(t, err)
	rec, _ := GetAssignment(store, id)
	assert.Equal(t, 0, rec.Progress)

	for loopIdx := 0; loopIdx < 12; loopIdx++ {
		_, err = ChangeProgress(store, id, 10)
		require.NoError(t, err)
	}
	rec, _ = GetAssignment(store, id)
	assert.Equal(t, 100, rec.Progress)
}

func TestRemoveAssignmentLeavesOthersUntouched(t *testing.T) {
	store := newTestStore(t)
	a, _ := UpsertAssigned(store, models.Assignment{Title: "A", Href: "a.txt"})
	b, _ := UpsertAssigned(store, models.Assignment{Title: "B", Href: "b.mp4", VideoTime: helper.Ptr(12)})
	c, _ := UpsertAssigned(store, models.Assignment{Title: "C"})
	_, err := SubmitQuiz(store, c, 67, []*int{helper.Ptr(1), nil, helper.Ptr(0)})
	require.NoError(t, err)

	rawBefore := rawRecords(t, store)
	require.NoError(t, RemoveAssignment(store, b))

	after := LoadAssignments(store)
	require.Len(t, after, 2)
	assert.Equal(t, a, after[0].Id)
	assert.Equal(t, c, after[1].Id)

	rawAfter := rawRecords(t, store)
	assert.JSONEq(t, string(rawBefore[0]), string(rawAfter[0]))
	assert.JSONEq(t, string(rawBefore[2]), string(rawAfter[1]))

	_, err = GetAssignment(store, b)
	assert.ErrorIs(t, err, ErrNotFound)
}

func rawRecords(t *testing.T, s *Store) []json.RawMessage {
	t.Helper()
	var out []json.RawMessage
	require.NoError(t, s.db.View(func(tx *bbolt.Tx) error {
		return json.Unmarshal(tx.Bucket(Buckets["local"]).Get([]byte(AssignmentsKey)), &out)
	}))
	return out
}

func TestSubmitQuizStoresAnswers(t *testing.T) {
	store := newTestStore(t)
	id, _ := UpsertAssigned(store, models.Assignment{Title: "Quiz"})

	answers := []*int{helper.Ptr(1), nil, helper.Ptr(0)}
	_, err := SubmitQuiz(store, id, 67, answers)
	require.NoError(t, err)
	*answers[0] = 9

	assert.JSONEq(t, `{"id":"`+id+`","title":"Quiz","href":null,"progress":67,"assigned":true,"notes":"","answers":[1,null,0]}`,
		withoutAssignedAt(t, rawRecords(t, store)[0]))
}

func withoutAssignedAt(t *testing.T, raw json.RawMessage) string {
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	delete(m, "assignedAt")
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}

func TestVideoPositionNeverLowersProgress(t *testing.T) {
	store := newTestStore(t)
	id, _ := UpsertAssigned(store, models.Assignment{Title: "Talk", Href: "talk.mp4"})

	_, err := SaveVideoPosition(store, id, 50, 30)
	require.NoError(t, err)
	_, err = SaveVideoPosition(store, id, 20, 12)
	require.NoError(t, err)
	rec, _ := GetAssignment(store, id)
	assert.Equal(t, 50, rec.Progress)
	assert.Equal(t, 12, *rec.VideoTime)

	_, err = SaveVideoPosition(store, id, 100, 59)
	require.NoError(t, err)
	rec, _ = GetAssignment(store, id)
	assert.Equal(t, 99, rec.Progress)

	_, err = CompleteVideo(store, id, 60)
	require.NoError(t, err)
	_, err = SaveVideoPosition(store, id, 10, 6)
	require.NoError(t, err)
	rec, _ = GetAssignment(store, id)
	assert.Equal(t, 100, rec.Progress)
}

func TestConcurrentMutationsDoNotLoseUpdates(t *testing.T) {
	store := newTestStore(t)
	a, _ := UpsertAssigned(store, models.Assignment{Title: "A", Href: "a.txt"})
	b, _ := UpsertAssigned(store, models.Assignment{Title: "B", Href: "b.txt"})
	tabA, tabB := store.Tab("a"), store.Tab("b")

	var wg sync.WaitGroup
	for loopIdx := 0; loopIdx < 10; loopIdx++ {
		wg.Add(2)
		go func() { defer wg.Done(); _, _ = ChangeProgress(tabA, a, 1) }()
		go func() { defer wg.Done(); _, _ = ChangeProgress(tabB, b, 2) }()
	}
	wg.Wait()

	ra, _ := GetAssignment(store, a)
	rb, _ := GetAssignment(store, b)
	assert.Equal(t, 10, ra.Progress)
	assert.Equal(t, 20, rb.Progress)
}
