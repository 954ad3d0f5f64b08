package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/database/models"
)

func TestChangeNotifications(t *testing.T) {
	store := newTestStore(t)
	dashboard := store.Tab("dashboard")
	viewer := store.Tab("viewer")

	var seenByDashboard, seenByViewer []Change
	stopDashboard := dashboard.OnChange(func(c Change) {
		seenByDashboard = append(seenByDashboard, c)
		// observers re-derive from a fresh load inside the handler
		assert.Len(t, LoadAssignments(dashboard), 1)
	})
	defer stopDashboard()
	stopViewer := viewer.OnChange(func(c Change) { seenByViewer = append(seenByViewer, c) })
	defer stopViewer()

	_, err := UpsertAssigned(viewer, models.Assignment{Title: "Notes", Href: "n.md"})
	require.NoError(t, err)

	require.Len(t, seenByDashboard, 1)
	require.Len(t, seenByViewer, 1)
	assert.Equal(t, Change{Key: AssignmentsKey, Origin: "viewer", Remote: true}, seenByDashboard[0])
	assert.Equal(t, Change{Key: AssignmentsKey, Origin: "viewer", Remote: false}, seenByViewer[0])
}

func TestSessionWritesDoNotNotify(t *testing.T) {
	store := newTestStore(t)
	tab := store.Tab("t1")

	calls := 0
	stop := store.OnChange(func(Change) { calls++ })
	defer stop()

	require.NoError(t, SetSessionValue(tab, PreviewFontKey("a.txt"), "18"))
	assert.Equal(t, 0, calls)

	require.NoError(t, SetFallbackProgress(tab, 10))
	assert.Equal(t, 1, calls)
}

func TestUnsubscribe(t *testing.T) {
	store := newTestStore(t)
	calls := 0
	stop := store.OnChange(func(Change) { calls++ })

	require.NoError(t, SetFallbackProgress(store, 10))
	stop()
	stop()
	require.NoError(t, SetFallbackProgress(store, 20))
	assert.Equal(t, 1, calls)
}
