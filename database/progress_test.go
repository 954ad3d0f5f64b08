package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/database/models"
)

func TestAggregate(t *testing.T) {
	assigned := func(progress ...int) []models.Assignment {
		out := make([]models.Assignment, len(progress))
		for i, p := range progress {
			out[i] = models.Assignment{Progress: p, Assigned: true}
		}
		return out
	}

	tests := []struct {
		name     string
		records  []models.Assignment
		fallback int
		want     int
	}{
		{"empty uses fallback", nil, 30, 30},
		{"mean", assigned(40, 70, 100), 0, 70},
		{"half rounds up", assigned(33, 34), 0, 34},
		{"rounds down below half", assigned(0, 0, 1), 0, 0},
		{"unassigned ignored", append(assigned(50), models.Assignment{Progress: 0}), 0, 50},
		{"only unassigned uses fallback", []models.Assignment{{Progress: 90}}, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.records, tt.fallback))
		})
	}
}

func TestFallbackProgress(t *testing.T) {
	store := newTestStore(t)
	assert.Equal(t, 0, GetFallbackProgress(store))

	for loopIdx := 0; loopIdx < 12; loopIdx++ {
		_, _, err := StepFallbackProgress(store, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, GetFallbackProgress(store))
	assert.Equal(t, 100, AggregateProgress(store))

	v, changed, err := StepFallbackProgress(store, -3)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 70, v)

	putRaw(t, store, ProgressKey, []byte(`"abc"`))
	assert.Equal(t, 0, GetFallbackProgress(store))
}

func TestFallbackLockedOnceCollectionHasRecords(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, SetFallbackProgress(store, 40))
	_, err := UpsertAssigned(store, models.Assignment{Title: "A", Href: "a.txt"})
	require.NoError(t, err)

	v, changed, err := StepFallbackProgress(store, 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 40, v)
	assert.Equal(t, 0, AggregateProgress(store), "the assigned record drives the aggregate")
}
