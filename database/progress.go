package database

import (
	"strconv"

	"learnhub/database/models"
	"learnhub/helper"
)

// FallbackStep is the fixed increment of the dashboard's manual progress control.
const FallbackStep = 10

// GetFallbackProgress reads the scalar used when nothing is assigned. Missing or bad values read as 0.
func GetFallbackProgress(s *Store) int {
	v, err := Get[string](s, Buckets["local"], ProgressKey)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return 0
	}
	return helper.Clamp(n, 0, 100)
}

func SetFallbackProgress(s *Store, v int) error {
	return Save(s, Buckets["local"], ProgressKey, strconv.Itoa(helper.Clamp(v, 0, 100)))
}

// StepFallbackProgress moves the fallback scalar by delta steps. It is a no-op while the
// collection holds any record, mirroring the disabled dashboard buttons.
func StepFallbackProgress(s *Store, steps int) (int, bool, error) {
	if !FallbackAdjustable(LoadAssignments(s)) {
		return GetFallbackProgress(s), false, nil
	}
	v := helper.Clamp(GetFallbackProgress(s)+steps*FallbackStep, 0, 100)
	if err := SetFallbackProgress(s, v); err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// FallbackAdjustable reports whether the manual progress control is enabled.
func FallbackAdjustable(records []models.Assignment) bool {
	return len(records) == 0
}

// Aggregate is the dashboard completion: the round-half-up mean progress of assigned
// records, or fallback when none are assigned. It is never persisted.
func Aggregate(records []models.Assignment, fallback int) int {
	assigned := Assigned(records)
	if len(assigned) == 0 {
		return fallback
	}
	sum := 0
	for _, a := range assigned {
		sum += helper.Clamp(a.Progress, 0, 100)
	}
	return helper.RoundDiv(sum, len(assigned))
}

// AggregateProgress recomputes the aggregate from the current persisted state.
func AggregateProgress(s *Store) int {
	return Aggregate(LoadAssignments(s), GetFallbackProgress(s))
}
