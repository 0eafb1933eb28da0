package domain

import (
	"sort"
	"time"
)

// SortByDue returns the states that are due at now, oldest due date first.
// Cards due at the same instant are ordered by card ID so the queue is stable
// across calls. The input slice is not modified.
func SortByDue(states []*CardState, now time.Time) []*CardState {
	due := make([]*CardState, 0, len(states))
	for _, s := range states {
		if s != nil && s.IsDue(now) {
			due = append(due, s)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].CardID < due[j].CardID
	})

	return due
}
