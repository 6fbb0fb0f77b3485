package leaderboard

import (
	"sort"

	"lol-leaderboard/internal/domain"
)

// Project filters the roster by search term, builds a row per player for the queue and sorts by
// score, highest first. The sort is stable so equal scores keep roster order.
func Project(store *Store, queue domain.Queue, search string) []domain.DisplayRow {
	roster := store.Roster()
	rows := make([]domain.DisplayRow, 0, len(roster))
	for _, p := range roster {
		if !MatchesSearch(p.DisplayName, search) {
			continue
		}
		rows = append(rows, BuildRow(p, store, queue))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows
}
