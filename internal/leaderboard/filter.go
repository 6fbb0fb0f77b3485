package leaderboard

import "strings"

// MatchesSearch is a case-insensitive substring test; a blank term matches everything.
func MatchesSearch(displayName, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(displayName), strings.ToLower(term))
}
