package leaderboard

import (
	"slices"
	"strings"
)

// strongest first
var tiers = []string{
	"CHALLENGER",
	"GRANDMASTER",
	"MASTER",
	"DIAMOND",
	"EMERALD",
	"PLATINUM",
	"GOLD",
	"SILVER",
	"BRONZE",
	"IRON",
}

var divisions = []string{"I", "II", "III", "IV"}

// Score orders players descending. Unknown tiers sit one step below IRON and an unknown
// division contributes nothing.
func Score(tier, division string, lp *int) int {
	tierIndex := slices.Index(tiers, strings.ToUpper(strings.TrimSpace(tier)))
	if tierIndex == -1 {
		tierIndex = len(tiers)
	}

	divisionTerm := 0
	if di := slices.Index(divisions, strings.ToUpper(strings.TrimSpace(division))); di != -1 {
		divisionTerm = (len(divisions) - di) * 100
	}

	points := 0
	if lp != nil {
		points = *lp
	}

	return (len(tiers)-tierIndex)*1000 + divisionTerm + points
}
