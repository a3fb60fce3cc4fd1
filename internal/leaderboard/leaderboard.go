// Package leaderboard computes derived rankings from roster snapshots.
// It is pure and safe to call repeatedly, including after a session ends.
package leaderboard

import (
	"sort"

	"github.com/quizwire/quizwire/internal/model"
)

// Compute ranks a roster snapshot by score descending, breaking ties by
// ascending join order so earlier joiners rank first.
func Compute(roster []model.RosterEntry) []model.LeaderboardEntry {
	ordered := make([]model.RosterEntry, len(roster))
	copy(ordered, roster)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].JoinOrder < ordered[j].JoinOrder
	})

	entries := make([]model.LeaderboardEntry, len(ordered))
	for i, p := range ordered {
		entries[i] = model.LeaderboardEntry{
			ParticipantID: p.ParticipantID,
			Nickname:      p.Nickname,
			Score:         p.Score,
		}
	}
	return entries
}
