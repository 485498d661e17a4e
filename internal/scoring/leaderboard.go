package scoring

import (
	"cmp"
	"slices"

	"github.com/sakif/club-leaderboard/internal/model"
)

// BuildLeaderboard produces the final ordered leaderboard view from raw
// entries.
//
// Ordering rules:
//  1. Hidden entries are excluded entirely, regardless of points or override.
//  2. Entries that both carry a manual rank sort by ascending manual rank.
//  3. An entry with a manual rank sorts before any entry without one.
//  4. Otherwise, descending points.
//
// The sort is stable, so entries tied on points keep their input order. The
// displayed Rank is the manual rank when one is set, otherwise the entry's
// 1-based position in the sorted sequence.
//
// The input slice is not mutated; callers can pass repository results directly.
func BuildLeaderboard(entries []model.LeaderboardEntry) []model.LeaderboardEntry {
	visible := make([]model.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Hidden {
			visible = append(visible, e)
		}
	}

	slices.SortStableFunc(visible, func(a, b model.LeaderboardEntry) int {
		switch {
		case a.ManualRank != nil && b.ManualRank != nil:
			return cmp.Compare(*a.ManualRank, *b.ManualRank)
		case a.ManualRank != nil:
			return -1
		case b.ManualRank != nil:
			return 1
		default:
			return cmp.Compare(b.Points, a.Points)
		}
	})

	for i := range visible {
		if visible[i].ManualRank != nil {
			visible[i].Rank = *visible[i].ManualRank
		} else {
			visible[i].Rank = i + 1
		}
	}

	return visible
}
