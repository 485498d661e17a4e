package model

import "time"

// RankOverride is an admin-assigned position that supersedes the computed
// point ordering for one member. Points is an optional snapshot of the score
// at the time the override was set (informational only — the live score always
// comes from ContributionStats).
type RankOverride struct {
	Login      string    `json:"login"            db:"login"`
	ManualRank int       `json:"manualRank"       db:"manual_rank"`
	Points     *int      `json:"points,omitempty" db:"points"`
	UpdatedAt  time.Time `json:"updatedAt"        db:"updated_at"`
}

// LeaderboardEntry is one row of the reconciled leaderboard view.
//
// ManualRank is nil for members ranked purely by points. Rank is the displayed
// position: the manual rank when one is set, otherwise the 1-based position in
// the sorted sequence. Hidden entries never reach the rendered view — the
// field exists so the reconciler can drop them.
type LeaderboardEntry struct {
	Login      string `json:"login"`
	Points     int    `json:"points"`
	Level      Level  `json:"level"`
	Commits    int    `json:"commits"`
	Rank       int    `json:"rank"`
	ManualRank *int   `json:"manualRank,omitempty"`
	Hidden     bool   `json:"-"`
}

// Settings are the global dashboard switches. Visible defaults to true and is
// created on first read if absent.
type Settings struct {
	LeaderboardVisible bool `json:"leaderboardVisible"`
}
