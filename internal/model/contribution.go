package model

import "time"

// Level is the qualitative tier derived from a member's point total.
// See scoring.LevelFor for the threshold table.
type Level string

const (
	LevelNewcomer     Level = "Newcomer"
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
)

// ContributionStats holds the raw counts gathered from GitHub for one member,
// plus the derived score. The four PR counts are what the scoring function
// consumes; Commits is informational (shown on the dashboard, not scored).
//
// The counts are not guaranteed to be mutually consistent — GitHub's search
// index can briefly report orgPRs > totalPRs. The scoring function clamps
// rather than rejects, so we store whatever the API returned.
type ContributionStats struct {
	Login        string    `json:"login"        db:"login"`
	TotalPRs     int       `json:"totalPRs"     db:"total_prs"`
	MergedPRs    int       `json:"mergedPRs"    db:"merged_prs"`
	OrgPRs       int       `json:"orgPRs"       db:"org_prs"`
	OrgMergedPRs int       `json:"orgMergedPRs" db:"org_merged_prs"`
	Commits      int       `json:"commits"      db:"commits"`
	Points       int       `json:"points"       db:"points"`
	Level        Level     `json:"level"        db:"level"`
	Hidden       bool      `json:"hidden"       db:"hidden"`
	RefreshedAt  time.Time `json:"refreshedAt"  db:"refreshed_at"`
}
