// Package scoring converts raw GitHub contribution counts into a point total
// and a qualitative level, and reconciles computed scores with admin overrides
// into the final leaderboard ordering.
//
// Everything in this package is a pure function over in-memory values: no I/O,
// no clock, no logging. That keeps the point arithmetic trivially testable and
// reusable from both the refresh pipeline and the leaderboard view.
package scoring

import "github.com/sakif/club-leaderboard/internal/model"

// Point weights. Work inside the organisation counts more than general
// open-source activity, and a merged PR counts more than an open one.
const (
	OrgPRWeight           = 10
	OrgMergedPRWeight     = 15
	GeneralPRWeight       = 5
	GeneralMergedPRWeight = 7
)

// Level thresholds, inclusive lower bounds. Checked from highest to lowest so
// an exact boundary value maps to the higher tier (200 points → Expert).
const (
	ExpertThreshold       = 200
	AdvancedThreshold     = 100
	IntermediateThreshold = 50
	BeginnerThreshold     = 20
)

// CalculatePoints maps raw contribution counts to a point total.
//
// Org PRs are a subset of total PRs (and org merged a subset of merged), so
// the general buckets are the remainders. The subtraction is clamped at zero:
// GitHub's search index is eventually consistent and can briefly report an org
// count that exceeds the total. We absorb that inconsistency rather than fail
// the whole refresh.
//
// Negative inputs (which a well-behaved upstream never produces) are clamped
// to zero before any arithmetic, so the function is total over all integers
// and the result is always ≥ 0.
func CalculatePoints(stats model.ContributionStats) int {
	totalPRs := max(0, stats.TotalPRs)
	mergedPRs := max(0, stats.MergedPRs)
	orgPRs := max(0, stats.OrgPRs)
	orgMergedPRs := max(0, stats.OrgMergedPRs)

	generalPRs := max(0, totalPRs-orgPRs)
	generalMergedPRs := max(0, mergedPRs-orgMergedPRs)

	return orgPRs*OrgPRWeight +
		orgMergedPRs*OrgMergedPRWeight +
		generalPRs*GeneralPRWeight +
		generalMergedPRs*GeneralMergedPRWeight
}

// LevelFor returns the tier label for a point total.
func LevelFor(points int) model.Level {
	switch {
	case points >= ExpertThreshold:
		return model.LevelExpert
	case points >= AdvancedThreshold:
		return model.LevelAdvanced
	case points >= IntermediateThreshold:
		return model.LevelIntermediate
	case points >= BeginnerThreshold:
		return model.LevelBeginner
	default:
		return model.LevelNewcomer
	}
}

// Score computes both the point total and the level in one call.
func Score(stats model.ContributionStats) (int, model.Level) {
	points := CalculatePoints(stats)
	return points, LevelFor(points)
}
