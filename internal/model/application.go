package model

import "time"

// ApplicationTrack distinguishes the two recruitment forms: the general
// "fresher" intake and the creative-track submission (design, content, video).
type ApplicationTrack string

const (
	TrackFresher  ApplicationTrack = "fresher"
	TrackCreative ApplicationTrack = "creative"
)

// ApplicationStatus is the review lifecycle of a submission.
// Applications are created as pending and only ever change status — they are
// never deleted.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ValidStatus reports whether s is one of the recognised review states.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application is a recruitment form submission.
type Application struct {
	ID           string            `json:"id"           db:"id"`
	Track        ApplicationTrack  `json:"track"        db:"track"`
	Name         string            `json:"name"         db:"name"`
	Email        string            `json:"email"        db:"email"`
	Experience   string            `json:"experience"   db:"experience"`
	Interests    string            `json:"interests"    db:"interests"`
	WhyJoin      string            `json:"whyJoin"      db:"why_join"`
	GitHub       string            `json:"github"       db:"github"`
	Portfolio    string            `json:"portfolio"    db:"portfolio"`
	Availability string            `json:"availability" db:"availability"`
	Status       ApplicationStatus `json:"status"       db:"status"`
	SubmittedAt  time.Time         `json:"submittedAt"  db:"submitted_at"`
}
