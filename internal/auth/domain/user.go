package domain

import "time"

// UserIdentity is the slice of a platform account the session service needs.
// The account itself lives elsewhere; we keep a mirror that is pushed to us.
type UserIdentity struct {
	ID              int64
	Username        string
	Email           string
	Role            string
	AvatarURL       string
	Level           int
	XP              int64
	IsActive        bool
	IsEmailVerified bool
	UpdatedAt       time.Time
}

// ClaimSet is everything an access token says about its subject.
type ClaimSet struct {
	SubjectID     int64
	Username      string
	Email         string
	EmailVerified bool
	Role          string
	AvatarURL     string
	Level         int
	XP            int64
}
