package models

import "time"

// Admin is the single privileged principal. Registration is closed once
// one admin row exists.
type Admin struct {
	BaseModel
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
}

// ContestSettings is a singleton row holding contest-wide knobs.
type ContestSettings struct {
	BaseModel
	VotePrice     float64   `json:"vote_price"`
	ContestActive bool      `json:"contest_active"`
	LastUpdated   time.Time `json:"last_updated"`
}
