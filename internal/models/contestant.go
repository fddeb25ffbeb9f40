package models

import (
	"time"

	"github.com/google/uuid"
)

// Contestant represents a voting-contest participant.
type Contestant struct {
	BaseModel
	FullName                string     `json:"fullname"`
	Username                string     `gorm:"uniqueIndex" json:"username"`
	Email                   string     `gorm:"uniqueIndex" json:"email"`
	PhoneNumber             string     `gorm:"uniqueIndex" json:"phone_number"`
	State                   string     `json:"state"`
	PasswordHash            string     `json:"-"`
	Role                    string     `json:"role"`
	IsVerified              bool       `json:"is_verified"`
	OTP                     *string    `json:"-"`
	OTPCreatedAt            *time.Time `json:"-"`
	ResetToken              *string    `gorm:"index" json:"-"`
	ResetTokenExpires       *time.Time `json:"-"`
	ProfilePic              string     `json:"profile_pic"`
	CoverPic                string     `json:"cover_pic"`
	Twitter                 string     `json:"twitter"`
	Instagram               string     `json:"instagram"`
	Facebook                string     `json:"facebook"`
	Whatsapp                string     `json:"whatsapp"`
	IsRegistrationCompleted bool       `json:"is_registration_completed"`
	Votes                   []Vote     `json:"votes,omitempty"`
}

// Vote is one vote purchase recorded against a contestant. The same voter
// email may appear more than once.
type Vote struct {
	BaseModel
	ContestantID  uuid.UUID `gorm:"type:uuid;index" json:"-"`
	VoterName     string    `json:"voter_name"`
	VoterEmail    string    `json:"voter_email"`
	NumberOfVotes int       `json:"number_of_votes"`
}
