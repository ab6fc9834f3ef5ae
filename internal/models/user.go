package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	FullName     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PhoneNumber  string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;index"` // "job_seeker", "employer"

	Profile Profile `gorm:"embedded;embeddedPrefix:profile_"`

	// Relationships
	Applications  []Application  `gorm:"foreignKey:ApplicantID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Profile holds the job-seeker facing fields. The resume file itself lives in
// an external blob store; only its URL and display name are kept here.
type Profile struct {
	Bio        string
	Skills     pq.StringArray `gorm:"type:text[]"`
	ResumeURL  string
	ResumeName string
}
