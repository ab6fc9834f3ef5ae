package models

import "gorm.io/gorm"

// Application links one job seeker to one job. The composite unique index is
// the authoritative guard against duplicate applications: concurrent applies
// for the same pair race to the INSERT and the loser gets a conflict error.
type Application struct {
	gorm.Model

	JobID       uint   `gorm:"not null;uniqueIndex:idx_applications_job_applicant"`
	ApplicantID uint   `gorm:"not null;uniqueIndex:idx_applications_job_applicant;index"`
	Status      string `gorm:"not null;default:pending"` // "pending", "accepted", "rejected"

	// Relationships
	Job       Job  `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Applicant User `gorm:"foreignKey:ApplicantID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
