package models

import "gorm.io/gorm"

type Job struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Location    string
	CompanyID   uint `gorm:"not null;index"`
	PostedByID  uint `gorm:"not null;index"` // owning employer

	// Relationships. Applications is the job's backlink list; insertion
	// order is creation order, so created_at carries the application order.
	Company      Company       `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	PostedBy     User          `gorm:"foreignKey:PostedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
