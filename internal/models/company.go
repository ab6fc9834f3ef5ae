package models

import "gorm.io/gorm"

type Company struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	Location    string
	OwnerID     uint `gorm:"not null;index"`

	// Relationships
	Owner User  `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Jobs  []Job `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
