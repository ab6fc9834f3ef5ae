package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model

	UserID        uint   `gorm:"not null;index"`
	ApplicationID uint   `gorm:"not null;index"`
	Channel       string `gorm:"not null"` // "email", "in_app"
	Status        string `gorm:"not null"` // "sent", "failed"
	Subject       string
	Message       string
	Payload       datatypes.JSON `gorm:"type:jsonb"` // {"job_id": ..., "status": "..."}
	SentAt        *time.Time

	// Relationships
	User        User        `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
