package models

import (
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// User is a person who can log in and receive notifications.
type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	Email     string         `gorm:"size:255;uniqueIndex"`
	FirstName string         `gorm:"size:128"`
	LastName  string         `gorm:"size:128"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ProductionOperator assigns a user to a station.
type ProductionOperator struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	UserID    uint            `gorm:"not null;index"`
	Station   station.Station `gorm:"not null;index"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
}
