package models

import (
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// ProductionElement is a product component (cover, text, ...). Names live in
// Translation rows of kind KindElement.
type ProductionElement struct {
	ID        station.Element `gorm:"primaryKey;autoIncrement:false"`
	Slug      string          `gorm:"size:32;uniqueIndex"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
}

// StationAction is an action a station performs. IDs are local to the
// station.
type StationAction struct {
	Station   station.Station `gorm:"primaryKey;autoIncrement:false"`
	ID        uint            `gorm:"primaryKey;autoIncrement:false"`
	Position  int             `gorm:"default:0"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
}

// StationState is a state an action can be in at a station.
type StationState struct {
	Station   station.Station `gorm:"primaryKey;autoIncrement:false"`
	ID        uint            `gorm:"primaryKey;autoIncrement:false"`
	Hex       string          `gorm:"size:6"`
	Position  int             `gorm:"default:0"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
}

// ElementActionStateRelation declares that an element may be in a state for
// an action at a station.
type ElementActionStateRelation struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	Station   station.Station `gorm:"not null;index:idx_relation_lookup"`
	ElementID station.Element `gorm:"not null;index:idx_relation_lookup"`
	ActionID  uint            `gorm:"not null"`
	StateID   uint            `gorm:"not null"`
	IsDefault bool            `gorm:"default:false"`
	IsFinal   bool            `gorm:"default:false"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
}

// PreparerSpineState configures the spine states of the preparer station.
type PreparerSpineState struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false"`
	Hex       string `gorm:"size:6"`
	IsDefault bool   `gorm:"default:false"`
	IsFinal   bool   `gorm:"default:false"`
}

// SampleState configures sample states of the preparer station.
type SampleState struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false"`
	Hex       string `gorm:"size:6"`
	IsDefault bool   `gorm:"default:false"`
	IsFinal   bool   `gorm:"default:false"`
}

// SampleStateRelation links a sample type to the states it can go through.
type SampleStateRelation struct {
	SampleID uint `gorm:"primaryKey;autoIncrement:false"`
	StateID  uint `gorm:"primaryKey;autoIncrement:false"`
}
