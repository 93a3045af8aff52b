package models

import (
	"time"

	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// CurrentVersion marks the row of a (order, station, element) key that is in
// effect. Older generations carry versions 2, 3, ...
const CurrentVersion = 1

// ArrangeFlag is the queue status of an order at a station.
type ArrangeFlag int

const (
	ArrangeUrgent   ArrangeFlag = 1
	ArrangeEditing  ArrangeFlag = 2
	ArrangeInactive ArrangeFlag = 3
	ArrangeDone     ArrangeFlag = 4
)

// Order is the sales order a production order belongs to.
type Order struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:255"`
	ProductID    int    `gorm:"index"`
	SampleID     uint
	OrderStateID int
	PrintingID   int
	CreatedBy    uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// ProductionOrder is the production side of an Order.
type ProductionOrder struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	OrderID   uint    `gorm:"not null;index"`
	Version   int     `gorm:"not null;default:1;index"`
	RealSpine float64 `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductionOrderGeneration is the per-order generation counter. Version
// bumps lock this row and advance it, so archived generations are numbered
// from the counter instead of a MAX scan that concurrent bumps could share.
type ProductionOrderGeneration struct {
	ProdOrderID uint `gorm:"primaryKey;autoIncrement:false"`
	Generation  int  `gorm:"not null;default:1"`
	UpdatedAt   time.Time
}

// ProductionOrderProperty holds per-station, per-element attributes of a
// production order. Exactly one row per key has Version == CurrentVersion.
type ProductionOrderProperty struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement"`
	ProdOrderID        uint            `gorm:"not null;uniqueIndex:idx_property_key"`
	Station            station.Station `gorm:"not null;uniqueIndex:idx_property_key"`
	ElementID          station.Element `gorm:"not null;uniqueIndex:idx_property_key"`
	Version            int             `gorm:"not null;default:1;uniqueIndex:idx_property_key"`
	OperatorID         uint
	Pages              int
	Width              float64
	WidthRequested     float64
	BigSheets          int
	NumberOfSheets     int
	PaperNameID        uint
	PaperName          string `gorm:"size:255"`
	PaperSizeID        uint
	PaperColorID       uint
	PaperDensityID     uint
	PaperSupplierID    uint
	Bookmark           int
	BookmarkInsert     int
	ColorID            uint
	MachineID          uint
	SecondProductionID uint
	Amount             int
	HasSample          bool
	SampleStateID      uint
	SpineStateID       uint
	RemarksSpine       string `gorm:"type:text"`
	RemarksSample      string `gorm:"type:text"`
	Remarks            string `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProductionOrderAdditionalProperty is the state of one action of one
// element at one station.
type ProductionOrderAdditionalProperty struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	ProdOrderID uint            `gorm:"not null;uniqueIndex:idx_additional_key"`
	Station     station.Station `gorm:"not null;uniqueIndex:idx_additional_key"`
	ElementID   station.Element `gorm:"not null;uniqueIndex:idx_additional_key"`
	ActionID    uint            `gorm:"not null;uniqueIndex:idx_additional_key"`
	Version     int             `gorm:"not null;default:1;uniqueIndex:idx_additional_key"`
	StateID     uint            `gorm:"not null"`
	OperatorID  uint
	Remarks     string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductionOrderArrange is the queue position of an order at a station.
type ProductionOrderArrange struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	ProdOrderID uint            `gorm:"not null;uniqueIndex:idx_arrange_key"`
	Station     station.Station `gorm:"not null;uniqueIndex:idx_arrange_key"`
	Flag        ArrangeFlag     `gorm:"column:arrange_order;not null;default:3;index"`
	UpdatedAt   time.Time
}

// ProductionOrderReadyCopies counts finished copies at a station.
type ProductionOrderReadyCopies struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	ProdOrderID uint            `gorm:"not null;index"`
	Station     station.Station `gorm:"not null;index"`
	Version     int             `gorm:"not null;default:1"`
	Copies      int
	CreatedAt   time.Time
}

// ProductionOrderHistory is one audit line.
type ProductionOrderHistory struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	ProdOrderID uint            `gorm:"not null;index"`
	Station     station.Station `gorm:"index"`
	UserID      uint
	Text        string `gorm:"type:text"`
	CreatedAt   time.Time
}
