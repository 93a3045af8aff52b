package models

// Translation kinds.
const (
	KindElement          = "element"
	KindAction           = "action"
	KindState            = "state"
	KindSample           = "sample"
	KindSecondProduction = "second_production"
	KindLace             = "lace"
	KindBand             = "band"
	KindPaperName        = "paper_name"
	KindPaperColor       = "paper_color"
	KindPreparerState    = "preparer_state"
	KindSampleState      = "sample_state"
)

// Translation is a localized name of a catalog row. Station is zero for
// rows that are not station scoped.
type Translation struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Kind     string `gorm:"size:32;not null;uniqueIndex:idx_translation_key"`
	Station  int    `gorm:"not null;default:0;uniqueIndex:idx_translation_key"`
	RefID    uint   `gorm:"not null;uniqueIndex:idx_translation_key"`
	Language string `gorm:"size:2;not null;uniqueIndex:idx_translation_key"`
	Name     string `gorm:"size:255"`
}

// Sample is a sample type an order may require.
type Sample struct {
	ID  uint   `gorm:"primaryKey;autoIncrement:false"`
	Hex string `gorm:"size:6"`
}

// SecondProduction is a secondary production process (lamination, foil, ...).
type SecondProduction struct {
	ID uint `gorm:"primaryKey;autoIncrement:false"`
}

// Lace is a bookmark ribbon.
type Lace struct {
	ID    uint    `gorm:"primaryKey;autoIncrement"`
	Code  string  `gorm:"size:32"`
	Price float64 `gorm:"default:0"`
}

// HeadTailBand is a head and tail band.
type HeadTailBand struct {
	ID    uint    `gorm:"primaryKey;autoIncrement"`
	Code  string  `gorm:"size:32"`
	Price float64 `gorm:"default:0"`
}

// PaperName is a paper kind; its name is a Translation.
type PaperName struct {
	ID uint `gorm:"primaryKey;autoIncrement"`
}

// PaperColor is a paper color; its name is a Translation.
type PaperColor struct {
	ID uint `gorm:"primaryKey;autoIncrement"`
}

// PaperDensity is a paper weight in g/m2.
type PaperDensity struct {
	ID      uint `gorm:"primaryKey;autoIncrement"`
	Density int
}

// PaperSize is a sheet format in centimeters.
type PaperSize struct {
	ID     uint `gorm:"primaryKey;autoIncrement"`
	Height float64
	Length float64
}

// Machine is a printing machine.
type Machine struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:128"`
}

// Color is a print color scheme (4+0, 4+4, ...).
type Color struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:64"`
}

// Supplier is a paper supplier.
type Supplier struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:128"`
}

// Binding is a binding type.
type Binding struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:128"`
}
