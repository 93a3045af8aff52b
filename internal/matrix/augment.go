package matrix

import (
	"math"
	"strconv"
	"strings"

	"github.com/zulandar/pressyard/internal/catalog"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// alwaysEnabledAction is the technologist action that never waits for the
// preparer.
const alwaysEnabledAction uint = 2

// TechnologistFields are the planning fields shown to the technologist.
type TechnologistFields struct {
	// Enable is the preparer final state id once the preparer finished the
	// element's spine, else 0. Action 2 is always at least 1.
	Enable         uint `json:"enable"`
	Pages          int  `json:"pages"`
	ColorID        uint `json:"colorId"`
	Bookmark       int  `json:"bookmark"`
	PaperSizeID    uint `json:"paperSizeId"`
	BigSheets      int  `json:"bigSheets"`
	MachineID      uint `json:"machineId"`
	BookmarkInsert int  `json:"bookmarkInsert"`
	PaperDensityID uint `json:"paperDensityId"`
	NumberOfSheets int  `json:"numberOfSheets"`
}

func augmentTechnologist(db *gorm.DB, b *builder, view *ActionView, props *models.ProductionOrderProperty) error {
	f := &TechnologistFields{}

	prep, err := propstore.CurrentProperties(db, b.q.ProdOrderID, station.Preparer, b.q.Element)
	if err != nil {
		return err
	}
	if prep != nil {
		fin, ok, err := b.res.FinalStateForAction(db, station.Preparer, b.q.Element, relation.PreparerAction)
		if err != nil {
			return err
		}
		if ok && prep.SpineStateID == fin {
			f.Enable = fin
		}
	}
	if view.ID == alwaysEnabledAction && f.Enable < 1 {
		f.Enable = 1
	}

	if props != nil {
		f.Pages = props.Pages
		f.ColorID = props.ColorID
		f.Bookmark = props.Bookmark
		f.PaperSizeID = props.PaperSizeID
		f.BigSheets = props.BigSheets
		f.MachineID = props.MachineID
		f.BookmarkInsert = props.BookmarkInsert
		f.PaperDensityID = props.PaperDensityID
		f.NumberOfSheets = props.NumberOfSheets
	}
	view.Technologist = f
	return nil
}

// WorkshopFields describe the paper the workshop has to prepare.
type WorkshopFields struct {
	// PaperNameCustom is the free-text paper name, nil when blank.
	PaperNameCustom *string `json:"paperNameCustom"`
	PaperName       string  `json:"paperName"`
	PaperColor      string  `json:"paperColor"`
	PaperDensity    int     `json:"paperDensity"`
	PaperFormat     string  `json:"paperFormat"`
	// HasPaper is set when name, color, density and size all resolved.
	HasPaper bool `json:"hasPaper"`
}

func augmentWorkshop(db *gorm.DB, b *builder, view *ActionView, props *models.ProductionOrderProperty) error {
	f := &WorkshopFields{}
	view.Workshop = f
	if props == nil {
		return nil
	}
	if strings.TrimSpace(props.PaperName) != "" {
		custom := props.PaperName
		f.PaperNameCustom = &custom
	}

	name, nameOK, err := catalog.PaperName(db, props.PaperNameID, b.q.Lang)
	if err != nil {
		return err
	}
	color, colorOK, err := catalog.PaperColor(db, props.PaperColorID, b.q.Lang)
	if err != nil {
		return err
	}
	density, densityOK, err := catalog.PaperDensity(db, props.PaperDensityID)
	if err != nil {
		return err
	}
	size, sizeOK, err := catalog.PaperSize(db, props.PaperSizeID)
	if err != nil {
		return err
	}

	f.PaperName = name
	f.PaperColor = color
	f.PaperDensity = density
	if sizeOK {
		f.PaperFormat = formatSize(size.Height) + "/" + formatSize(size.Length)
	}
	f.HasPaper = nameOK && colorOK && densityOK && sizeOK
	return nil
}

func formatSize(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}
