package relation

import (
	"fmt"

	"github.com/zulandar/pressyard/internal/catalog"
	"github.com/zulandar/pressyard/internal/models"
	"gorm.io/gorm"
)

// PreparerStates are the preparer state ids of one kind (default or final).
// State and Spine always agree; Sample is the matching sample state.
type PreparerStates struct {
	State  uint `json:"stateId"`
	Spine  uint `json:"spineId"`
	Sample uint `json:"sampleId"`
}

// Fallback ids used when the preparer configuration tables have no
// matching row.
var (
	DefaultPreparerFallback = PreparerStates{State: 1, Spine: 1, Sample: 1}
	FinalPreparerFallback   = PreparerStates{State: 4, Spine: 4, Sample: 2}
)

// PreparerDefaults returns the configured default preparer states.
func PreparerDefaults(db *gorm.DB) (PreparerStates, error) {
	return preparerStates(db, "is_default", DefaultPreparerFallback)
}

// PreparerFinals returns the configured final preparer states.
func PreparerFinals(db *gorm.DB) (PreparerStates, error) {
	return preparerStates(db, "is_final", FinalPreparerFallback)
}

func preparerStates(db *gorm.DB, flag string, fallback PreparerStates) (PreparerStates, error) {
	out := fallback

	var spine models.PreparerSpineState
	res := db.Where(flag+" = ?", true).Order("id").Limit(1).Find(&spine)
	if res.Error != nil {
		return PreparerStates{}, fmt.Errorf("relation: preparer spine state (%s): %w", flag, res.Error)
	}
	if res.RowsAffected > 0 {
		out.State = spine.ID
		out.Spine = spine.ID
	}

	var sample models.SampleState
	res = db.Model(&models.SampleState{}).
		Joins("JOIN sample_state_relations ON sample_state_relations.state_id = sample_states.id").
		Where("sample_states."+flag+" = ?", true).
		Where("sample_state_relations.sample_id IN ?", catalog.EnabledSamples()).
		Order("sample_states.id").
		Limit(1).
		Find(&sample)
	if res.Error != nil {
		return PreparerStates{}, fmt.Errorf("relation: preparer sample state (%s): %w", flag, res.Error)
	}
	if res.RowsAffected > 0 {
		out.Sample = sample.ID
	}
	return out, nil
}
