// Package gate decides, per element, whether the work of one station lets
// an order move on to the next. Elements are either held back (stand-by)
// or cleared (converted).
package gate

import (
	"encoding/json"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang/glog"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// Query selects the order and the station pair to classify.
type Query struct {
	ProdOrderID uint
	From        station.Station
	To          station.Station
	// Override compares To against its own relations, judging actions on
	// their default state.
	Override bool
	// Allowed restricts the source actions considered. Nil means no
	// allow-list; an empty set lets nothing through.
	Allowed mapset.Set[uint]
}

// Result holds the classified elements. StandBy and Converted never share
// an element.
type Result struct {
	StandBy   mapset.Set[station.Element]
	Converted mapset.Set[station.Element]
}

func sorted(s mapset.Set[station.Element]) []station.Element {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}

// StandByElements returns the held-back elements in id order.
func (r Result) StandByElements() []station.Element { return sorted(r.StandBy) }

// ConvertedElements returns the cleared elements in id order.
func (r Result) ConvertedElements() []station.Element { return sorted(r.Converted) }

// MarshalJSON renders both sets as sorted id lists.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StandBy   []station.Element `json:"standBy"`
		Converted []station.Element `json:"converted"`
	}{
		StandBy:   nonNil(r.StandByElements()),
		Converted: nonNil(r.ConvertedElements()),
	})
}

func nonNil(s []station.Element) []station.Element {
	if s == nil {
		return []station.Element{}
	}
	return s
}

// Observer is told about every classification.
type Observer func(q Query, r Result)

// Classifier classifies with a fixed resolver.
type Classifier struct {
	Resolver *relation.Resolver
	Observe  Observer
}

// Classify classifies with res and no observer.
func Classify(db *gorm.DB, res *relation.Resolver, q Query) (Result, error) {
	return (&Classifier{Resolver: res}).Classify(db, q)
}

// Classify compares the live action rows at the source station against its
// relations for every element present at the target station.
func (c *Classifier) Classify(db *gorm.DB, q Query) (Result, error) {
	from := q.From
	if q.Override {
		from = q.To
	}

	rows, err := propstore.CurrentAdditionalProperties(db, q.ProdOrderID, from)
	if err != nil {
		return Result{}, err
	}
	targets, err := propstore.DistinctElements(db, q.ProdOrderID, q.To)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		StandBy:   mapset.NewThreadUnsafeSet[station.Element](),
		Converted: mapset.NewThreadUnsafeSet[station.Element](),
	}
	resolved := make(map[station.Element][]relation.Relation)

	for _, el := range targets {
		for _, row := range rows {
			if row.ElementID != el {
				continue
			}
			rels, ok := resolved[el]
			if !ok {
				rels, err = c.Resolver.Resolve(db, from, el)
				if err != nil {
					return Result{}, err
				}
				resolved[el] = rels
			}
			blocked := q.Allowed != nil && !q.Allowed.Contains(row.ActionID)
			for _, rel := range relation.ForAction(rels, row.ActionID) {
				outcome := Decide(Inputs{
					IsDefault:    rel.IsDefault,
					IsFinal:      rel.IsFinal,
					Override:     q.Override,
					Blocked:      blocked,
					StateMatches: row.StateID == rel.StateID,
				})
				switch outcome {
				case StandBy:
					result.StandBy.Add(el)
				case Converted:
					result.Converted.Add(el)
				}
				if glog.V(2) {
					glog.Infof("gate: order %d %s->%s element %s action %d state %d vs relation %d: %s",
						q.ProdOrderID, from, q.To, el, row.ActionID, row.StateID, rel.StateID, outcome)
				}
			}
		}
	}

	// An element cleared by any action is not held back by another.
	result.StandBy = result.StandBy.Difference(result.Converted)

	if c.Observe != nil {
		c.Observe(q, result)
	}
	return result, nil
}
