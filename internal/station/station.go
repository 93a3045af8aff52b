// Package station defines the closed set of production stations and
// production elements, and the registry that maps a station to its backing
// relation table.
package station

import (
	"fmt"
	"strconv"
	"strings"
)

// Station identifies a production operator type.
type Station int

const (
	Prepress     Station = 1
	Completion   Station = 2
	Fitter       Station = 3
	Technologist Station = 4
	Workshop     Station = 5
	CTP          Station = 6
	Warehouse    Station = 7
	Preparer     Station = 8
)

// All lists every station in id order.
var All = []Station{Prepress, Completion, Fitter, Technologist, Workshop, CTP, Warehouse, Preparer}

var stationSlugs = map[Station]string{
	Prepress:     "prepress",
	Completion:   "completion",
	Fitter:       "fitter",
	Technologist: "technologist",
	Workshop:     "workshop",
	CTP:          "c_t_p",
	Warehouse:    "w_r_p",
	Preparer:     "preparer",
}

// Valid reports whether s is one of the known stations.
func (s Station) Valid() bool {
	_, ok := stationSlugs[s]
	return ok
}

// Slug returns the table slug of the station, or "" for unknown ids.
func (s Station) Slug() string {
	return stationSlugs[s]
}

func (s Station) String() string {
	if slug, ok := stationSlugs[s]; ok {
		return slug
	}
	return "station(" + strconv.Itoa(int(s)) + ")"
}

// Parse accepts either a numeric id or a slug ("technologist", "c_t_p").
func Parse(v string) (Station, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if n, err := strconv.Atoi(v); err == nil {
		s := Station(n)
		if !s.Valid() {
			return 0, fmt.Errorf("station: unknown id %d", n)
		}
		return s, nil
	}
	for s, slug := range stationSlugs {
		if slug == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("station: unknown station %q", v)
}

// ConvertibleStations are reset to inactive when an order goes back to the
// preparer.
func ConvertibleStations() []Station {
	return []Station{Technologist, Workshop, Prepress, CTP, Fitter, Completion}
}

// CopyStations track ready copies per version.
func CopyStations() []Station {
	return []Station{Completion, Warehouse}
}
