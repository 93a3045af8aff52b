package station

import (
	"fmt"
	"strconv"
	"strings"
)

// Element is a physical component of a printed product.
type Element int

const (
	Cover     Element = 1
	Text      Element = 2
	Insert    Element = 3
	Jacket    Element = 4
	Banderole Element = 5
	Endpapers Element = 6
)

// Elements lists every element in id order.
var Elements = []Element{Cover, Text, Insert, Jacket, Banderole, Endpapers}

var elementSlugs = map[Element]string{
	Cover:     "cover",
	Text:      "text",
	Insert:    "insert",
	Jacket:    "jacket",
	Banderole: "banderole",
	Endpapers: "endpapers",
}

// Valid reports whether e is a known element.
func (e Element) Valid() bool {
	_, ok := elementSlugs[e]
	return ok
}

func (e Element) String() string {
	if slug, ok := elementSlugs[e]; ok {
		return slug
	}
	return "element(" + strconv.Itoa(int(e)) + ")"
}

// ParseElement accepts a numeric id or a slug.
func ParseElement(v string) (Element, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if n, err := strconv.Atoi(v); err == nil {
		e := Element(n)
		if !e.Valid() {
			return 0, fmt.Errorf("station: unknown element id %d", n)
		}
		return e, nil
	}
	for e, slug := range elementSlugs {
		if slug == v {
			return e, nil
		}
	}
	return 0, fmt.Errorf("station: unknown element %q", v)
}
