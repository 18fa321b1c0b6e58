package models

// Item is a single drink in the catalog.
type Item struct {
	Name       string
	Attributes TagSet
	// Distance in meters; nil when unknown.
	Distance *float64
}

// HasDistance reports whether the item carries a usable distance.
func (i Item) HasDistance() bool {
	return i.Distance != nil && *i.Distance >= 0
}

// DistanceOrUnknown returns the distance and whether it is known.
func (i Item) DistanceOrUnknown() (float64, bool) {
	if !i.HasDistance() {
		return 0, false
	}
	return *i.Distance, true
}

// Meters is a small helper for building items with a known distance.
func Meters(d float64) *float64 {
	return &d
}

// ItemView is the JSON shape of a catalog item.
type ItemView struct {
	Name          string   `json:"name"`
	Attributes    []string `json:"attributes"`
	DistanceM     *float64 `json:"distance_m,omitempty"`
	DistanceLabel string   `json:"distance_label"`
}
