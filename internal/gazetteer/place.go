// Package gazetteer holds the read-only place index: the Place record, the
// name/alt-name word index, and the stores (in-memory, Postgres, cached)
// that back the standardize engine's lookups.
package gazetteer

// MaxLevels bounds the gazetteer hierarchy: 1=country, up to MaxLevels=finest.
const MaxLevels = 4

// USAID is the country id the level matcher treats specially: a level-2
// place under this country is a US state, which the level matcher will not
// skip over once matched.
const USAID = 1500

// AltName is an alternate spelling or historical name for a Place.
type AltName struct {
	Text   string
	Source string // optional, empty when absent
}

// Source is a citation attached to a Place.
type Source struct {
	Text string
	ID   string // optional, empty when absent
}

// Place is an immutable gazetteer entry. Once loaded, nothing mutates a
// Place; the engine only ever reads them by id.
type Place struct {
	ID               int
	Name             string
	AltNames         []AltName
	Types            []string
	LocatedInID      int // 0 means no parent (root)
	AlsoLocatedInIDs []int
	Level            int // 1 (country) .. MaxLevels (finest)
	CountryID        int
	Latitude         float64
	Longitude        float64
	Sources          []Source
}

// FullName walks LocatedInID up through store, joining names with ", ",
// e.g. "St. Louis, Missouri", for display purposes.
func (p Place) FullName(store PlaceStore) string {
	buf := p.Name
	locatedIn := p.LocatedInID
	for locatedIn > 0 {
		parent, ok := store.Place(locatedIn)
		if !ok {
			break
		}
		buf += ", " + parent.Name
		locatedIn = parent.LocatedInID
	}
	return buf
}
