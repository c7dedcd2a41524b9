package gazetteer

import (
	"database/sql"
	"fmt"
	"strings"
)

// SQLStore is a Postgres-backed Gazetteer over two tables:
// places(id, name, alt_names, types, located_in_id, also_located_in_ids,
// level, country_id, latitude, longitude, sources) and
// place_words(word, ids). Every read issues exactly one query; failures are
// reported to the caller so an outer cache layer can log and return absent
// rather than propagate the error into the resolver.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open *sql.DB. The caller owns the connection's
// lifecycle (see internal/db.Connection).
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Place implements PlaceStore by querying the places table once.
func (s *SQLStore) Place(id int) (Place, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, name, alt_names, types, located_in_id, also_located_in_ids,
		       level, country_id, latitude, longitude, sources
		FROM places WHERE id = $1
	`, id)

	var (
		p                                                        Place
		altNames, types, alsoLocatedInIDs, sources                string
	)
	err := row.Scan(&p.ID, &p.Name, &altNames, &types, &p.LocatedInID,
		&alsoLocatedInIDs, &p.Level, &p.CountryID, &p.Latitude, &p.Longitude, &sources)
	if err == sql.ErrNoRows {
		return Place{}, false, nil
	}
	if err != nil {
		return Place{}, false, fmt.Errorf("failed to read place %d: %w", id, err)
	}
	if altNames != "" {
		p.AltNames = parseAltNames(altNames)
	}
	if types != "" {
		p.Types = strings.Split(types, "~")
	}
	if alsoLocatedInIDs != "" {
		ids, idErr := parseIDList(alsoLocatedInIDs, "~")
		if idErr != nil {
			return Place{}, false, fmt.Errorf("failed to parse also_located_in_ids for place %d: %w", id, idErr)
		}
		p.AlsoLocatedInIDs = ids
	}
	if sources != "" {
		p.Sources = parseSources(sources)
	}
	return p, true, nil
}

// Word implements WordStore by querying the place_words table once.
func (s *SQLStore) Word(word string) ([]int, bool, error) {
	row := s.db.QueryRow(`SELECT ids FROM place_words WHERE word = $1`, word)

	var idsField string
	err := row.Scan(&idsField)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read place_words %q: %w", word, err)
	}
	ids, err := parseIDList(idsField, ",")
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse ids for word %q: %w", word, err)
	}
	return ids, true, nil
}

// PutPlace upserts a place record, implementing PlaceSink so LoadPlaces can
// bulk-load a places file straight into Postgres without an intermediate
// in-memory gazetteer.
func (s *SQLStore) PutPlace(p Place) error {
	_, err := s.db.Exec(`
		INSERT INTO places (id, name, alt_names, types, located_in_id, also_located_in_ids,
		                     level, country_id, latitude, longitude, sources)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, alt_names = EXCLUDED.alt_names, types = EXCLUDED.types,
			located_in_id = EXCLUDED.located_in_id, also_located_in_ids = EXCLUDED.also_located_in_ids,
			level = EXCLUDED.level, country_id = EXCLUDED.country_id,
			latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, sources = EXCLUDED.sources
	`, p.ID, p.Name, encodeAltNames(p.AltNames), strings.Join(p.Types, "~"),
		p.LocatedInID, encodeIDList(p.AlsoLocatedInIDs, "~"), p.Level, p.CountryID,
		p.Latitude, p.Longitude, encodeSources(p.Sources))
	if err != nil {
		return fmt.Errorf("failed to upsert place %d: %w", p.ID, err)
	}
	return nil
}

// PutWord upserts a word index entry, implementing WordSink.
func (s *SQLStore) PutWord(word string, ids []int) error {
	_, err := s.db.Exec(`
		INSERT INTO place_words (word, ids) VALUES ($1, $2)
		ON CONFLICT (word) DO UPDATE SET ids = EXCLUDED.ids
	`, word, encodeIDList(ids, ","))
	if err != nil {
		return fmt.Errorf("failed to upsert word %q: %w", word, err)
	}
	return nil
}

func encodeAltNames(names []AltName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if n.Source != "" {
			parts[i] = n.Text + ":" + n.Source
		} else {
			parts[i] = n.Text
		}
	}
	return strings.Join(parts, "~")
}

func encodeSources(sources []Source) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		if s.ID != "" {
			parts[i] = s.Text + ":" + s.ID
		} else {
			parts[i] = s.Text
		}
	}
	return strings.Join(parts, "~")
}

func encodeIDList(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, sep)
}

// CreateSchema creates the places/place_words tables if absent. Used by the
// "load" CLI subcommand to bootstrap a fresh database.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS places (
			id INT PRIMARY KEY,
			name TEXT NOT NULL,
			alt_names TEXT NOT NULL DEFAULT '',
			types TEXT NOT NULL DEFAULT '',
			located_in_id INT NOT NULL DEFAULT 0,
			also_located_in_ids TEXT NOT NULL DEFAULT '',
			level INT NOT NULL,
			country_id INT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			sources TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create places table: %w", err)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS place_words (
			word TEXT PRIMARY KEY,
			ids TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create place_words table: %w", err)
	}
	return nil
}
