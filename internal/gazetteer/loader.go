package gazetteer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PlaceSink receives parsed place records. Implemented by MemoryGazetteer
// for in-memory loads and by SQLStore for bulk loads into Postgres.
type PlaceSink interface {
	PutPlace(Place) error
}

// WordSink receives parsed word index entries.
type WordSink interface {
	PutWord(word string, ids []int) error
}

// LoadPlaces reads the pipe-delimited "places" record format: id | name |
// alt_names | types | located_in_id | also_located_in_ids | level |
// country_id | [latitude] | [longitude] | [sources]. Within
// alt_names/types/also_located_in_ids/sources, "~" separates entries; within
// an alt_name or source entry, ":" separates text and tag.
func LoadPlaces(r io.Reader, into PlaceSink) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	loaded := 0
	errs := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		p, err := parsePlaceLine(line)
		if err != nil {
			fmt.Printf("Error parsing place record: %v\n", err)
			errs++
			continue
		}
		if putErr := into.PutPlace(p); putErr != nil {
			fmt.Printf("Error storing place %d: %v\n", p.ID, putErr)
			errs++
			continue
		}
		loaded++
		if loaded%10000 == 0 {
			fmt.Printf("Loaded %d places...\n", loaded)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read places: %w", err)
	}
	fmt.Printf("Place load complete: %d places loaded, %d errors\n", loaded, errs)
	return nil
}

func parsePlaceLine(line string) (Place, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 8 {
		return Place{}, fmt.Errorf("expected at least 8 fields, got %d", len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Place{}, fmt.Errorf("bad id %q: %w", fields[0], err)
	}
	locatedInID, err := strconv.Atoi(fields[4])
	if err != nil {
		return Place{}, fmt.Errorf("bad located_in_id %q: %w", fields[4], err)
	}
	level, err := strconv.Atoi(fields[6])
	if err != nil {
		return Place{}, fmt.Errorf("bad level %q: %w", fields[6], err)
	}
	countryID, err := strconv.Atoi(fields[7])
	if err != nil {
		return Place{}, fmt.Errorf("bad country_id %q: %w", fields[7], err)
	}

	p := Place{
		ID:          id,
		Name:        fields[1],
		LocatedInID: locatedInID,
		Level:       level,
		CountryID:   countryID,
	}
	if fields[2] != "" {
		p.AltNames = parseAltNames(fields[2])
	}
	if fields[3] != "" {
		p.Types = strings.Split(fields[3], "~")
	}
	if fields[5] != "" {
		for _, s := range strings.Split(fields[5], "~") {
			aliID, err := strconv.Atoi(s)
			if err != nil {
				return Place{}, fmt.Errorf("bad also_located_in_id %q: %w", s, err)
			}
			p.AlsoLocatedInIDs = append(p.AlsoLocatedInIDs, aliID)
		}
	}
	if len(fields) > 8 && fields[8] != "" {
		p.Latitude, err = strconv.ParseFloat(fields[8], 64)
		if err != nil {
			return Place{}, fmt.Errorf("bad latitude %q: %w", fields[8], err)
		}
	}
	if len(fields) > 9 && fields[9] != "" {
		p.Longitude, err = strconv.ParseFloat(fields[9], 64)
		if err != nil {
			return Place{}, fmt.Errorf("bad longitude %q: %w", fields[9], err)
		}
	}
	if len(fields) > 10 && fields[10] != "" {
		p.Sources = parseSources(fields[10])
	}
	return p, nil
}

func parseAltNames(field string) []AltName {
	entries := strings.Split(field, "~")
	names := make([]AltName, 0, len(entries))
	for _, e := range entries {
		if pos := strings.Index(e, ":"); pos > 0 {
			names = append(names, AltName{Text: e[:pos], Source: e[pos+1:]})
		} else {
			names = append(names, AltName{Text: e})
		}
	}
	return names
}

func parseSources(field string) []Source {
	entries := strings.Split(field, "~")
	sources := make([]Source, 0, len(entries))
	for _, e := range entries {
		if pos := strings.Index(e, ":"); pos > 0 {
			sources = append(sources, Source{Text: e[:pos], ID: e[pos+1:]})
		} else {
			sources = append(sources, Source{Text: e})
		}
	}
	return sources
}

// LoadWords reads the pipe-delimited "place_words" record format:
// word | comma_separated_ids.
func LoadWords(r io.Reader, into WordSink) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	loaded := 0
	errs := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "|", 2)
		if len(fields) != 2 {
			fmt.Printf("Error parsing word record: expected 2 fields, got %d\n", len(fields))
			errs++
			continue
		}
		ids, err := parseIDList(fields[1], ",")
		if err != nil {
			fmt.Printf("Error parsing word record ids: %v\n", err)
			errs++
			continue
		}
		if putErr := into.PutWord(fields[0], ids); putErr != nil {
			fmt.Printf("Error storing word %q: %v\n", fields[0], putErr)
			errs++
			continue
		}
		loaded++
		if loaded%10000 == 0 {
			fmt.Printf("Loaded %d word entries...\n", loaded)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read place_words: %w", err)
	}
	fmt.Printf("Word index load complete: %d entries loaded, %d errors\n", loaded, errs)
	return nil
}

func parseIDList(field, sep string) ([]int, error) {
	parts := strings.Split(field, sep)
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
