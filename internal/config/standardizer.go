package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/folgplaces/standardizer/internal/gazetteer"
)

// StandardizerConfig is the typed configuration record the engine needs in
// place of a flat property file: typeWords, abbreviations, noiseWords, the
// large/medium country id sets, the three level-weight vectors, and
// primaryMatchWeight.
type StandardizerConfig struct {
	TypeWords     map[string]bool
	Abbreviations map[string]string
	NoiseWords    map[string]bool

	LargeCountries  map[int]bool
	MediumCountries map[int]bool

	LargeCountryLevelWeights  []float64
	MediumCountryLevelWeights []float64
	SmallCountryLevelWeights  []float64

	PrimaryMatchWeight float64
}

// LoadStandardizerConfig parses a property-list format: one `key=value` per
// line (or `#`-comment/blank), where value is a comma-separated list
// (abbreviations additionally uses `abbr=expansion` pairs within that
// list). Parse failures are fatal at initialization, returned here so the
// caller can wrap them into a construction failure.
func LoadStandardizerConfig(r io.Reader) (*StandardizerConfig, error) {
	props := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed config line: %q", line)
		}
		props[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &StandardizerConfig{}
	var err error

	typeWords, err := requireProp(props, "typeWords")
	if err != nil {
		return nil, err
	}
	cfg.TypeWords = toStringSet(typeWords)

	abbreviations, err := requireProp(props, "abbreviations")
	if err != nil {
		return nil, err
	}
	cfg.Abbreviations, err = toAbbreviationMap(abbreviations)
	if err != nil {
		return nil, err
	}

	noiseWords, err := requireProp(props, "noiseWords")
	if err != nil {
		return nil, err
	}
	cfg.NoiseWords = toStringSet(noiseWords)

	largeCountries, err := requireProp(props, "largeCountries")
	if err != nil {
		return nil, err
	}
	cfg.LargeCountries, err = toIntSet(largeCountries)
	if err != nil {
		return nil, fmt.Errorf("bad largeCountries: %w", err)
	}

	mediumCountries, err := requireProp(props, "mediumCountries")
	if err != nil {
		return nil, err
	}
	cfg.MediumCountries, err = toIntSet(mediumCountries)
	if err != nil {
		return nil, fmt.Errorf("bad mediumCountries: %w", err)
	}

	cfg.LargeCountryLevelWeights, err = requireWeights(props, "largeCountryLevelWeights")
	if err != nil {
		return nil, err
	}
	cfg.MediumCountryLevelWeights, err = requireWeights(props, "mediumCountryLevelWeights")
	if err != nil {
		return nil, err
	}
	cfg.SmallCountryLevelWeights, err = requireWeights(props, "smallCountryLevelWeights")
	if err != nil {
		return nil, err
	}

	primaryMatchWeight, err := requireProp(props, "primaryMatchWeight")
	if err != nil {
		return nil, err
	}
	cfg.PrimaryMatchWeight, err = strconv.ParseFloat(primaryMatchWeight, 64)
	if err != nil {
		return nil, fmt.Errorf("bad primaryMatchWeight %q: %w", primaryMatchWeight, err)
	}

	return cfg, nil
}

func requireProp(props map[string]string, key string) (string, error) {
	value, ok := props[key]
	if !ok {
		return "", fmt.Errorf("missing required config property %q", key)
	}
	return value, nil
}

func requireWeights(props map[string]string, key string) ([]float64, error) {
	value, err := requireProp(props, key)
	if err != nil {
		return nil, err
	}
	weights, err := toFloatSlice(value)
	if err != nil {
		return nil, fmt.Errorf("bad %s: %w", key, err)
	}
	if len(weights) != gazetteer.MaxLevels {
		return nil, fmt.Errorf("%s must have %d entries, got %d", key, gazetteer.MaxLevels, len(weights))
	}
	return weights, nil
}

func toStringSet(value string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			set[field] = true
		}
	}
	return set
}

func toAbbreviationMap(value string) (map[string]string, error) {
	result := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		fields := strings.SplitN(pair, "=", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed abbreviation entry %q", pair)
		}
		result[fields[0]] = fields[1]
	}
	return result, nil
}

func toIntSet(value string) (map[int]bool, error) {
	result := make(map[int]bool)
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q: %w", field, err)
		}
		result[n] = true
	}
	return result, nil
}

func toFloatSlice(value string) ([]float64, error) {
	fields := strings.Split(value, ",")
	result := make([]float64, len(fields))
	for i, field := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q: %w", field, err)
		}
		result[i] = f
	}
	return result, nil
}

// DefaultStandardizerConfig returns a small built-in configuration for
// tests and for running the engine without an external config file -- the
// type/abbreviation/noise/country lists a genealogy gazetteer in the US
// and western Europe would plausibly need.
func DefaultStandardizerConfig() *StandardizerConfig {
	return &StandardizerConfig{
		TypeWords: toStringSet("county,parish,township,cemetery,borough,district,province," +
			"municipality,city,town,village,island,department,region,state"),
		Abbreviations: map[string]string{
			"st":   "saint",
			"ste":  "sainte",
			"mt":   "mount",
			"mo":   "missouri",
			"co":   "county",
			"cnty": "county",
			"twp":  "township",
			"ft":   "fort",
			"no":   "north",
			"so":   "south",
		},
		NoiseWords:      toStringSet("the,of,and,in,near,formerly,also,a"),
		LargeCountries:  map[int]bool{1500: true},  // USA
		MediumCountries: map[int]bool{2250: true},  // France (example bucket)
		LargeCountryLevelWeights:  []float64{1.0, 2.0, 3.0, 4.0},
		MediumCountryLevelWeights: []float64{1.0, 2.5, 4.0, 5.5},
		SmallCountryLevelWeights:  []float64{1.0, 3.0, 5.0, 7.0},
		PrimaryMatchWeight:        0.5,
	}
}
