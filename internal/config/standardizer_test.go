package config

import (
	"strings"
	"testing"
)

const validConfig = `
# test fixture
typeWords=county,township
abbreviations=co=county,twp=township
noiseWords=the,of
largeCountries=1500
mediumCountries=2250
largeCountryLevelWeights=1,2,3,4
mediumCountryLevelWeights=1,2.5,4,5.5
smallCountryLevelWeights=1,3,5,7
primaryMatchWeight=0.5
`

func TestLoadStandardizerConfig(t *testing.T) {
	cfg, err := LoadStandardizerConfig(strings.NewReader(validConfig))
	if err != nil {
		t.Fatalf("LoadStandardizerConfig() error = %v", err)
	}

	if !cfg.TypeWords["county"] {
		t.Error("expected \"county\" in TypeWords")
	}
	if cfg.Abbreviations["co"] != "county" {
		t.Errorf("Abbreviations[\"co\"] = %q, want %q", cfg.Abbreviations["co"], "county")
	}
	if !cfg.NoiseWords["the"] {
		t.Error("expected \"the\" in NoiseWords")
	}
	if !cfg.LargeCountries[1500] {
		t.Error("expected 1500 in LargeCountries")
	}
	if !cfg.MediumCountries[2250] {
		t.Error("expected 2250 in MediumCountries")
	}
	wantWeights := []float64{1, 2, 3, 4}
	for i, w := range wantWeights {
		if cfg.LargeCountryLevelWeights[i] != w {
			t.Errorf("LargeCountryLevelWeights[%d] = %v, want %v", i, cfg.LargeCountryLevelWeights[i], w)
		}
	}
	if cfg.PrimaryMatchWeight != 0.5 {
		t.Errorf("PrimaryMatchWeight = %v, want 0.5", cfg.PrimaryMatchWeight)
	}
}

func TestLoadStandardizerConfig_Errors(t *testing.T) {
	tests := []struct {
		name       string
		config     string
		wantErrSub string
	}{
		{
			name:       "missing required property",
			config:     strings.Replace(validConfig, "typeWords=county,township\n", "", 1),
			wantErrSub: "typeWords",
		},
		{
			name:       "malformed line with no equals sign",
			config:     validConfig + "\nthisIsNotAProperty\n",
			wantErrSub: "malformed config line",
		},
		{
			name:       "wrong number of level weights",
			config:     strings.Replace(validConfig, "largeCountryLevelWeights=1,2,3,4", "largeCountryLevelWeights=1,2,3", 1),
			wantErrSub: "must have 4 entries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStandardizerConfig(strings.NewReader(tt.config))
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrSub) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErrSub)
			}
		})
	}
}

func TestDefaultStandardizerConfig(t *testing.T) {
	cfg := DefaultStandardizerConfig()

	if len(cfg.LargeCountryLevelWeights) != 4 {
		t.Errorf("LargeCountryLevelWeights has %d entries, want 4", len(cfg.LargeCountryLevelWeights))
	}
	if len(cfg.MediumCountryLevelWeights) != 4 {
		t.Errorf("MediumCountryLevelWeights has %d entries, want 4", len(cfg.MediumCountryLevelWeights))
	}
	if len(cfg.SmallCountryLevelWeights) != 4 {
		t.Errorf("SmallCountryLevelWeights has %d entries, want 4", len(cfg.SmallCountryLevelWeights))
	}
	if !cfg.TypeWords["county"] {
		t.Error("expected the default config to treat \"county\" as a type word")
	}
	if cfg.Abbreviations["st"] != "saint" {
		t.Errorf("Abbreviations[\"st\"] = %q, want %q", cfg.Abbreviations["st"], "saint")
	}
}
