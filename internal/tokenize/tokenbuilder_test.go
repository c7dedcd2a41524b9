package tokenize

import (
	"testing"

	"github.com/folgplaces/standardizer/internal/config"
)

func testConfig() *config.StandardizerConfig {
	return &config.StandardizerConfig{
		TypeWords: map[string]bool{
			"county":   true,
			"township": true,
		},
		Abbreviations: map[string]string{
			"co":  "county",
			"twp": "township",
		},
	}
}

func TestBuildToken(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name          string
		words         []string
		wordsToSkip   int
		wantNameToken string
		wantTypeToken string
		wantHasType   bool
	}{
		{
			name:          "name plus trailing type word",
			words:         []string{"jackson", "county"},
			wantNameToken: "jackson",
			wantTypeToken: "county",
			wantHasType:   true,
		},
		{
			name:          "single word has no type",
			words:         []string{"jackson"},
			wantNameToken: "jackson",
			wantTypeToken: "",
			wantHasType:   false,
		},
		{
			name:          "multi-word abbreviation expands to a type word",
			words:         []string{"jackson", "co"},
			wantNameToken: "jackson",
			wantTypeToken: "county",
			wantHasType:   true,
		},
		{
			name:          "single-word level is left unabbreviated",
			words:         []string{"co"},
			wantNameToken: "co",
			wantTypeToken: "",
			wantHasType:   false,
		},
		{
			name:          "or halts the scan once a name word is buffered",
			words:         []string{"springfield", "or", "jackson"},
			wantNameToken: "jackson",
			wantTypeToken: "",
			wantHasType:   false,
		},
		{
			name:          "or sitting exactly at the skip boundary is folded into the name",
			words:         []string{"or", "jackson"},
			wantNameToken: "orjackson",
			wantTypeToken: "",
			wantHasType:   false,
		},
		{
			name:          "now halts unconditionally even with nothing buffered yet",
			words:         []string{"jackson", "now"},
			wantNameToken: "",
			wantTypeToken: "",
			wantHasType:   false,
		},
		{
			name:          "now halts the scan after a name word is buffered",
			words:         []string{"now", "jackson"},
			wantNameToken: "jackson",
			wantTypeToken: "",
			wantHasType:   false,
		},
		{
			name:          "wordsToSkip trims the left-hand words",
			words:         []string{"big", "old", "jackson"},
			wordsToSkip:   2,
			wantNameToken: "jackson",
			wantTypeToken: "",
			wantHasType:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildToken(cfg, tt.words, tt.wordsToSkip)
			if got.NameToken != tt.wantNameToken {
				t.Errorf("NameToken = %q, want %q", got.NameToken, tt.wantNameToken)
			}
			if got.TypeToken != tt.wantTypeToken {
				t.Errorf("TypeToken = %q, want %q", got.TypeToken, tt.wantTypeToken)
			}
			if got.HasType != tt.wantHasType {
				t.Errorf("HasType = %v, want %v", got.HasType, tt.wantHasType)
			}
		})
	}
}

func TestIsTypeWord(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		word string
		want bool
	}{
		{"county", true},
		{"co", true}, // expands to county first
		{"township", true},
		{"jackson", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := IsTypeWord(cfg, tt.word); got != tt.want {
				t.Errorf("IsTypeWord(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}
