package engine

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/folgplaces/standardizer/internal/debug"
)

// AuditHandler is a DB-backed matcher.ErrorHandler: every resolution
// anomaly is written to the resolution_event table instead of (or as well
// as) being logged -- one row per event, since a resolution anomaly carries
// no candidate ranking to reconcile against an eventually accepted match.
type AuditHandler struct {
	db    *sql.DB
	Debug bool
}

// NewAuditHandler wraps db. CreateAuditSchema must have been run once
// beforehand (the "load schema" CLI subcommand runs it, as does the CLI's
// error-handler setup when AUDIT_LOG is set). debug also logs
// each recorded event to stderr via the shared debug package.
func NewAuditHandler(db *sql.DB, debug bool) *AuditHandler {
	return &AuditHandler{db: db, Debug: debug}
}

// CreateAuditSchema creates the resolution_event table if absent.
func CreateAuditSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS resolution_event (
			event_id    bigserial PRIMARY KEY,
			event_type  text NOT NULL,
			input_text  text NOT NULL,
			level_words jsonb,
			level_index int,
			candidate_ids jsonb,
			chosen_place_id int,
			occurred_at timestamptz DEFAULT now()
		)
	`)
	return err
}

func (h *AuditHandler) insert(eventType, text string, levelWords interface{}, levelIndex int, ids interface{}, chosen int) {
	debug.DebugOutput(h.Debug, "resolution_event: %s text=%q level=%d", eventType, text, levelIndex)

	wordsJSON, err := json.Marshal(levelWords)
	if err != nil {
		log.Printf("severe: failed to encode level words for audit: %v", err)
		return
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		log.Printf("severe: failed to encode candidate ids for audit: %v", err)
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO resolution_event (
			event_type, input_text, level_words, level_index, candidate_ids, chosen_place_id, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, eventType, text, wordsJSON, levelIndex, idsJSON, chosen, time.Now())
	if err != nil {
		log.Printf("severe: failed to record resolution_event %s: %v", eventType, err)
	}
}

func (h *AuditHandler) TokenNotFound(text string, levelWords []string, levelIndex int, currentIDs []int) {
	h.insert("tokenNotFound", text, levelWords, levelIndex, currentIDs, 0)
}

func (h *AuditHandler) SkippingParentLevel(text string, levelWords []string, levelIndex int, candidateIDs []int) {
	h.insert("skippingParentLevel", text, levelWords, levelIndex, candidateIDs, 0)
}

func (h *AuditHandler) TypeNotFound(text string, levelWords []string, levelIndex int, ids []int) {
	h.insert("typeNotFound", text, levelWords, levelIndex, ids, 0)
}

func (h *AuditHandler) Ambiguous(text string, levelWords []string, candidateIDs []int, chosenPlaceID int) {
	h.insert("ambiguous", text, levelWords, -1, candidateIDs, chosenPlaceID)
}

func (h *AuditHandler) PlaceNotFound(text string, levelWords [][]string) {
	h.insert("placeNotFound", text, levelWords, -1, []int{}, 0)
}
