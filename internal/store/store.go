// Package store persists analysis results as JSON files next to the track,
// so repeat runs can skip re-analysis.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olivier-w/beatscope/internal/analysis"
)

// Version identifies the record layout. Bump it when the result shape
// changes so stale caches are rejected instead of misread.
const Version = 1

// Record wraps a result with the metadata needed to trust a cached copy.
type Record struct {
	Version  int              `json:"version"`
	SavedAt  time.Time        `json:"savedAt"`
	Source   string           `json:"source"`
	Waveform []float32        `json:"waveform,omitempty"`
	Result   *analysis.Result `json:"result"`
}

// PathFor returns the default record path for a track: the track path with
// its extension replaced by .beatscope.json.
func PathFor(track string) string {
	return strings.TrimSuffix(track, filepath.Ext(track)) + ".beatscope.json"
}

// Save writes the record to path, stamping the version and save time.
func Save(path string, rec *Record) error {
	rec.Version = Version
	rec.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analysis record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing analysis record: %w", err)
	}
	return nil
}

// Load reads a record from path, rejecting layout version mismatches.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding analysis record: %w", err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("analysis record version %d, want %d", rec.Version, Version)
	}
	if rec.Result == nil {
		return nil, fmt.Errorf("analysis record has no result")
	}
	return &rec, nil
}
