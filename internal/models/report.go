package models

import "time"

// RangeResult aggregates per-reason counts for one scanned ID range.
type RangeResult struct {
	Label       string `json:"label"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Scanned     int    `json:"scanned"`
	Saved       int    `json:"saved"`
	NotFound    int    `json:"notFound"`
	Malformed   int    `json:"malformed"`
	TooShort    int    `json:"tooShort"`
	WriteFailed int    `json:"writeFailed,omitempty"`
}

// Record counts one fetch outcome against the range. A ReasonOK outcome only
// bumps Scanned here; Saved and WriteFailed are recorded by the scanner once
// the file write has succeeded or failed.
func (r *RangeResult) Record(reason Reason) {
	r.Scanned++

	switch reason {
	case ReasonNotFound:
		r.NotFound++
	case ReasonMalformed:
		r.Malformed++
	case ReasonTooShort:
		r.TooShort++
	}
}

// ScanReport is the run report written as JSON after a scan completes.
type ScanReport struct {
	RunID      string        `json:"runId"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Resumed    bool          `json:"resumed"`
	Ranges     []RangeResult `json:"ranges"`
	SavedFiles []string      `json:"savedFiles"`
}

// TotalScanned returns the number of IDs attempted across all ranges.
func (s *ScanReport) TotalScanned() int {
	total := 0
	for _, r := range s.Ranges {
		total += r.Scanned
	}

	return total
}

// TotalSaved returns the number of articles written across all ranges.
func (s *ScanReport) TotalSaved() int {
	total := 0
	for _, r := range s.Ranges {
		total += r.Saved
	}

	return total
}

// TotalWriteFailed returns the number of articles that extracted cleanly but
// could not be written to disk.
func (s *ScanReport) TotalWriteFailed() int {
	total := 0
	for _, r := range s.Ranges {
		total += r.WriteFailed
	}

	return total
}
