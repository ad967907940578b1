package scan

import (
	"encoding/json"
	"os"
)

// Cursor records where an interrupted run stopped so the next run can pick
// up mid-range. RangeStart ties the cursor to the range layout it was
// written under; a cursor from a different layout is ignored.
type Cursor struct {
	RangeIndex int `json:"rangeIndex"`
	RangeStart int `json:"rangeStart"`
	NextID     int `json:"nextId"`
}

// LoadCursor reads a cursor file. A missing or unreadable file returns nil
// and the scan starts from the top.
func LoadCursor(path string) *Cursor {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil
	}

	return &cursor
}

func saveCursor(path string, cursor *Cursor) error {
	data, err := json.Marshal(cursor)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ClearCursor removes the cursor file after a completed run.
func ClearCursor(path string) {
	_ = os.Remove(path)
}
