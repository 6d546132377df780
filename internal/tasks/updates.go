package tasks

import (
	"fmt"

	"github.com/desertthunder/songboard/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchSongs Phase = iota
	ExportSongs
)

func (p Phase) String() string {
	switch p {
	case FetchSongs:
		return "fetch_songs"
	case ExportSongs:
		return "export_songs"
	default:
		return ""
	}
}

func fetchingSongsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching %d songs...", total),
	}
}

func fetchedSongUpdate(step, total int, song *models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetched: %s - %s", step, total, song.Artist, song.Name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
