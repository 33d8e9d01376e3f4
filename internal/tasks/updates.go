package tasks

import "fmt"

// ProgressUpdate represents a progress event during a catalog load.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Number of finished requests
	Total   int    // Total requests in this load
	Message string // Human-readable message for display
	Data    any    // Count of loaded items, or the error
}

// Operation phase enumeration
type Phase int

const (
	FetchSongs Phase = iota
	FetchAlbums
	Discard
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchSongs:
		return "fetch_songs"
	case FetchAlbums:
		return "fetch_albums"
	case Discard:
		return "discard"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchedUpdate(phase Phase, step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d items)", step, total, phase.noun(), count),
		Data:    count,
	}
}

func fetchFailedUpdate(phase Phase, step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, phase.noun(), err),
		Data:    err,
	}
}

func discardedUpdate(step, total int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Discard,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] discarded stale %s", step, total, what),
	}
}

func completeUpdate(r LoadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Loaded %d songs and %d albums", r.Songs, r.Albums),
		Data:    r,
	}
}

func (p Phase) noun() string {
	switch p {
	case FetchSongs:
		return "songs"
	case FetchAlbums:
		return "albums"
	default:
		return p.String()
	}
}
