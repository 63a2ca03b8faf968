package operations

import (
	"fmt"
	"sync"
	"time"
)

// ProgressTracker tracks how many steps of a run have finished
type ProgressTracker struct {
	Operation string
	Total     int
	Current   int
	StartTime time.Time
	Message   string
	mu        sync.Mutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(operation string, total int) *ProgressTracker {
	return &ProgressTracker{
		Operation: operation,
		Total:     total,
		StartTime: time.Now(),
	}
}

// Increment increments the current progress by 1 and returns the new
// count and percentage
func (p *ProgressTracker) Increment(message string) (current int, percentage float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Current++
	p.Message = message
	return p.Current, p.percentage()
}

// GetProgress returns the current progress state
func (p *ProgressTracker) GetProgress() (current, total int, percentage float64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.Current, p.Total, p.percentage(), p.Message
}

func (p *ProgressTracker) percentage() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// GetETA calculates the estimated time remaining
func (p *ProgressTracker) GetETA() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Current == 0 || p.Total == 0 {
		return "calculating..."
	}

	elapsed := time.Since(p.StartTime)
	rate := float64(p.Current) / elapsed.Seconds()

	if rate == 0 {
		return "calculating..."
	}

	remaining := float64(p.Total-p.Current) / rate

	if remaining < 60 {
		return fmt.Sprintf("%.0f seconds", remaining)
	} else if remaining < 3600 {
		return fmt.Sprintf("%.1f minutes", remaining/60)
	}
	return fmt.Sprintf("%.1f hours", remaining/3600)
}

// IsComplete returns true if every step has finished
func (p *ProgressTracker) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.Current >= p.Total
}
