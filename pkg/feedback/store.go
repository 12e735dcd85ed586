package feedback

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Memory is an in-process feedback store.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// SaveFeedback appends an entry.
func (m *Memory) SaveFeedback(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// ListFeedback returns all entries, newest first.
func (m *Memory) ListFeedback(context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// Analytics aggregates stored feedback.
type Analytics struct {
	TotalFeedback        int            `json:"total_feedback"`
	AverageRating        float64        `json:"average_rating"`
	RatingDistribution   map[string]int `json:"rating_distribution"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	GeneratedAt          time.Time      `json:"generated_at"`
}

// ComputeAnalytics builds aggregate statistics over the stored feedback.
func (c *Collector) ComputeAnalytics(ctx context.Context) (*Analytics, error) {
	entries, err := c.store.ListFeedback(ctx)
	if err != nil {
		return nil, err
	}

	distribution := map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
	categories := make(map[string]int)

	ratingSum, rated := 0, 0
	for _, e := range entries {
		if e.Rating >= 1 && e.Rating <= 5 {
			distribution[strconv.Itoa(e.Rating)]++
			ratingSum += e.Rating
			rated++
		}
		category := e.Category
		if category == "" {
			category = "unknown"
		}
		categories[category]++
	}

	avg := 0.0
	if rated > 0 {
		avg = math.Round(float64(ratingSum)/float64(rated)*100) / 100
	}

	return &Analytics{
		TotalFeedback:        len(entries),
		AverageRating:        avg,
		RatingDistribution:   distribution,
		CategoryDistribution: categories,
		GeneratedAt:          time.Now().UTC(),
	}, nil
}
