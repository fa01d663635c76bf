package aggregate

import (
	"fmt"
	"math"

	"pumpradar/internal/domain"
)

// Row assigns a reliability weight and a display name to one source.
type Row struct {
	Source      domain.SourceID
	Weight      float64
	DisplayName string
}

// Table lists the known sources in evaluation order.
type Table []Row

const weightTolerance = 1e-9

func DefaultTable() Table {
	return Table{
		{Source: domain.SourceSocialAggregate, Weight: 0.35, DisplayName: "Social Sentiment Feed"},
		{Source: domain.SourceNews, Weight: 0.30, DisplayName: "News Sentiment"},
		{Source: domain.SourceSocialDirect, Weight: 0.35, DisplayName: "Reddit"},
	}
}

func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("source table is empty")
	}
	seen := make(map[domain.SourceID]struct{}, len(t))
	sum := 0.0
	for _, row := range t {
		if row.Source == "" {
			return fmt.Errorf("source table row has no source")
		}
		if _, dup := seen[row.Source]; dup {
			return fmt.Errorf("source %q listed twice", row.Source)
		}
		seen[row.Source] = struct{}{}
		if row.Weight < 0 || math.IsNaN(row.Weight) {
			return fmt.Errorf("source %q has invalid weight %v", row.Source, row.Weight)
		}
		sum += row.Weight
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("source weights sum to %v, want 1", sum)
	}
	return nil
}

// TotalWeight is the sum of all row weights.
func (t Table) TotalWeight() float64 {
	sum := 0.0
	for _, row := range t {
		sum += row.Weight
	}
	return sum
}

func (t Table) lookup(src domain.SourceID) (int, bool) {
	for i, row := range t {
		if row.Source == src {
			return i, true
		}
	}
	return -1, false
}

// DisplayName returns the row's display name, or the raw source id when the
// source is not in the table.
func (t Table) DisplayName(src domain.SourceID) string {
	if i, ok := t.lookup(src); ok {
		return t[i].DisplayName
	}
	return string(src)
}
