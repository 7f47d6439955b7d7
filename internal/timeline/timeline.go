// Package timeline turns accumulated raw outage intervals into a dense,
// non-overlapping day timeline.
package timeline

import (
	"sort"

	"github.com/olehvh/cek-outage-api/internal/models"
)

// MinutesPerDay is the length of the civil day grid in minutes.
const MinutesPerDay = 1440

// Merge coalesces an unordered set of intervals into a minimal sorted set of
// non-overlapping intervals. Touching intervals (next start == running end)
// are joined. The input slice is not modified.
func Merge(ranges []models.TimeRange) []models.TimeRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]models.TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := make([]models.TimeRange, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= current.End {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}

// ToSlots merges the given intervals and expands them into a gapless slot
// timeline: merged intervals become Definite slots, everything between them
// and at the day edges becomes NotPlanned. The result always tiles [0, 1440)
// exactly; an empty input yields a single NotPlanned slot covering the day.
func ToSlots(ranges []models.TimeRange) []models.Slot {
	merged := Merge(ranges)
	if len(merged) == 0 {
		return []models.Slot{{Start: 0, End: MinutesPerDay, Type: models.SlotNotPlanned}}
	}

	slots := make([]models.Slot, 0, 2*len(merged)+1)
	cursor := 0
	for _, r := range merged {
		if r.Start > cursor {
			slots = append(slots, models.Slot{Start: cursor, End: r.Start, Type: models.SlotNotPlanned})
		}
		slots = append(slots, models.Slot{Start: r.Start, End: r.End, Type: models.SlotDefinite})
		cursor = r.End
	}
	if cursor < MinutesPerDay {
		slots = append(slots, models.Slot{Start: cursor, End: MinutesPerDay, Type: models.SlotNotPlanned})
	}

	return slots
}
