package timeline

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignLanesScenario(t *testing.T) {
	spans := []Span{
		{ID: "A", Start: "2024-01-01", End: "2024-01-05"},
		{ID: "B", Start: "2024-01-03", End: "2024-01-06"},
	}
	slots := AssignLanes(spans)
	assert.Equal(t, 0, slots["A"])
	assert.Equal(t, 1, slots["B"])

	spans = append(spans, Span{ID: "C", Start: "2024-01-06", End: "2024-01-08"})
	slots = AssignLanes(spans)
	assert.Equal(t, 0, slots["A"])
	assert.Equal(t, 1, slots["B"])
	assert.Equal(t, 0, slots["C"])
}

func TestAssignLanesLongerFirstOnTie(t *testing.T) {
	slots := AssignLanes([]Span{
		{ID: "short", Start: "2024-01-01", End: "2024-01-02"},
		{ID: "long", Start: "2024-01-01", End: "2024-01-09"},
	})
	assert.Equal(t, 0, slots["long"])
	assert.Equal(t, 1, slots["short"])
}

func TestAssignLanesSharedEndpointOverlaps(t *testing.T) {
	slots := AssignLanes([]Span{
		{ID: "a", Start: "2024-01-01", End: "2024-01-03"},
		{ID: "b", Start: "2024-01-03", End: "2024-01-04"},
		{ID: "c", Start: "2024-01-04", End: "2024-01-04"},
	})
	assert.Equal(t, 0, slots["a"])
	assert.Equal(t, 1, slots["b"])
	assert.Equal(t, 0, slots["c"])
	assert.Equal(t, 2, LaneCount(slots))
}

func TestAssignLanesEmpty(t *testing.T) {
	slots := AssignLanes(nil)
	assert.Empty(t, slots)
	assert.Equal(t, 0, LaneCount(slots))
}

func TestAssignLanesProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := day(2024, 1, 1)

	for round := 0; round < 200; round++ {
		n := rng.Intn(25) + 1
		spans := make([]Span, n)
		for i := range spans {
			start := base.AddDate(0, 0, rng.Intn(40))
			end := start.AddDate(0, 0, rng.Intn(10))
			spans[i] = Span{ID: fmt.Sprintf("e%d", i), Start: FormatDate(start), End: FormatDate(end)}
		}

		slots := AssignLanes(spans)
		require.Len(t, slots, n)

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if slots[spans[i].ID] == slots[spans[j].ID] {
					require.False(t, spans[i].Overlaps(spans[j]),
						"round %d: %v and %v share slot %d", round, spans[i], spans[j], slots[spans[i].ID])
				}
			}
		}

		assert.LessOrEqual(t, LaneCount(slots), maxOverlap(spans), "round %d", round)
	}
}

func TestAssignLanesDeterministic(t *testing.T) {
	spans := []Span{
		{ID: "x", Start: "2024-01-01", End: "2024-01-03"},
		{ID: "y", Start: "2024-01-01", End: "2024-01-03"},
		{ID: "z", Start: "2024-01-02", End: "2024-01-02"},
	}
	first := AssignLanes(spans)
	reversed := []Span{spans[2], spans[1], spans[0]}
	assert.Equal(t, first, AssignLanes(reversed))
}

// maxOverlap is the largest number of spans covering a single day.
func maxOverlap(spans []Span) int {
	counts := make(map[string]int)
	best := 0
	for _, s := range spans {
		start, _ := ParseDate(s.Start)
		end, _ := ParseDate(s.End)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			id := FormatDate(d)
			counts[id]++
			if counts[id] > best {
				best = counts[id]
			}
		}
	}
	return best
}
