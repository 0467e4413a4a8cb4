// Package query derives read-only views over the task collection: filtered
// lists for the task screen and aggregates for the analytics panel.
package query

import (
	"math"
	"strings"

	"taskmaster/internal/task"
)

// Selector narrows a task list by exact priority or exact category.
// The zero value selects everything.
type Selector struct {
	Priority task.Priority
	Category task.Category
}

var All = Selector{}

func ByPriority(p task.Priority) Selector { return Selector{Priority: p} }
func ByCategory(c task.Category) Selector { return Selector{Category: c} }

func (s Selector) matches(t task.Task) bool {
	if s.Priority != "" && t.Priority != s.Priority {
		return false
	}
	if s.Category != "" && t.Category != s.Category {
		return false
	}
	return true
}

// Filter applies owner match, then the selector, then a case-insensitive
// substring match of search against the title. Insertion order is preserved.
func Filter(tasks []task.Task, owner string, sel Selector, search string) []task.Task {
	search = strings.ToLower(search)
	var out []task.Task
	for _, t := range tasks {
		if t.Owner != owner {
			continue
		}
		if !sel.matches(t) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

type Stats struct {
	Total            int
	Completed        int
	HighPriorityOpen int
	PercentComplete  int
}

func ComputeStats(tasks []task.Task, owner string) Stats {
	var st Stats
	for _, t := range tasks {
		if t.Owner != owner {
			continue
		}
		st.Total++
		if t.Completed {
			st.Completed++
		} else if t.Priority == task.PriorityHigh {
			st.HighPriorityOpen++
		}
	}
	if st.Total > 0 {
		st.PercentComplete = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	return st
}

// CategoryBreakdown counts the owner's tasks per category, aligned to
// task.Categories. Anything outside that closed set is excluded.
func CategoryBreakdown(tasks []task.Task, owner string) []int {
	counts := make([]int, len(task.Categories))
	for _, t := range tasks {
		if t.Owner != owner {
			continue
		}
		for i, c := range task.Categories {
			if t.Category == c {
				counts[i]++
				break
			}
		}
	}
	return counts
}
