package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskmaster/internal/task"
)

func fixture() []task.Task {
	return []task.Task{
		{ID: 1, Owner: "alice", Title: "Write report", Priority: task.PriorityHigh, Category: task.CategoryWork},
		{ID: 2, Owner: "alice", Title: "Buy milk", Priority: task.PriorityLow, Category: task.CategoryShopping},
		{ID: 3, Owner: "alice", Title: "Buy notebook", Priority: task.PriorityHigh, Category: task.CategorySchool, Completed: true},
		{ID: 4, Owner: "bob", Title: "Buy milk", Priority: task.PriorityLow, Category: task.CategoryShopping},
		{ID: 5, Owner: "alice", Title: "Call dentist", Priority: task.PriorityMedium, Category: task.CategoryPersonal},
	}
}

func ids(ts []task.Task) []int64 {
	out := make([]int64, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestFilterOwnerIsolation(t *testing.T) {
	got := Filter(fixture(), "alice", All, "")
	assert.Equal(t, []int64{1, 2, 3, 5}, ids(got))
	for _, tk := range got {
		assert.Equal(t, "alice", tk.Owner)
	}

	got = Filter(fixture(), "bob", All, "")
	assert.Equal(t, []int64{4}, ids(got))
}

func TestFilterByPriorityAndCategory(t *testing.T) {
	got := Filter(fixture(), "alice", ByPriority(task.PriorityHigh), "")
	assert.Equal(t, []int64{1, 3}, ids(got))

	got = Filter(fixture(), "alice", ByCategory(task.CategoryShopping), "")
	assert.Equal(t, []int64{2}, ids(got))
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	got := Filter(fixture(), "alice", All, "BUY")
	assert.Equal(t, []int64{2, 3}, ids(got))

	got = Filter(fixture(), "alice", All, "zzz")
	assert.Empty(t, got)
}

// Composing priority and search must match intersecting the single-filter
// result sets.
func TestFilterComposesAsConjunction(t *testing.T) {
	tasks := fixture()

	composed := Filter(tasks, "alice", ByPriority(task.PriorityHigh), "buy")

	byPriority := map[int64]bool{}
	for _, tk := range Filter(tasks, "alice", ByPriority(task.PriorityHigh), "") {
		byPriority[tk.ID] = true
	}
	var intersection []int64
	for _, tk := range Filter(tasks, "alice", All, "buy") {
		if byPriority[tk.ID] {
			intersection = append(intersection, tk.ID)
		}
	}

	assert.Equal(t, intersection, ids(composed))
}

func TestStats(t *testing.T) {
	st := ComputeStats(fixture(), "alice")
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 1, st.Completed)
	assert.Equal(t, 1, st.HighPriorityOpen, "completed high-priority tasks do not count as open")
	assert.Equal(t, 25, st.PercentComplete)
}

func TestStatsEmptyOwner(t *testing.T) {
	st := ComputeStats(fixture(), "nobody")
	assert.Zero(t, st.Total)
	assert.Zero(t, st.PercentComplete, "no division by zero")
}

func TestStatsPercentBounds(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Owner: "a", Completed: true},
		{ID: 2, Owner: "a", Completed: true},
		{ID: 3, Owner: "a", Completed: true},
	}
	st := ComputeStats(tasks, "a")
	assert.Equal(t, 100, st.PercentComplete)

	// 1/3 rounds to 33, 2/3 rounds to 67.
	tasks[0].Completed = false
	tasks[1].Completed = false
	assert.Equal(t, 33, ComputeStats(tasks, "a").PercentComplete)
	tasks[1].Completed = true
	assert.Equal(t, 67, ComputeStats(tasks, "a").PercentComplete)
}

func TestCategoryBreakdown(t *testing.T) {
	counts := CategoryBreakdown(fixture(), "alice")
	// Fixed order: Work, Personal, Shopping, School.
	assert.Equal(t, []int{1, 1, 1, 1}, counts)

	counts = CategoryBreakdown(fixture(), "bob")
	assert.Equal(t, []int{0, 0, 1, 0}, counts)
}

func TestCategoryBreakdownExcludesUnknown(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Owner: "a", Category: task.CategoryWork},
		{ID: 2, Owner: "a", Category: task.Category("Hobby")},
	}
	assert.Equal(t, []int{1, 0, 0, 0}, CategoryBreakdown(tasks, "a"))
}
