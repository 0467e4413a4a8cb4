package ui

import (
	"testing"
	"time"

	"taskmaster/internal/task"
)

func TestFormParseValid(t *testing.T) {
	fs := formState{
		title:    "  Buy milk  ",
		desc:     "2%",
		priority: "low",
		category: "SHOPPING",
		due:      "2026-09-01 14:30",
	}
	f, err := fs.parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Title != "Buy milk" {
		t.Errorf("title %q", f.Title)
	}
	if f.Priority != task.PriorityLow {
		t.Errorf("priority %q, want Low", f.Priority)
	}
	if f.Category != task.CategoryShopping {
		t.Errorf("category %q, want Shopping", f.Category)
	}
	want := time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local)
	if f.Due == nil || !f.Due.Equal(want) {
		t.Errorf("due %v, want %v", f.Due, want)
	}
}

func TestFormParseDateOnlyDue(t *testing.T) {
	fs := formState{title: "t", priority: "High", category: "Work", due: "2026-09-01"}
	f, err := fs.parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	if f.Due == nil || !f.Due.Equal(want) {
		t.Errorf("due %v, want %v", f.Due, want)
	}
}

func TestFormParseEmptyDue(t *testing.T) {
	fs := formState{title: "t", priority: "High", category: "Work"}
	f, err := fs.parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Due != nil {
		t.Errorf("due %v, want nil", f.Due)
	}
}

func TestFormParseErrors(t *testing.T) {
	cases := []struct {
		name string
		fs   formState
	}{
		{"empty title", formState{title: "   ", priority: "High", category: "Work"}},
		{"bad priority", formState{title: "t", priority: "Urgent", category: "Work"}},
		{"bad category", formState{title: "t", priority: "High", category: "Hobby"}},
		{"bad due", formState{title: "t", priority: "High", category: "Work", due: "tomorrow"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.fs.parse(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFormatDueRoundTrip(t *testing.T) {
	if got := formatDue(nil); got != "" {
		t.Errorf("nil due rendered %q", got)
	}

	at := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	if got := formatDue(&at); got != "2026-09-01" {
		t.Errorf("date-only due rendered %q", got)
	}

	at = time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local)
	if got := formatDue(&at); got != "2026-09-01 14:30" {
		t.Errorf("timed due rendered %q", got)
	}
}

func TestNewEditFormPrefills(t *testing.T) {
	at := time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local)
	fs := newEditForm(task.Task{
		ID:       42,
		Title:    "t",
		Priority: task.PriorityHigh,
		Category: task.CategorySchool,
		Due:      &at,
	})
	if fs.taskID != 42 || fs.title != "t" || fs.priority != "High" || fs.category != "School" || fs.due != "2026-09-01 14:30" {
		t.Errorf("unexpected prefill: %+v", fs)
	}
}
