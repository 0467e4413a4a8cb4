package ui

import (
	"fmt"
	"strings"
	"time"

	"taskmaster/internal/task"
)

// formState backs the add/edit dialog: one shared text input cycling
// through the task fields, saved as a whole on the last confirm.
type formState struct {
	taskID   int64 // 0 while creating
	title    string
	desc     string
	priority string
	category string
	due      string
	index    int
}

func formFields() []string {
	return []string{"title", "description", "priority (High/Medium/Low)", "category (Work/Personal/Shopping/School)", "due (YYYY-MM-DD [HH:MM])"}
}

func newCreateForm() *formState {
	return &formState{priority: string(task.PriorityMedium), category: string(task.CategoryPersonal)}
}

func newEditForm(t task.Task) *formState {
	return &formState{
		taskID:   t.ID,
		title:    t.Title,
		desc:     t.Description,
		priority: string(t.Priority),
		category: string(t.Category),
		due:      formatDue(t.Due),
	}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case 0:
		return fs.title
	case 1:
		return fs.desc
	case 2:
		return fs.priority
	case 3:
		return fs.category
	case 4:
		return fs.due
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.title = v
	case 1:
		fs.desc = v
	case 2:
		fs.priority = v
	case 3:
		fs.category = v
	case 4:
		fs.due = v
	}
}

// parse validates the form and produces store fields.
func (fs formState) parse() (task.Fields, error) {
	var f task.Fields
	f.Title = strings.TrimSpace(fs.title)
	if f.Title == "" {
		return f, fmt.Errorf("title cannot be empty")
	}
	f.Description = strings.TrimSpace(fs.desc)

	p, err := parsePriority(fs.priority)
	if err != nil {
		return f, err
	}
	f.Priority = p

	c, err := parseCategory(fs.category)
	if err != nil {
		return f, err
	}
	f.Category = c

	due, err := parseDue(fs.due)
	if err != nil {
		return f, err
	}
	f.Due = due
	return f, nil
}

func parsePriority(v string) (task.Priority, error) {
	v = strings.TrimSpace(v)
	for _, p := range task.Priorities {
		if strings.EqualFold(v, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("priority must be High, Medium, or Low")
}

func parseCategory(v string) (task.Category, error) {
	v = strings.TrimSpace(v)
	for _, c := range task.Categories {
		if strings.EqualFold(v, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("category must be Work, Personal, Shopping, or School")
}

func parseDue(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("due date must be YYYY-MM-DD or YYYY-MM-DD HH:MM")
}

func formatDue(t *time.Time) string {
	if t == nil {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}
