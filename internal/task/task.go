package task

import (
	"errors"
	"sync"
	"time"

	"taskmaster/internal/storage"
)

var ErrNotFound = errors.New("task not found")

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryShopping Category = "Shopping"
	CategorySchool   Category = "School"
)

// Categories is the fixed breakdown order used by analytics and the chart.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategorySchool}

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type Task struct {
	ID          int64      `json:"id"`
	Owner       string     `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"desc,omitempty"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
	Due         *time.Time `json:"date,omitempty"`
	Completed   bool       `json:"completed"`
}

// Fields are the editable parts of a task. Owner and Completed are managed
// by the store and never pass through here.
type Fields struct {
	Title       string
	Description string
	Priority    Priority
	Category    Category
	Due         *time.Time
}

// Store keeps all tasks for all users in insertion order and writes the
// whole collection back after every mutation. The mutex exists for the
// reminder ticker, which reads the collection off the UI loop.
type Store struct {
	kv  *storage.KV
	now func() time.Time

	mu    sync.RWMutex
	tasks []Task
}

func OpenStore(kv *storage.KV) (*Store, error) {
	s := &Store{kv: kv, now: time.Now}
	if _, err := kv.Get(storage.KeyTasks, &s.tasks); err != nil {
		return nil, err
	}
	return s, nil
}

// All returns a snapshot of the collection in insertion order.
func (s *Store) All() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Create(owner string, f Fields) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Task{
		ID:          s.nextID(),
		Owner:       owner,
		Title:       f.Title,
		Description: f.Description,
		Priority:    f.Priority,
		Category:    f.Category,
		Due:         f.Due,
		Completed:   false,
	}
	s.tasks = append(s.tasks, t)
	if err := s.persist(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return Task{}, err
	}
	return t, nil
}

// Update replaces the editable fields of a task. Completion state survives
// an edit unchanged, as does the owner.
func (s *Store) Update(id int64, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	prev := s.tasks[i]
	s.tasks[i].Title = f.Title
	s.tasks[i].Description = f.Description
	s.tasks[i].Priority = f.Priority
	s.tasks[i].Category = f.Category
	s.tasks[i].Due = f.Due
	if err := s.persist(); err != nil {
		s.tasks[i] = prev
		return err
	}
	return nil
}

// Toggle flips completion and returns the new state.
func (s *Store) Toggle(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false, ErrNotFound
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	if err := s.persist(); err != nil {
		s.tasks[i].Completed = !s.tasks[i].Completed
		return false, err
	}
	return s.tasks[i].Completed, nil
}

func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	prev := s.tasks
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	if err := s.persist(); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

// ClearCompleted removes every completed task belonging to owner and
// returns how many were removed. Other users' tasks are untouched.
func (s *Store) ClearCompleted(owner string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tasks[:0:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Owner == owner && t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return 0, nil
	}
	prev := s.tasks
	s.tasks = kept
	if err := s.persist(); err != nil {
		s.tasks = prev
		return 0, err
	}
	return removed, nil
}

func (s *Store) Get(id int64) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

func (s *Store) index(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID derives an id from the creation time in millisecond epoch and bumps
// it past any existing id, so creations within the same millisecond stay
// unique and ids are never reused.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for s.index(id) >= 0 {
		id++
	}
	return id
}

func (s *Store) persist() error {
	return s.kv.Set(storage.KeyTasks, s.tasks)
}
