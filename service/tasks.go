package service

import (
	"sync"
	"time"

	"github.com/dizegn/Prevtech-sub001/model"
	"github.com/google/uuid"
)

// TaskStore keeps the lightweight tasks linked to processes.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string][]*model.Task // keyed by process id
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string][]*model.Task),
	}
}

// Create links a new task to a process and returns it.
func (s *TaskStore) Create(processID, title, responsible, dueDate string) *model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &model.Task{
		ID:          uuid.New().String(),
		ProcessID:   processID,
		Title:       title,
		Responsible: responsible,
		DueDate:     dueDate,
		CreatedAt:   time.Now(),
	}
	s.tasks[processID] = append(s.tasks[processID], t)
	return t
}

// ByProcess returns the tasks linked to a process, oldest first.
func (s *TaskStore) ByProcess(processID string) []*model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Task, len(s.tasks[processID]))
	copy(out, s.tasks[processID])
	return out
}
