package service

import "testing"

func TestTaskStoreCreateAndList(t *testing.T) {
	s := NewTaskStore()

	first := s.Create("proc-1", "Protocolar recurso", "Dr. Carlos Mendes", "2026-09-15")
	second := s.Create("proc-1", "Juntar procuração", "", "")
	s.Create("proc-2", "Agendar perícia", "Dra. Ana Paula Ferreira", "2026-10-01")

	if first.ID == "" || first.ID == second.ID {
		t.Error("Expected distinct non-empty task ids")
	}
	if first.CreatedAt.IsZero() {
		t.Error("Expected creation timestamp to be set")
	}

	tasks := s.ByProcess("proc-1")
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks for proc-1, got %d", len(tasks))
	}
	if tasks[0].Title != "Protocolar recurso" || tasks[1].Title != "Juntar procuração" {
		t.Errorf("Expected tasks oldest first, got %s / %s", tasks[0].Title, tasks[1].Title)
	}

	if got := s.ByProcess("proc-2"); len(got) != 1 {
		t.Errorf("Expected 1 task for proc-2, got %d", len(got))
	}
	if got := s.ByProcess("missing"); len(got) != 0 {
		t.Errorf("Expected no tasks for unknown process, got %d", len(got))
	}
}
