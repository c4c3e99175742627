package commands

import (
	"errors"
	"testing"

	"showmetasks/internal/service"
)

func TestParseTaskRef_Number(t *testing.T) {
	num, rest, err := ParseTaskRef([]string{"12", "new", "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 12 {
		t.Errorf("expected 12, got %d", num)
	}
	if len(rest) != 2 || rest[0] != "new" || rest[1] != "text" {
		t.Errorf("expected remaining args, got %v", rest)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, _, err := ParseTaskRef(nil)
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_Invalid_Error(t *testing.T) {
	for _, ref := range []string{"a", "1a", "-1", "", "٣", "1.5"} {
		if _, _, err := ParseTaskRef([]string{ref}); err == nil {
			t.Errorf("expected error for %q", ref)
		}
	}
}

func TestParseTaskRef_Overflow_Error(t *testing.T) {
	if _, _, err := ParseTaskRef([]string{"99999999999999999999999"}); err == nil {
		t.Error("expected error for overflowing number")
	}
}

func TestTaskAt(t *testing.T) {
	list := service.TaskList{Tasks: []service.Task{
		{ID: 10, Description: "first"},
		{ID: 20, Description: "second"},
	}}

	task, err := TaskAt(list, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 20 {
		t.Errorf("expected task 20, got %d", task.ID)
	}

	for _, n := range []int{0, 3} {
		if _, err := TaskAt(list, n); err == nil {
			t.Errorf("expected error for %d", n)
		}
	}
}
