package undo

import (
	"errors"
	"fmt"
	"testing"
)

type counter struct {
	value *int
	delta int
	fail  bool
}

func (c counter) Do() error {
	if c.fail {
		return errors.New("boom")
	}
	*c.value += c.delta
	return nil
}

func (c counter) Undo() error {
	*c.value -= c.delta
	return nil
}

func (c counter) Name() string { return fmt.Sprintf("add %d", c.delta) }

func TestPushUndoRedo(t *testing.T) {
	v := 0
	s := NewStack(0)
	if err := s.Push(counter{&v, 2, false}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := s.Push(counter{&v, 3, false}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if v != 5 {
		t.Errorf("value = %d, want 5", v)
	}

	cmd, err := s.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if cmd.Name() != "add 3" || v != 2 {
		t.Errorf("after undo: cmd=%q value=%d", cmd.Name(), v)
	}
	if !s.CanRedo() {
		t.Error("CanRedo = false after undo")
	}

	if _, err := s.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if v != 5 {
		t.Errorf("after redo: value = %d, want 5", v)
	}
}

func TestPushClearsRedo(t *testing.T) {
	v := 0
	s := NewStack(0)
	_ = s.Push(counter{&v, 1, false})
	_, _ = s.Undo()
	_ = s.Push(counter{&v, 7, false})
	if s.CanRedo() {
		t.Error("redo history survived a new push")
	}
	if _, err := s.Redo(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Redo error = %v, want ErrEmpty", err)
	}
}

func TestFailedPushNotRecorded(t *testing.T) {
	v := 0
	s := NewStack(0)
	if err := s.Push(counter{&v, 1, true}); err == nil {
		t.Fatal("expected error")
	}
	if s.CanUndo() {
		t.Error("failed command was recorded")
	}
}

func TestLimit(t *testing.T) {
	v := 0
	s := NewStack(DefaultLimit)
	for i := 0; i < 60; i++ {
		_ = s.Push(counter{&v, 1, false})
	}
	if s.Len() != DefaultLimit {
		t.Errorf("Len = %d, want %d", s.Len(), DefaultLimit)
	}
	for s.CanUndo() {
		_, _ = s.Undo()
	}
	if v != 10 {
		t.Errorf("value after undoing everything = %d, want 10", v)
	}
	s.Clear()
	if s.CanRedo() || s.CanUndo() {
		t.Error("Clear left history behind")
	}
}
