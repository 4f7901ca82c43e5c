// Package undo keeps the history of reversible editor commands.
package undo

import (
	"errors"
	"fmt"
)

// DefaultLimit is the number of commands kept when no limit is given.
const DefaultLimit = 50

// ErrEmpty is returned when there is nothing to undo or redo.
var ErrEmpty = errors.New("history is empty")

// Command is one reversible unit of work.
type Command interface {
	Do() error
	Undo() error
	Name() string
}

// Stack records executed commands. Pushing a new command discards the redo history.
type Stack struct {
	undo  []Command
	redo  []Command
	limit int
}

// NewStack creates a stack that keeps at most limit commands.
// A limit of zero or less selects DefaultLimit.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push executes cmd and records it. A failing command is not recorded.
func (s *Stack) Push(cmd Command) error {
	if err := cmd.Do(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	s.undo = append(s.undo, cmd)
	if len(s.undo) > s.limit {
		s.undo = s.undo[1:]
	}
	s.redo = nil
	return nil
}

// Undo reverts the most recent command.
func (s *Stack) Undo() (Command, error) {
	if len(s.undo) == 0 {
		return nil, ErrEmpty
	}
	cmd := s.undo[len(s.undo)-1]
	if err := cmd.Undo(); err != nil {
		return cmd, fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, cmd)
	return cmd, nil
}

// Redo re-applies the most recently undone command.
func (s *Stack) Redo() (Command, error) {
	if len(s.redo) == 0 {
		return nil, ErrEmpty
	}
	cmd := s.redo[len(s.redo)-1]
	if err := cmd.Do(); err != nil {
		return cmd, fmt.Errorf("redo %s: %w", cmd.Name(), err)
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, cmd)
	return cmd, nil
}

// Clear forgets all history.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}

// CanUndo reports whether Undo has work to do.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo has work to do.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Len returns the number of undoable commands.
func (s *Stack) Len() int { return len(s.undo) }
