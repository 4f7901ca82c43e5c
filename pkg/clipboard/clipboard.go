// Package clipboard stores typed editor payloads on a clipboard.
package clipboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrNoData is returned when the clipboard holds nothing of the requested type.
var ErrNoData = errors.New("clipboard holds no data of that type")

// Clipboard holds at most one payload tagged with a MIME type.
type Clipboard interface {
	SetData(mime string, data []byte) error
	Data(mime string) ([]byte, error)
	Clear() error
}

// Has reports whether cb currently holds data of the given type.
func Has(cb Clipboard, mime string) bool {
	if cb == nil {
		return false
	}
	_, err := cb.Data(mime)
	return err == nil
}

// envelopePrefix starts every payload written to the system clipboard.
const envelopePrefix = "wiredit-clip "

// System stores payloads on the desktop clipboard as a single text line:
// the prefix, the MIME type and the base64 payload.
type System struct {
	read  func() (string, error)
	write func(string) error
}

// NewSystem returns a clipboard backed by the desktop clipboard.
func NewSystem() *System {
	return &System{read: clipboard.ReadAll, write: clipboard.WriteAll}
}

// Available reports whether a desktop clipboard tool is present.
func Available() bool {
	return !clipboard.Unsupported
}

// SetData replaces the clipboard content.
func (s *System) SetData(mime string, data []byte) error {
	text := envelopePrefix + mime + " " + base64.StdEncoding.EncodeToString(data)
	if err := s.write(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Data returns the payload if the clipboard holds one of the given type.
func (s *System) Data(mime string) ([]byte, error) {
	text, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return decodeEnvelope(text, mime)
}

// Clear empties the clipboard.
func (s *System) Clear() error {
	if err := s.write(""); err != nil {
		return fmt.Errorf("clear clipboard: %w", err)
	}
	return nil
}

func decodeEnvelope(text, mime string) ([]byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), envelopePrefix)
	if !ok {
		return nil, ErrNoData
	}
	tag, payload, ok := strings.Cut(rest, " ")
	if !ok || tag != mime {
		return nil, ErrNoData
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode clipboard: %w", err)
	}
	return data, nil
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	mime string
	data []byte
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// SetData replaces the clipboard content.
func (m *Memory) SetData(mime string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mime = mime
	m.data = append([]byte(nil), data...)
	return nil
}

// Data returns the payload if the clipboard holds one of the given type.
func (m *Memory) Data(mime string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil || m.mime != mime {
		return nil, ErrNoData
	}
	return append([]byte(nil), m.data...), nil
}

// Clear empties the clipboard.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mime = ""
	m.data = nil
	return nil
}
