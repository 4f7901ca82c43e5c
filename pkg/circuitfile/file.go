package circuitfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// FormatName is the header written to every circuit file.
const FormatName = "wiredit"

// Archive member names.
const (
	metaMember    = "meta.toml"
	circuitMember = "circuit.json"
)

// Meta represents the meta.toml content of a circuit file.
type Meta struct {
	Format  string   `toml:"format"`
	Version int      `toml:"version"`
	Name    string   `toml:"name,omitempty"`
	Scene   RectMeta `toml:"scene"`
}

// RectMeta is the scene rectangle as stored in meta.toml.
type RectMeta struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	W float64 `toml:"w"`
	H float64 `toml:"h"`
}

// Circuit is a whole circuit read from a file.
type Circuit struct {
	Name  string
	Rect  geom.Rect
	Items *Items
}

// Apply places the circuit in s directly, outside the undo history.
func (c *Circuit) Apply(s *circuit.Scene) error {
	for _, e := range c.Items.Elements {
		if err := s.AddElement(e); err != nil {
			return err
		}
	}
	for _, conn := range c.Items.Connections {
		if err := s.AddConnection(conn); err != nil {
			return err
		}
	}
	s.SetRect(c.Rect)
	return nil
}

// WriteCircuitFile writes the scene to a circuit file.
func WriteCircuitFile(path string, s *circuit.Scene, name string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCircuit(file, s, name); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCircuit writes the scene to w as a zip archive holding meta.toml and circuit.json.
func WriteCircuit(w io.Writer, s *circuit.Scene, name string) error {
	zw := zip.NewWriter(w)

	r := s.Rect()
	meta := Meta{
		Format:  FormatName,
		Version: FormatVersion,
		Name:    name,
		Scene:   RectMeta{X: r.X, Y: r.Y, W: r.W, H: r.H},
	}
	mw, err := zw.Create(metaMember)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(mw).Encode(meta); err != nil {
		return fmt.Errorf("encode %s: %w", metaMember, err)
	}

	data, err := Serialize(s.Elements(), s.Connections())
	if err != nil {
		return err
	}
	cw, err := zw.Create(circuitMember)
	if err != nil {
		return err
	}
	if _, err := cw.Write(data); err != nil {
		return err
	}
	return zw.Close()
}

// ReadCircuitFile reads a circuit file. Box sources are resolved relative to its directory.
func ReadCircuitFile(path string, f *circuit.Factory) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadCircuit(bytes.NewReader(data), int64(len(data)), filepath.Dir(path), f)
}

// ReadCircuit reads a circuit archive from r.
func ReadCircuit(r io.ReaderAt, size int64, dir string, f *circuit.Factory) (*Circuit, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	var metaContent, circuitContent []byte
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		switch zf.Name {
		case metaMember:
			metaContent = data
		case circuitMember:
			circuitContent = data
		}
	}

	if metaContent == nil {
		return nil, fmt.Errorf("%s not found in archive", metaMember)
	}
	if circuitContent == nil {
		return nil, fmt.Errorf("%s not found in archive", circuitMember)
	}

	var meta Meta
	if _, err := toml.Decode(string(metaContent), &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", metaMember, err)
	}
	if meta.Format != FormatName {
		return nil, fmt.Errorf("%w: header %q", ErrBadPayload, meta.Format)
	}

	items, err := Deserialize(circuitContent, Origin{Version: meta.Version, Dir: dir}, f)
	if err != nil {
		return nil, err
	}
	return &Circuit{
		Name:  meta.Name,
		Rect:  geom.Rect{X: meta.Scene.X, Y: meta.Scene.Y, W: meta.Scene.W, H: meta.Scene.H},
		Items: items,
	}, nil
}

func resolveSource(dir, source string) string {
	if source == "" || dir == "" || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(dir, source)
}
