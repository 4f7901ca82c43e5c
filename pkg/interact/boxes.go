package interact

import (
	"path/filepath"
	"strings"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/circuitfile"
	"github.com/ha1tch/wiredit/pkg/sim"
)

// FileBoxLoader loads box elements from circuit files on disk. The box
// gets one input per stimulus and one output per display of the
// sub-circuit, in sweep order.
type FileBoxLoader struct {
	// Dir resolves relative paths. Empty means the working directory.
	Dir string
}

// LoadBox implements BoxLoader.
func (l FileBoxLoader) LoadBox(e *circuit.Element, path string) error {
	if l.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, path)
	}
	c, err := circuitfile.ReadCircuitFile(path, circuit.NewFactory())
	if err != nil {
		return err
	}
	sub := circuit.NewScene()
	if err := c.Apply(sub); err != nil {
		return err
	}
	inputs, outputs := sim.Stimuli(sub)
	if err := e.SetPorts(len(inputs), len(outputs)); err != nil {
		return err
	}
	e.Label = c.Name
	if e.Label == "" {
		e.Label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return nil
}
