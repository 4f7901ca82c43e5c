package sim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ha1tch/wiredit/pkg/circuit"
)

// MaxSweepInputs bounds the sweep at 2^16 combinations.
const MaxSweepInputs = 16

var (
	ErrNoStimulus    = errors.New("circuit needs at least one input and one output")
	ErrTooManyInputs = fmt.Errorf("sweep is limited to %d inputs", MaxSweepInputs)
)

// Stimuli returns the input and output elements in sweep order:
// left to right, then top to bottom.
func Stimuli(s *circuit.Scene) (inputs, outputs []*circuit.Element) {
	for _, e := range s.Elements() {
		switch e.Kind.Group() {
		case circuit.GroupInput:
			inputs = append(inputs, e)
		case circuit.GroupOutput:
			outputs = append(outputs, e)
		}
	}
	byPosition := func(list []*circuit.Element) {
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i].Pos, list[j].Pos
			if a.X != b.X {
				return a.X < b.X
			}
			return a.Y < b.Y
		})
	}
	byPosition(inputs)
	byPosition(outputs)
	return inputs, outputs
}

// WriteTruthTable drives every combination of input values through the
// circuit and writes one line per input and per output port:
//
//	0101 : "A"
//	0011 : "B"
//
//	0001 : "LED[0]"
//
// Column k holds combination k; input i carries bit i of k. The controller
// is paused for the sweep and input values are restored afterwards.
func WriteTruthTable(w io.Writer, s *circuit.Scene, c Controller) error {
	inputs, outputs := Stimuli(s)
	if len(inputs) == 0 || len(outputs) == 0 {
		return ErrNoStimulus
	}
	if len(inputs) > MaxSweepInputs {
		return ErrTooManyInputs
	}

	release := Pause(c)
	defer release()

	old := make([]bool, len(inputs))
	for i, in := range inputs {
		old[i] = in.On
	}
	defer func() {
		for i, in := range inputs {
			in.On = old[i]
		}
		c.UpdateAll()
	}()

	combos := 1 << len(inputs)
	type column struct {
		label string
		port  *circuit.Port
		bits  []byte
	}
	var results []*column
	for _, out := range outputs {
		for p := len(out.Inputs) - 1; p >= 0; p-- {
			results = append(results, &column{
				label: fmt.Sprintf("%s[%d]", out.DisplayName(), p),
				port:  out.Inputs[p],
				bits:  make([]byte, combos),
			})
		}
	}

	for k := 0; k < combos; k++ {
		for i, in := range inputs {
			in.On = k&(1<<i) != 0
		}
		c.Update()
		c.UpdateAll()
		for _, col := range results {
			col.bits[k] = bit(col.port.Value)
		}
	}

	bw := bufio.NewWriter(w)
	for i, in := range inputs {
		row := make([]byte, combos)
		for k := range row {
			row[k] = bit(k&(1<<i) != 0)
		}
		fmt.Fprintf(bw, "%s : %q\n", row, in.DisplayName())
	}
	bw.WriteString("\n")
	for _, col := range results {
		fmt.Fprintf(bw, "%s : %q\n", col.bits, col.label)
	}
	return bw.Flush()
}

func bit(v bool) byte {
	if v {
		return '1'
	}
	return '0'
}
