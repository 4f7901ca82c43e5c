package circuitfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/wiredit/pkg/circuit"
)

// GenerateDOT converts the scene to a Graphviz DOT netlist.
func GenerateDOT(s *circuit.Scene, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph circuit {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=record];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for _, e := range s.Elements() {
		sb.WriteString(fmt.Sprintf("    e%d [label=\"%s\", %s];\n",
			e.ID(), recordLabel(e), shapeAttrs(e)))
	}
	sb.WriteString("\n")

	for _, c := range s.Connections() {
		from, to := c.Start(), c.End()
		sb.WriteString(fmt.Sprintf("    e%d:o%d -> e%d:i%d;\n",
			from.Element().ID(), from.Index, to.Element().ID(), to.Index))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// recordLabel lays out inputs, name and outputs as record fields.
func recordLabel(e *circuit.Element) string {
	var in, out []string
	for i := range e.Inputs {
		in = append(in, fmt.Sprintf("<i%d>", i))
	}
	for i := range e.Outputs {
		out = append(out, fmt.Sprintf("<o%d>", i))
	}
	name := escapeDOT(e.DisplayName())
	return fmt.Sprintf("{%s}|%s|{%s}", strings.Join(in, "|"), name, strings.Join(out, "|"))
}

func shapeAttrs(e *circuit.Element) string {
	switch e.Kind.Group() {
	case circuit.GroupInput:
		return "style=filled, fillcolor=\"#e8f5e9\""
	case circuit.GroupOutput:
		return "style=filled, fillcolor=\"#fff3e0\""
	case circuit.GroupNode:
		return "style=filled, fillcolor=\"#eeeeee\""
	}
	return "style=solid"
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "{", "\\{")
	s = strings.ReplaceAll(s, "}", "\\}")
	return s
}
