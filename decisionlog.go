package coalesce

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// decisionEntry records one pairwise verdict, identified by the basic
// maps' constraint counts rather than a pointer or index so the log
// stays meaningful after the driver has dropped or replaced either side.
type decisionEntry struct {
	label   string
	iRows   int
	jRows   int
	change  Change
}

// DecisionLog is a Middleware that keeps every pairwise verdict in
// memory and can render them either as a Graphviz graph or a colorized
// console trace. Grounded on jjhbw-GoMILP's TreeLogger/ToDOT.
type DecisionLog struct {
	entries []decisionEntry
	next    int
}

func NewDecisionLog() *DecisionLog {
	return &DecisionLog{}
}

func (d *DecisionLog) OnPairChecked(i, j *BasicMap, change Change) {
	d.next++
	d.entries = append(d.entries, decisionEntry{
		label:  fmt.Sprintf("pair-%d", d.next),
		iRows:  i.NEq() + i.NIneq(),
		jRows:  j.NEq() + j.NIneq(),
		change: change,
	})
}

func (c Change) dotColor() string {
	switch c {
	case ChangeFuse:
		return "green"
	case ChangeDropFirst, ChangeDropSecond:
		return "orange"
	case ChangeError:
		return "red"
	default:
		return "gray"
	}
}

func (c Change) String() string {
	switch c {
	case ChangeFuse:
		return "fuse"
	case ChangeDropFirst:
		return "drop_first"
	case ChangeDropSecond:
		return "drop_second"
	case ChangeError:
		return "error"
	default:
		return "none"
	}
}

// ToDOT renders the decision sequence as a Graphviz digraph, one node per
// pair examined, colored by outcome.
func (d *DecisionLog) ToDOT() string {
	var b strings.Builder
	b.WriteString("digraph coalesce {\n")
	for _, e := range d.entries {
		fmt.Fprintf(&b, "  %q [label=%q, color=%s];\n",
			e.label,
			fmt.Sprintf("%s\n(%d rows, %d rows) -> %s", e.label, e.iRows, e.jRows, e.change),
			e.change.dotColor())
	}
	b.WriteString("}\n")
	return b.String()
}

// WriteConsole writes a colorized, one-line-per-decision trace to w:
// green for fuse, yellow for a drop, gray for none, red for error.
func (d *DecisionLog) WriteConsole(w io.Writer) {
	for _, e := range d.entries {
		line := fmt.Sprintf("%s: (%d rows) x (%d rows) -> %s", e.label, e.iRows, e.jRows, e.change)
		switch e.change {
		case ChangeFuse:
			color.New(color.FgGreen).Fprintln(w, line)
		case ChangeDropFirst, ChangeDropSecond:
			color.New(color.FgYellow).Fprintln(w, line)
		case ChangeError:
			color.New(color.FgRed).Fprintln(w, line)
		default:
			color.New(color.FgHiBlack).Fprintln(w, line)
		}
	}
}
