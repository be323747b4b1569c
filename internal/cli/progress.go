package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"github.com/morozRed/assetrefs/internal/universe"
)

const progressEvery = 256

type rebuildProgressReporter struct {
	enabled bool
	out     io.Writer
	label   string
	names   func(universe.ObjectID) string
	start   time.Time
	count   int
	spinner int
	lastLen int
}

// newRebuildProgressReporter reports visited objects on stderr when stderr is
// a terminal and the output is not JSON.
func newRebuildProgressReporter(label string, names func(universe.ObjectID) string, asJSON bool) *rebuildProgressReporter {
	fd := os.Stderr.Fd()
	enabled := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && !asJSON
	return &rebuildProgressReporter{
		enabled: enabled,
		out:     os.Stderr,
		label:   label,
		names:   names,
		start:   time.Now(),
	}
}

// Visit is the walker hook; it redraws the status every progressEvery objects.
func (r *rebuildProgressReporter) Visit(id universe.ObjectID) {
	r.count++
	if !r.enabled || r.count%progressEvery != 1 {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++

	name := string(id)
	if r.names != nil {
		name = r.names(id)
	}
	r.printStatus(fmt.Sprintf("%s %s %d visiting %s", frame, r.label, r.count, truncateName(name, maxStatusName)))
}

const maxStatusName = 64

// truncateName keeps the tail of name within limit runes, prefixed by "...".
func truncateName(name string, limit int) string {
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	runes := []rune(name)
	return "..." + string(runes[len(runes)-(limit-3):])
}

func (r *rebuildProgressReporter) Done() {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d objects in %s)", r.label, r.count, elapsed))
	fmt.Fprintln(r.out)
}

func (r *rebuildProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}
