package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/Shimmur/synthlog/reporter"
	"github.com/Shimmur/synthlog/synth"
	"github.com/muesli/termenv"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

var severityColors = map[synth.Severity]termenv.ANSIColor{
	synth.Debug:    termenv.ANSIBlue,
	synth.Info:     termenv.ANSIGreen,
	synth.Warning:  termenv.ANSIYellow,
	synth.Error:    termenv.ANSIRed,
	synth.Critical: termenv.ANSIRed,
}

// A Console mirrors what we send to the operator's terminal. It's separate
// from the logrus output, which is for diagnostics.
type Console struct {
	out  *termenv.Output
	lock sync.Mutex
}

// NewConsole writes to w, detecting the color profile from it
func NewConsole(w io.Writer, opts ...termenv.OutputOption) *Console {
	return &Console{out: termenv.NewOutput(w, opts...)}
}

func (c *Console) println(color termenv.Color, line string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	fmt.Fprintln(c.out, c.out.String(line).Foreground(color).String())
}

// Sent mirrors one record that went out on the wire
func (c *Console) Sent(rec *synth.Record) {
	color, ok := severityColors[rec.Severity]
	if !ok {
		color = termenv.ANSIWhite
	}

	c.println(color, fmt.Sprintf(
		"[%s] Sent %-8s : %s", rec.Time.Local().Format(consoleTimeFormat), rec.Severity, rec.Message,
	))
}

// Stats prints a throughput summary set off by blank lines
func (c *Console) Stats(summary reporter.Summary) {
	c.println(termenv.ANSICyan, "\n"+summary.String()+"\n")
}

// Notice prints a status line, e.g. at startup and shutdown
func (c *Console) Notice(line string) {
	c.println(termenv.ANSIYellow, line)
}
