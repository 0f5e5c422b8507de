package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"

	"github.com/Shimmur/synthlog/syslog"
	log "github.com/sirupsen/logrus"
)

// LogCapture logs for async testing where we can't get a nice handle on things
func LogCapture(fn func()) string {
	capture := &bytes.Buffer{}
	log.SetOutput(capture)
	fn()
	log.SetOutput(os.Stdout)

	return capture.String()
}

// mockWriter implements syslog.Writer, for testing
type mockWriter struct {
	FailAfter int // Fail once this many writes succeeded, 0 means never
	Panic     bool
	Stall     bool // Block in Write until closed

	Written []*syslog.Message

	stalled chan struct{}
	done    chan struct{}
	lock    sync.Mutex
	closed  bool
}

func newMockWriter() *mockWriter {
	return &mockWriter{done: make(chan struct{})}
}

func (w *mockWriter) Write(m *syslog.Message) error {
	if w.Panic {
		panic("kaboom")
	}

	if w.Stall {
		if w.stalled != nil {
			close(w.stalled)
		}
		<-w.done
	}

	if w.IsClosed() {
		return errors.New("write on closed writer")
	}

	if w.FailAfter > 0 && len(w.Written) >= w.FailAfter {
		return errors.New("intentional test error")
	}

	w.Written = append(w.Written, m)
	return nil
}

func (w *mockWriter) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if !w.closed {
		w.closed = true
		close(w.done)
	}
	return nil
}

func (w *mockWriter) IsClosed() bool {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.closed
}

// mockDialer implements syslog.Dialer, handing out mockWriters
type mockDialer struct {
	AlwaysFail bool
	FailFirst  int
	PanicFirst bool

	// StallFirst makes the first writer hang, closing Stalled once it does
	StallFirst bool
	Stalled    chan struct{}

	// FailAfter for each successive writer handed out
	FailAfter []int

	Attempts int
	Writers  []*mockWriter
}

func (d *mockDialer) Dial(ctx context.Context) (syslog.Writer, error) {
	d.Attempts++

	if d.AlwaysFail || d.Attempts <= d.FailFirst {
		return nil, errors.New("connection refused")
	}

	w := newMockWriter()
	if i := len(d.Writers); i < len(d.FailAfter) {
		w.FailAfter = d.FailAfter[i]
	}
	if d.PanicFirst && len(d.Writers) == 0 {
		w.Panic = true
	}
	if d.StallFirst && len(d.Writers) == 0 {
		w.Stall = true
		w.stalled = d.Stalled
	}

	d.Writers = append(d.Writers, w)
	return w, nil
}

// sent totals the messages written across every connection
func (d *mockDialer) sent() int {
	var total int
	for _, w := range d.Writers {
		total += len(w.Written)
	}
	return total
}

// switchingDialer lets the first dial through and refuses the rest
type switchingDialer struct {
	first  *mockDialer
	dialed int
}

func (d *switchingDialer) Dial(ctx context.Context) (syslog.Writer, error) {
	d.dialed++
	if d.dialed == 1 {
		return d.first.Dial(ctx)
	}
	return nil, errors.New("connection refused")
}
