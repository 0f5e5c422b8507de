package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shimmur/synthlog/reporter"
	"github.com/Shimmur/synthlog/synth"
	"github.com/Shimmur/synthlog/syslog"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
)

var syslogSeverities = map[synth.Severity]syslog.Severity{
	synth.Debug:    syslog.Debug,
	synth.Info:     syslog.Informational,
	synth.Warning:  syslog.Warning,
	synth.Error:    syslog.Err,
	synth.Critical: syslog.Crit,
}

// An Emitter owns the one live connection to the collector and sends
// synthetic records over it until told to stop. Delivery is at-most-once:
// a record whose send fails is dropped, never resent.
type Emitter struct {
	Facility   syslog.Facility
	Tag        string
	RetryCount int
	RetryDelay time.Duration
	MinDelay   time.Duration
	MaxDelay   time.Duration

	dialer  syslog.Dialer
	conn    syslog.Writer
	unwatch func() bool
	gen     *synth.Generator
	console *Console
	tracker *reporter.ThroughputReporter
	looper  director.Looper

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewEmitter wires up an Emitter from config. The looper controls how many
// records are attempted, normally director.FOREVER.
func NewEmitter(config *Config, dialer syslog.Dialer, gen *synth.Generator,
	console *Console, tracker *reporter.ThroughputReporter, looper director.Looper) *Emitter {

	// Validate has already vetted the facility
	facility, _ := syslog.ParseFacility(config.Facility)

	return &Emitter{
		Facility:   facility,
		Tag:        config.Tag,
		RetryCount: config.RetryCount,
		RetryDelay: config.RetryDelay,
		MinDelay:   config.MinDelay,
		MaxDelay:   config.MaxDelay,
		dialer:     dialer,
		gen:        gen,
		console:    console,
		tracker:    tracker,
		looper:     looper,
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// Connect replaces any existing connection with a new one, trying up to
// RetryCount times with RetryDelay in between. Running out of attempts
// returns a FatalError.
func (e *Emitter) Connect(ctx context.Context) error {
	e.discard()

	var lastErr error
	for attempt := 1; attempt <= e.RetryCount; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		log.Infof("Attempting to connect to collector (attempt %d/%d)...", attempt, e.RetryCount)

		conn, err := e.dialer.Dial(ctx)
		if err == nil {
			log.Info("Successfully connected to collector")
			e.install(ctx, conn)
			return nil
		}

		// Interrupted mid-dial
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = &ConnectError{Attempt: attempt, Attempts: e.RetryCount, Err: err}
		log.Errorf("Failed to connect to collector: %s", err)

		if attempt == e.RetryCount || RecoveryFor(lastErr) != RetryAfterDelay {
			break
		}

		log.Infof("Retrying in %s...", e.RetryDelay)
		if err := e.sleep(ctx, e.RetryDelay); err != nil {
			return err
		}
	}

	log.Error("Max retry attempts reached. Giving up.")
	return &FatalError{Err: lastErr}
}

// Run connects if needed and then emits until the looper finishes, the
// context is cancelled, or a reconnect runs out of attempts.
func (e *Emitter) Run(ctx context.Context) error {
	if e.conn == nil {
		if err := e.Connect(ctx); err != nil {
			return err
		}
	}
	defer e.discard()

	go e.looper.Loop(func() error {
		return e.iterate(ctx)
	})

	return e.looper.Wait()
}

// iterate is one pass of the loop. Returning an error stops the looper.
func (e *Emitter) iterate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := e.emitOne()
	if err != nil {
		// A send cut short by an interrupt is not a collector failure
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if RecoveryFor(err) != ReconnectAndContinue {
			return err
		}

		log.Errorf("Error sending log, reconnecting: %s", err)
		e.tracker.Reconnected()

		// Skip the pause, we've likely already waited on the reconnect
		return e.Connect(ctx)
	}

	return e.sleep(ctx, e.gen.Jitter(e.MinDelay, e.MaxDelay))
}

// emitOne generates and sends a single record. Panics are converted so
// the loop can recover by reconnecting.
func (e *Emitter) emitOne() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &unexpectedError{Value: r}
		}
	}()

	if e.conn == nil {
		return &SendError{Err: errors.New("no connection")}
	}

	rec := e.gen.Next()
	rec.Time = e.now()

	if err := e.conn.Write(e.messageFor(rec)); err != nil {
		return &SendError{Err: err}
	}

	e.console.Sent(rec)

	if summary, ok := e.tracker.Sent(); ok {
		e.console.Stats(summary)
	}

	return nil
}

func (e *Emitter) messageFor(rec *synth.Record) *syslog.Message {
	return &syslog.Message{
		Facility: e.Facility,
		Severity: syslogSeverities[rec.Severity],
		Tag:      e.Tag,
		Body:     fmt.Sprintf("[%s] %s", rec.Severity, rec.Message),
	}
}

// install makes conn the live connection. Cancelling ctx closes it, which
// unblocks a Write stuck on a stalled collector.
func (e *Emitter) install(ctx context.Context, conn syslog.Writer) {
	e.conn = conn
	e.unwatch = context.AfterFunc(ctx, func() {
		if err := conn.Close(); err != nil {
			log.Debugf("Error closing collector connection on interrupt: %s", err)
		}
	})
}

// discard closes and forgets the current connection, if any
func (e *Emitter) discard() {
	if e.conn == nil {
		return
	}

	// Already closed by the interrupt watcher
	interrupted := e.unwatch != nil && !e.unwatch()
	e.unwatch = nil

	if !interrupted {
		err := e.conn.Close()
		if err != nil {
			log.Debugf("Error closing collector connection: %s", err)
		}
	}
	e.conn = nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
