package main

import (
	"context"
	"errors"
	"fmt"
)

// Failure classifies what went wrong in the emitter
type Failure int

const (
	ConnectFailure Failure = iota
	SendFailure
	UnexpectedFailure
	FatalFailure
)

func (f Failure) String() string {
	switch f {
	case ConnectFailure:
		return "connect"
	case SendFailure:
		return "send"
	case UnexpectedFailure:
		return "unexpected"
	case FatalFailure:
		return "fatal"
	}
	return fmt.Sprintf("Failure(%d)", int(f))
}

// Recovery is what the emitter does about a Failure
type Recovery int

const (
	RetryAfterDelay Recovery = iota
	ReconnectAndContinue
	Exit
)

var recoveries = map[Failure]Recovery{
	ConnectFailure:    RetryAfterDelay,
	SendFailure:       ReconnectAndContinue,
	UnexpectedFailure: ReconnectAndContinue,
	FatalFailure:      Exit,
}

type classified interface {
	Failure() Failure
}

// RecoveryFor looks up how to handle err. Anything we can't classify is
// treated as unexpected.
func RecoveryFor(err error) Recovery {
	var c classified
	if errors.As(err, &c) {
		return recoveries[c.Failure()]
	}
	return recoveries[UnexpectedFailure]
}

// ConnectError is a single failed connection attempt
type ConnectError struct {
	Attempt  int
	Attempts int
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect attempt %d/%d failed: %s", e.Attempt, e.Attempts, e.Err)
}
func (e *ConnectError) Unwrap() error    { return e.Err }
func (e *ConnectError) Failure() Failure { return ConnectFailure }

// SendError means a record was lost because the connection broke
type SendError struct {
	Err error
}

func (e *SendError) Error() string    { return fmt.Sprintf("send failed: %s", e.Err) }
func (e *SendError) Unwrap() error    { return e.Err }
func (e *SendError) Failure() Failure { return SendFailure }

// unexpectedError wraps a panic recovered from the loop body
type unexpectedError struct {
	Value interface{}
}

func (e *unexpectedError) Error() string    { return fmt.Sprintf("unexpected error: %v", e.Value) }
func (e *unexpectedError) Failure() Failure { return UnexpectedFailure }

// FatalError stops the process
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string    { return fmt.Sprintf("fatal: %s", e.Err) }
func (e *FatalError) Unwrap() error    { return e.Err }
func (e *FatalError) Failure() Failure { return FatalFailure }

// ExitCode maps the error that ended Run to a process exit status. An
// interrupt is a clean shutdown.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
}
