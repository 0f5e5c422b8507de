// Package syslog writes syslog-style frames to a stream connection. Unlike
// the standard library's log/syslog, a Conn never reconnects behind the
// caller's back: a failed write is returned and the Conn is done.
package syslog

import (
	"fmt"
	"strconv"
	"strings"
)

// Facility is the syslog facility code
type Facility int

const (
	User   Facility = 1
	Daemon Facility = 3
	Local0 Facility = 16
	Local1 Facility = 17
	Local2 Facility = 18
	Local3 Facility = 19
	Local4 Facility = 20
	Local5 Facility = 21
	Local6 Facility = 22
	Local7 Facility = 23
)

var facilityNames = map[string]Facility{
	"user":   User,
	"daemon": Daemon,
	"local0": Local0,
	"local1": Local1,
	"local2": Local2,
	"local3": Local3,
	"local4": Local4,
	"local5": Local5,
	"local6": Local6,
	"local7": Local7,
}

// ParseFacility maps a facility name like "local0" to its code
func ParseFacility(name string) (Facility, error) {
	f, ok := facilityNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown syslog facility '%s'", name)
	}
	return f, nil
}

// Severity is the RFC 5424 numerical severity
type Severity int

const (
	Emergency Severity = iota
	Alert
	Crit
	Err
	Warning
	Notice
	Informational
	Debug
)

// Priority combines facility and severity into the PRI value
func Priority(f Facility, s Severity) int {
	return int(f)*8 + int(s)
}

// Framing selects how frames are delimited on the stream
type Framing int

const (
	// FramingNUL terminates each frame with a NUL byte
	FramingNUL Framing = iota
	// FramingLF is RFC 6587 non-transparent framing
	FramingLF
	// FramingOctet is RFC 6587 octet counting
	FramingOctet
)

// ParseFraming accepts "nul", "lf" or "octet"
func ParseFraming(name string) (Framing, error) {
	switch strings.ToLower(name) {
	case "nul", "":
		return FramingNUL, nil
	case "lf":
		return FramingLF, nil
	case "octet":
		return FramingOctet, nil
	}
	return FramingNUL, fmt.Errorf("unknown syslog framing '%s'", name)
}

// A Message is one syslog line: "<PRI>Tag: Body"
type Message struct {
	Facility Facility
	Severity Severity
	Tag      string
	Body     string
}

func (m *Message) String() string {
	return "<" + strconv.Itoa(Priority(m.Facility, m.Severity)) + ">" + m.Tag + ": " + m.Body
}

// Frame returns the bytes to put on the wire for this framing
func (f Framing) Frame(m *Message) []byte {
	line := m.String()

	switch f {
	case FramingLF:
		return []byte(line + "\n")
	case FramingOctet:
		return []byte(strconv.Itoa(len(line)) + " " + line)
	default:
		return append([]byte(line), 0)
	}
}
