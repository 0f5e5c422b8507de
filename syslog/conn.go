package syslog

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// A Dialer opens connections to a collector
type Dialer interface {
	Dial(ctx context.Context) (Writer, error)
}

// A Writer sends messages to a collector until it fails. Once Write has
// returned an error the Writer must be closed and thrown away.
type Writer interface {
	Write(m *Message) error
	Close() error
}

// TCPDialer dials a collector over a TCP stream
type TCPDialer struct {
	Address      string
	Framing      Framing
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewTCPDialer returns a dialer for host:port
func NewTCPDialer(host string, port int, framing Framing) *TCPDialer {
	return &TCPDialer{
		Address: net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		Framing: framing,
	}
}

// Dial opens a new connection. Cancelling ctx aborts an in-flight dial.
func (d *TCPDialer) Dial(ctx context.Context) (Writer, error) {
	dialer := &net.Dialer{Timeout: d.DialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", d.Address)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", d.Address, err)
	}

	return &Conn{
		conn:         conn,
		framing:      d.Framing,
		writeTimeout: d.WriteTimeout,
	}, nil
}

// A Conn is a single stream connection to a collector
type Conn struct {
	conn         net.Conn
	framing      Framing
	writeTimeout time.Duration

	lock   sync.Mutex
	failed error
}

// Write frames and sends the message. Errors are sticky: after the first
// failure every later Write returns the same error.
func (c *Conn) Write(m *Message) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.failed != nil {
		return c.failed
	}

	if c.writeTimeout > 0 {
		err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Debugf("Unable to set write deadline on %s: %s", c.conn.RemoteAddr(), err)
		}
	}

	_, err := c.conn.Write(c.framing.Frame(m))
	if err != nil {
		c.failed = fmt.Errorf("failed writing to %s: %w", c.conn.RemoteAddr(), err)
		return c.failed
	}

	return nil
}

// Close shuts the underlying connection. It is safe to call while a Write
// is blocked in another goroutine, which then fails.
func (c *Conn) Close() error {
	err := c.conn.Close()

	c.lock.Lock()
	defer c.lock.Unlock()

	if c.failed == nil {
		c.failed = net.ErrClosed
	}
	return err
}
