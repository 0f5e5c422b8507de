package syslog

import (
	"bufio"
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func Test_Frame(t *testing.T) {
	Convey("Framing.Frame()", t, func() {
		msg := &Message{
			Facility: Local0, Severity: Informational,
			Tag: "SyntheticLogs", Body: "[INFO] Database connection established",
		}

		Convey("computes the PRI from facility and severity", func() {
			So(Priority(Local0, Informational), ShouldEqual, 134)
			So(Priority(Local0, Crit), ShouldEqual, 130)
			So(msg.String(), ShouldEqual, "<134>SyntheticLogs: [INFO] Database connection established")
		})

		Convey("terminates with NUL by default", func() {
			So(string(FramingNUL.Frame(msg)), ShouldEqual, msg.String()+"\x00")
		})

		Convey("terminates with a newline for LF framing", func() {
			So(string(FramingLF.Frame(msg)), ShouldEqual, msg.String()+"\n")
		})

		Convey("prefixes the length for octet counting", func() {
			So(string(FramingOctet.Frame(msg)), ShouldEqual, "58 "+msg.String())
		})
	})
}

func Test_Parse(t *testing.T) {
	Convey("parsing names", t, func() {
		f, err := ParseFacility("LOCAL0")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, Local0)

		_, err = ParseFacility("kern-ish")
		So(err, ShouldNotBeNil)

		fr, err := ParseFraming("octet")
		So(err, ShouldBeNil)
		So(fr, ShouldEqual, FramingOctet)

		fr, err = ParseFraming("")
		So(err, ShouldBeNil)
		So(fr, ShouldEqual, FramingNUL)

		_, err = ParseFraming("crlf")
		So(err, ShouldNotBeNil)
	})
}

func Test_TCPDialer(t *testing.T) {
	Convey("TCPDialer", t, func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		addr := listener.Addr().(*net.TCPAddr)

		Reset(func() { _ = listener.Close() })

		Convey("delivers framed messages end-to-end", func() {
			received := make(chan string, 1)
			go func() {
				conn, err := listener.Accept()
				if err != nil {
					return
				}
				defer conn.Close()
				line, _ := bufio.NewReader(conn).ReadString('\n')
				received <- line
			}()

			dialer := NewTCPDialer("127.0.0.1", addr.Port, FramingLF)
			w, err := dialer.Dial(context.Background())
			So(err, ShouldBeNil)

			err = w.Write(&Message{Facility: Local0, Severity: Err, Tag: "t", Body: "[ERROR] boom"})
			So(err, ShouldBeNil)

			select {
			case line := <-received:
				So(line, ShouldEqual, "<131>t: [ERROR] boom\n")
			case <-time.After(2 * time.Second):
				So("timed out", ShouldBeEmpty)
			}

			So(w.Close(), ShouldBeNil)
		})

		Convey("returns sticky errors after Close", func() {
			go func() {
				conn, err := listener.Accept()
				if err == nil {
					conn.Close()
				}
			}()

			w, err := NewTCPDialer("127.0.0.1", addr.Port, FramingNUL).Dial(context.Background())
			So(err, ShouldBeNil)
			_ = w.Close()

			err = w.Write(&Message{Tag: "t", Body: "late"})
			So(errors.Is(err, net.ErrClosed), ShouldBeTrue)

			again := w.Write(&Message{Tag: "t", Body: "later"})
			So(errors.Is(again, net.ErrClosed), ShouldBeTrue)
			So(again, ShouldResemble, err)
		})

		Convey("fails to dial a closed port", func() {
			_ = listener.Close()

			_, err := NewTCPDialer("127.0.0.1", addr.Port, FramingNUL).Dial(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unable to connect")
		})
	})
}

func Test_Conn(t *testing.T) {
	Convey("Conn", t, func() {
		client, server := net.Pipe()
		Reset(func() { _ = server.Close() })

		msg := &Message{Facility: Local0, Severity: Informational, Tag: "t", Body: "stuck"}

		Convey("unblocks a stalled Write on Close", func() {
			w := &Conn{conn: client, framing: FramingNUL}

			result := make(chan error, 1)
			go func() { result <- w.Write(msg) }()

			time.Sleep(50 * time.Millisecond)
			So(w.Close(), ShouldBeNil)

			select {
			case err := <-result:
				So(err, ShouldNotBeNil)
			case <-time.After(2 * time.Second):
				So("Write still blocked after Close", ShouldBeEmpty)
			}
		})

		Convey("gives up on a stalled Write after the write timeout", func() {
			w := &Conn{conn: client, framing: FramingNUL, writeTimeout: 50 * time.Millisecond}

			err := w.Write(msg)
			So(errors.Is(err, os.ErrDeadlineExceeded), ShouldBeTrue)

			// Sticky from here on
			So(w.Write(msg), ShouldResemble, err)
			So(w.Close(), ShouldBeNil)
		})
	})
}
