package protocol

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tarm/serial"

	"github.com/tstone/frontbox-go/term"
)

// Port is a framed, request/reply-correlating wrapper around a serial
// link. One Port owns one physical connection (I/O network or
// expansion); the Machine owns two Ports, never shared.
//
// A single background goroutine (readLoop) is the sole reader of the
// underlying stream, grounded on original_source's SerialInterface,
// whose read() is only ever awaited from the mainboard's own
// tokio::select!. Go has no single-task scheduler to lean on, so
// readLoop plays that role explicitly: it routes each decoded Record to
// whichever outstanding Request is waiting on a matching prefix, or
// else onto the events channel that ReadEvent drains. Send and Request
// may be called concurrently with readLoop; reading the connection
// itself never happens anywhere else.
type Port struct {
	conn   io.ReadWriteCloser
	reader *bufio.Reader
	mu     sync.Mutex // guards writes and pending

	pending *pendingRequest
	events  chan Record

	closed atomic.Bool
	done   chan struct{}
}

// pendingRequest is the single outstanding Request's wait slot; readLoop
// delivers the first record whose prefix matches and clears it.
type pendingRequest struct {
	prefix  string
	replyCh chan Record
}

const eventQueueCapacity = 256

// OpenPort opens a serial connection at 921,600 baud 8N1 and performs the
// buffer-hygiene sequence from spec.md §4.1: four flushing '\r' bytes,
// then a ~300ms silent drain before the port is handed back.
func OpenPort(name string) (*Port, error) {
	cfg := &serial.Config{
		Name:        name,
		Baud:        921600,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: 50 * time.Millisecond,
	}
	conn, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("protocol: open %s: %w", name, err)
	}
	p := newPort(conn)
	if err := p.flush(); err != nil {
		conn.Close()
		return nil, err
	}
	go p.readLoop()
	return p, nil
}

// WrapConn builds a Port around an already-open connection, skipping the
// OS-level serial.Config dance. Used by tests and by callers that manage
// their own transport (e.g. an in-memory pipe).
func WrapConn(conn io.ReadWriteCloser) *Port {
	p := newPort(conn)
	go p.readLoop()
	return p
}

func newPort(conn io.ReadWriteCloser) *Port {
	return &Port{
		conn:   conn,
		reader: bufio.NewReader(conn),
		events: make(chan Record, eventQueueCapacity),
		done:   make(chan struct{}),
	}
}

func (p *Port) flush() error {
	if _, err := p.conn.Write([]byte("\r\r\r\r")); err != nil {
		return fmt.Errorf("protocol: flush write: %w", err)
	}
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		p.reader.ReadString('\r')
	}
	return nil
}

// Close stops readLoop and closes the underlying connection.
func (p *Port) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		close(p.done)
	}
	return p.conn.Close()
}

// Send writes cmd atomically. A short write is treated as a failure,
// matching spec.md §4.1's "no partial writes are tolerated".
func (p *Port) Send(cmd string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, err := io.WriteString(p.conn, cmd)
	if err != nil {
		return fmt.Errorf("protocol: send: %w", err)
	}
	if n != len(cmd) {
		return fmt.Errorf("protocol: short write (%d of %d bytes)", n, len(cmd))
	}
	return nil
}

func (p *Port) readRecord(deadline time.Time) (Record, error) {
	for {
		if p.closed.Load() {
			return Record{}, ErrPortClosed
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return Record{}, ErrTimeout
		}
		line, err := p.reader.ReadString('\r')
		if err != nil {
			continue // ReadTimeout elapsed with no data; keep polling until deadline
		}
		line = line[:len(line)-1]
		if line == "" {
			continue
		}
		rec, ok := ParseRecord(line)
		if !ok {
			term.Warnf("protocol: dropping malformed record %q", line)
			continue
		}
		return rec, nil
	}
}

// readLoop is the connection's only reader. Every decoded record is
// handed to the one outstanding Request if its prefix matches, else
// queued for ReadEvent.
func (p *Port) readLoop() {
	for {
		rec, err := p.readRecord(time.Time{})
		if err != nil {
			if p.closed.Load() {
				return
			}
			continue
		}

		p.mu.Lock()
		pending := p.pending
		if pending != nil && PrefixMatches(rec.Prefix, pending.prefix) {
			p.pending = nil
			p.mu.Unlock()
			pending.replyCh <- rec
			continue
		}
		p.mu.Unlock()

		select {
		case p.events <- rec:
		default:
			term.Warnf("protocol: event queue full, dropping record %q", rec.Prefix)
		}
	}
}

// ReadEvent returns the next record not claimed by an outstanding
// Request, blocking until one arrives or the Port is closed.
func (p *Port) ReadEvent() (Record, error) {
	select {
	case rec := <-p.events:
		return rec, nil
	case <-p.done:
		return Record{}, ErrPortClosed
	}
}

// Request sends cmd then waits for the first record whose prefix
// matches wantPrefix; any other record readLoop sees in the meantime is
// routed to the event queue for ReadEvent to consume later. Only one
// Request may be outstanding on a Port at a time, which the Machine's
// single-threaded command loop already guarantees.
func (p *Port) Request(cmd Command, wantPrefix string, timeout time.Duration) (Record, error) {
	wire, err := toWire(cmd)
	if err != nil {
		return Record{}, err
	}

	replyCh := make(chan Record, 1)
	p.mu.Lock()
	p.pending = &pendingRequest{prefix: wantPrefix, replyCh: replyCh}
	p.mu.Unlock()

	if err := p.Send(wire); err != nil {
		p.clearPending(replyCh)
		return Record{}, err
	}

	select {
	case rec := <-replyCh:
		return rec, nil
	case <-time.After(timeout):
		p.clearPending(replyCh)
		return Record{}, ErrTimeout
	case <-p.done:
		return Record{}, ErrPortClosed
	}
}

func (p *Port) clearPending(ch chan Record) {
	p.mu.Lock()
	if p.pending != nil && p.pending.replyCh == ch {
		p.pending = nil
	}
	p.mu.Unlock()
}

// RequestUntilMatch retries cmd every timeout interval until predicate
// returns (value, true). Used only during boot handshake (spec.md §4.1).
func RequestUntilMatch[T any](p *Port, cmd Command, wantPrefix string, timeout time.Duration, predicate func(Record) (T, bool)) T {
	for {
		rec, err := p.Request(cmd, wantPrefix, timeout)
		if err == nil {
			if value, ok := predicate(rec); ok {
				return value
			}
		}
		time.Sleep(timeout)
	}
}

func toWire(cmd Command) (string, error) {
	if cmd == nil {
		return "", fmt.Errorf("protocol: nil command")
	}
	return cmd.ToWire(), nil
}

// RawCommand wraps an already-rendered wire string so a caller that
// computed it outside the Command interface (e.g. hardware.DriverConfig's
// own ToWire) can still use Request's reply-correlation.
type RawCommand string

func (c RawCommand) ToWire() string { return string(c) }
