package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultTimeout bounds how long the host waits for an ACK or a response.
const DefaultTimeout = 2 * time.Second

var (
	ErrClosed     = errors.New("transport closed")
	ErrTimeout    = errors.New("timeout")
	ErrTooLong    = errors.New("message too long")
	ErrEmptyReply = errors.New("empty response")
)

// Message is a received message with a non-empty payload.
type Message struct {
	Sequence uint8
	Payload  []byte
}

// Command splits the message into its command id and arguments.
func (m *Message) Command() (uint16, []byte, error) {
	data := m.Payload
	if len(data) == 0 {
		return 0, nil, ErrEmptyReply
	}
	cmd, err := DecodeVLQUint(&data)
	return uint16(cmd), data, err
}

// HostTransport is the host side of the link. It numbers outgoing
// commands, waits for their ACKs and queues the device's responses.
type HostTransport struct {
	port io.ReadWriteCloser

	sendMu sync.Mutex
	seq    uint8

	framer    framer
	input     *FifoBuffer
	acks      chan uint8
	responses chan *Message

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	readErr   error
}

// NewHostTransport starts reading from port in the background.
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:      port,
		seq:       MessageDest,
		input:     NewFifoBuffer(OutputMax),
		acks:      make(chan uint8, 4),
		responses: make(chan *Message, 16),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go t.readLoop()
	return t
}

// SendCommand sends one command and waits for its ACK.
func (t *HostTransport) SendCommand(cmd uint16, args func(output OutputBuffer)) error {
	return t.SendCommandWithTimeout(cmd, args, DefaultTimeout)
}

func (t *HostTransport) SendCommandWithTimeout(cmd uint16, args func(output OutputBuffer), timeout time.Duration) error {
	var payload ScratchOutput
	EncodeVLQUint(&payload, uint32(cmd))
	if args != nil {
		args(&payload)
	}
	if len(payload.Bytes()) > MessagePayloadMax {
		return fmt.Errorf("command %d: %w (%d bytes)", cmd, ErrTooLong, len(payload.Bytes()))
	}

	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	t.drainAcks()
	var msg ScratchOutput
	EncodeMessage(&msg, t.seq, payload.Bytes())
	if _, err := t.port.Write(msg.Bytes()); err != nil {
		return fmt.Errorf("write command %d: %w", cmd, err)
	}
	if err := t.waitForAck(NextSequence(t.seq), timeout); err != nil {
		return fmt.Errorf("command %d: %w", cmd, err)
	}
	t.seq = NextSequence(t.seq)
	return nil
}

// waitForAck waits for the device to acknowledge with want, the sequence
// following the one just sent. Any other sequence is a NAK.
func (t *HostTransport) waitForAck(want uint8, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case got := <-t.acks:
		if got != want {
			return fmt.Errorf("NAK: expected 0x%02x, device wants 0x%02x", want, got)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("ACK: %w after %v", ErrTimeout, timeout)
	case <-t.done:
		return t.closedErr()
	}
}

func (t *HostTransport) drainAcks() {
	for {
		select {
		case <-t.acks:
		default:
			return
		}
	}
}

// ReceiveResponse returns the oldest queued response.
func (t *HostTransport) ReceiveResponse(timeout time.Duration) (*Message, error) {
	select {
	case m := <-t.responses:
		return m, nil
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case m := <-t.responses:
		return m, nil
	case <-timer.C:
		return nil, fmt.Errorf("response: %w after %v", ErrTimeout, timeout)
	case <-t.done:
		return nil, t.closedErr()
	}
}

func (t *HostTransport) closedErr() error {
	if t.readErr != nil && t.readErr != io.EOF {
		return fmt.Errorf("%w: %v", ErrClosed, t.readErr)
	}
	return ErrClosed
}

func (t *HostTransport) readLoop() {
	defer close(t.done)
	buf := make([]byte, 256)
	for {
		n, err := t.port.Read(buf)
		if n > 0 {
			t.input.Write(buf[:n])
			t.input.Pop(t.framer.scan(t.input.Data(), t.dispatch))
		}
		if err != nil {
			select {
			case <-t.stop:
			default:
				t.readErr = err
			}
			return
		}
	}
}

func (t *HostTransport) dispatch(seq uint8, payload []byte) {
	if len(payload) == 0 {
		select {
		case t.acks <- seq:
		default:
		}
		return
	}
	m := &Message{Sequence: seq, Payload: append([]byte(nil), payload...)}
	for {
		select {
		case t.responses <- m:
			return
		default:
		}
		// Full: drop the oldest response.
		select {
		case <-t.responses:
		default:
		}
	}
}

// Reset drops queued responses and restarts the sequence at 0x10.
func (t *HostTransport) Reset() {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	t.seq = MessageDest
	t.drainAcks()
	for {
		select {
		case <-t.responses:
		default:
			return
		}
	}
}

// Close closes the port and waits for the reader to exit.
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stop)
		err = t.port.Close()
		<-t.done
	})
	return err
}

// Sequence returns the sequence of the next command.
func (t *HostTransport) Sequence() uint8 {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	return t.seq
}
