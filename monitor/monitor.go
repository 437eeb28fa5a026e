// Package monitor is a small command interpreter that exposes a board's
// ports over the framed serial protocol. A host reads and writes port data,
// applies configurations and dumps registers; every command answers with a
// response naming the port it touched, or with command_error.
package monitor

import (
	"errors"
	"io"
	"sync"

	"tinygo.org/x/drivers"

	"ioports/ioport"
	"ioports/protocol"
)

var ErrUnknownPort = errors.New("unknown port")

// Port is what the monitor needs from a port. Any *ioport.Port satisfies
// it, whatever its clock gate.
type Port interface {
	ID() byte
	Read() ioport.DataT
	Write(value ioport.DataT)
	ClearAndSet(clearMask, value ioport.DataT)
	Set(value ioport.DataT)
	Clear(value ioport.DataT)
	Toggle(value ioport.DataT)
	SetConfiguration(mask ioport.DataT, cfg ioport.Configuration)
	Snapshot() ioport.Snapshot
	Enable()
	Disable()
}

// Monitor serves a fixed set of ports. Its methods may be called from
// several goroutines but input is processed one call at a time.
type Monitor struct {
	ports    []Port
	registry *Registry

	mu        sync.Mutex
	transport *protocol.Transport
	input     *protocol.FifoBuffer
	output    protocol.SliceOutput

	identifyResponse uint16
	portState        uint16
	portRegisters    uint16
	commandError     uint16
}

func New(ports ...Port) *Monitor {
	m := &Monitor{
		ports:    ports,
		registry: NewRegistry(),
		input:    protocol.NewFifoBuffer(2 * protocol.MessageLengthMax),
	}
	m.transport = protocol.NewTransport(&m.output, m.dispatch)
	m.registerCommands()
	return m
}

// Registry returns the monitor's command table.
func (m *Monitor) Registry() *Registry { return m.registry }

// Feed processes received bytes and writes all resulting messages to w.
func (m *Monitor) Feed(data []byte, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(data) > 0 {
		// Receive leaves at most one partial message behind, so the
		// ring always has room for more.
		n := m.input.Write(data)
		data = data[n:]
		m.transport.Receive(m.input)
		if err := m.flush(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Monitor) flush(w io.Writer) error {
	if len(m.output.Bytes()) == 0 {
		return nil
	}
	_, err := w.Write(m.output.Bytes())
	m.output.Reset()
	return err
}

// Poll drains whatever the UART has buffered and answers it. It does not
// block and is meant to be called from the firmware main loop.
func (m *Monitor) Poll(uart drivers.UART) error {
	var buf [64]byte
	for uart.Buffered() > 0 {
		n, err := uart.Read(buf[:])
		if n > 0 {
			if err := m.Feed(buf[:n], uart); err != nil {
				return err
			}
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

// Serve answers requests from rw until it reaches EOF.
func (m *Monitor) Serve(rw io.ReadWriter) error {
	buf := make([]byte, 256)
	for {
		n, err := rw.Read(buf)
		if n > 0 {
			if werr := m.Feed(buf[:n], rw); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// dispatch runs one command for the transport. A failed command is
// reported to the host and ends processing of its message.
func (m *Monitor) dispatch(cmd uint16, args *[]byte) error {
	err := m.registry.Dispatch(cmd, args)
	if err != nil {
		DebugPrintln("monitor: command " + itoa(uint32(cmd)) + ": " + err.Error())
		m.sendError(cmd, err)
	}
	return err
}

func (m *Monitor) port(args *[]byte) (Port, error) {
	id, err := protocol.DecodeVLQUint(args)
	if err != nil {
		return nil, err
	}
	if id >= 'a' && id <= 'z' {
		id -= 'a' - 'A'
	}
	for _, p := range m.ports {
		if uint32(p.ID()) == id {
			return p, nil
		}
	}
	return nil, ErrUnknownPort
}
