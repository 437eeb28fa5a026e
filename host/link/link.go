// Package link is the host-side client of a port monitor.
package link

import (
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"ioports/host/serial"
	"ioports/protocol"
)

// Ids every monitor uses, so the dictionary itself can be fetched.
const (
	identifyResponseID = 0
	identifyID         = 1

	identifyChunk = 40
	maxDictionary = 16 * 1024
)

// CommandError is a failure reported by the monitor.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return "monitor: " + e.Command + ": " + e.Message
}

// Link talks to one monitor.
type Link struct {
	transport *protocol.HostTransport
	timeout   time.Duration

	dictionary string
	ids        map[string]uint16
	names      []string
}

// New wraps an open stream. Call Identify before any port command.
func New(rwc io.ReadWriteCloser) *Link {
	return &Link{
		transport: protocol.NewHostTransport(rwc),
		timeout:   protocol.DefaultTimeout,
	}
}

// Dial opens a serial device and identifies the monitor behind it.
func Dial(device string, baud int) (*Link, error) {
	cfg := serial.DefaultConfig(device)
	if baud > 0 {
		cfg.Baud = baud
	}
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		log.Warnf("Failed to flush %v: %v", device, err)
	}
	l := New(port)
	if _, err := l.Identify(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (l *Link) Close() error {
	return l.transport.Close()
}

// SetTimeout changes how long a command waits for its ACK and response.
func (l *Link) SetTimeout(d time.Duration) {
	l.timeout = d
}

// Identify retrieves and parses the monitor's dictionary and returns it.
func (l *Link) Identify() (string, error) {
	var dict []byte
	for len(dict) < maxDictionary {
		chunk, err := l.identifyChunk(uint32(len(dict)))
		if err != nil {
			return "", fmt.Errorf("identify at offset %d: %w", len(dict), err)
		}
		if len(chunk) == 0 {
			break
		}
		dict = append(dict, chunk...)
	}
	l.parseDictionary(string(dict))
	log.Debugf("Retrieved dictionary: %d bytes, %d entries", len(dict), len(l.names))
	for _, name := range []string{"port_state", "port_registers", "command_error"} {
		if _, ok := l.ids[name]; !ok {
			return "", fmt.Errorf("dictionary has no %v", name)
		}
	}
	return l.dictionary, nil
}

func (l *Link) identifyChunk(offset uint32) ([]byte, error) {
	err := l.transport.SendCommandWithTimeout(identifyID, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, offset)
		protocol.EncodeVLQUint(out, identifyChunk)
	}, l.timeout)
	if err != nil {
		return nil, err
	}
	for {
		resp, err := l.transport.ReceiveResponse(l.timeout)
		if err != nil {
			return nil, err
		}
		cmd, args, err := resp.Command()
		if err != nil {
			return nil, err
		}
		if cmd != identifyResponseID {
			log.Debugf("Dropping response %d while identifying", cmd)
			continue
		}
		got, err := protocol.DecodeVLQUint(&args)
		if err != nil {
			return nil, err
		}
		if got != offset {
			log.Debugf("Dropping identify_response for offset %d, want %d", got, offset)
			continue
		}
		return protocol.DecodeVLQBytes(&args)
	}
}

func (l *Link) parseDictionary(dict string) {
	l.dictionary = dict
	l.ids = make(map[string]uint16)
	l.names = l.names[:0]
	for i, line := range strings.Split(strings.TrimSuffix(dict, "\n"), "\n") {
		name := line
		if sp := strings.IndexByte(line, ' '); sp >= 0 {
			name = line[:sp]
		}
		l.ids[name] = uint16(i)
		l.names = append(l.names, name)
	}
}

// Commands returns the dictionary entries, one per id.
func (l *Link) Commands() []string {
	if l.dictionary == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(l.dictionary, "\n"), "\n")
}

// call sends a command and waits for the response named want.
func (l *Link) call(name, want string, args ...uint32) ([]byte, error) {
	id, ok := l.ids[name]
	if !ok {
		return nil, fmt.Errorf("command %v not in dictionary", name)
	}
	log.Debugf("-> %v %v", name, args)
	err := l.transport.SendCommandWithTimeout(id, func(out protocol.OutputBuffer) {
		for _, a := range args {
			protocol.EncodeVLQUint(out, a)
		}
	}, l.timeout)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	for {
		resp, err := l.transport.ReceiveResponse(l.timeout)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", name, err)
		}
		cmd, rest, err := resp.Command()
		if err != nil {
			return nil, fmt.Errorf("%v: %w", name, err)
		}
		got := l.name(cmd)
		switch got {
		case want:
			return rest, nil
		case "command_error":
			return nil, l.commandError(rest)
		}
		log.Debugf("Dropping unexpected %v while waiting for %v", got, want)
	}
}

func (l *Link) name(id uint16) string {
	if int(id) < len(l.names) {
		return l.names[id]
	}
	return fmt.Sprintf("#%d", id)
}

func (l *Link) commandError(args []byte) error {
	cmd, err := protocol.DecodeVLQUint(&args)
	if err != nil {
		return err
	}
	msg, err := protocol.DecodeVLQString(&args)
	if err != nil {
		return err
	}
	return &CommandError{Command: l.name(uint16(cmd)), Message: msg}
}
