package protocol

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"
)

type received struct {
	cmd  uint16
	args []byte
}

// newDevice returns a transport whose handler consumes one VLQ argument
// per command and records it.
func newDevice() (*Transport, *ScratchOutput, *[]received) {
	out := NewScratchOutput()
	var got []received
	t := NewTransport(out, func(cmd uint16, args *[]byte) error {
		before := *args
		if _, err := DecodeVLQUint(args); err != nil {
			return err
		}
		got = append(got, received{cmd, before[:len(before)-len(*args)]})
		return nil
	})
	return t, out, &got
}

func message(seq uint8, payload ...byte) []byte {
	out := NewScratchOutput()
	EncodeMessage(out, seq, payload)
	return append([]byte(nil), out.Bytes()...)
}

func TestEncodeMessage(t *testing.T) {
	msg := message(0x10, 0x01, 0x02)
	if len(msg) != 7 || msg[0] != 7 || msg[1] != 0x10 || msg[6] != MessageValueSync {
		t.Fatalf("message = % x", msg)
	}
	crc := CRC16(msg[:4])
	if msg[4] != uint8(crc>>8) || msg[5] != uint8(crc) {
		t.Errorf("bad trailer % x", msg[4:])
	}
}

func TestTransportReceive(t *testing.T) {
	dev, out, got := newDevice()
	dev.Receive(NewSliceInputBuffer(message(0x10, 3, 7, 4, 9)))

	if len(*got) != 2 || (*got)[0].cmd != 3 || (*got)[1].cmd != 4 {
		t.Fatalf("handled %v", *got)
	}
	if !bytes.Equal(out.Bytes(), message(0x11)) {
		t.Errorf("ack = % x", out.Bytes())
	}
	if dev.NextSequence() != 0x11 {
		t.Errorf("next sequence %#x", dev.NextSequence())
	}
}

func TestTransportResponseFollowsAck(t *testing.T) {
	out := NewScratchOutput()
	var dev *Transport
	dev = NewTransport(out, func(cmd uint16, args *[]byte) error {
		dev.SendCommand(0, func(o OutputBuffer) { EncodeVLQUint(o, 42) })
		return nil
	})
	dev.Receive(NewSliceInputBuffer(message(0x10, 1)))

	want := append(message(0x11), message(0x11, 0, 42)...)
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("output % x, want % x", out.Bytes(), want)
	}
}

func TestTransportOutOfOrder(t *testing.T) {
	dev, out, got := newDevice()
	dev.Receive(NewSliceInputBuffer(message(0x12, 3, 7)))

	if len(*got) != 0 {
		t.Errorf("out of order message handled: %v", *got)
	}
	if !bytes.Equal(out.Bytes(), message(0x10)) {
		t.Errorf("nak = % x", out.Bytes())
	}
}

func TestTransportSequenceWraps(t *testing.T) {
	dev, _, got := newDevice()
	seq := uint8(MessageDest)
	for i := 0; i < 20; i++ {
		dev.Receive(NewSliceInputBuffer(message(seq, 1, uint8(i))))
		seq = NextSequence(seq)
	}
	if len(*got) != 20 {
		t.Errorf("handled %d of 20", len(*got))
	}
}

func TestTransportHostRestart(t *testing.T) {
	dev, _, got := newDevice()
	resets := 0
	dev.SetResetCallback(func() { resets++ })

	dev.Receive(NewSliceInputBuffer(message(0x10, 1, 1)))
	dev.Receive(NewSliceInputBuffer(message(0x11, 1, 2)))
	dev.Receive(NewSliceInputBuffer(message(0x10, 1, 3)))

	if resets != 1 || len(*got) != 3 {
		t.Errorf("resets=%d handled=%d", resets, len(*got))
	}
}

func TestTransportPartial(t *testing.T) {
	dev, _, got := newDevice()
	msg := message(0x10, 1, 5)
	fifo := NewFifoBuffer(64)

	fifo.Write(msg[:4])
	dev.Receive(fifo)
	if len(*got) != 0 || fifo.Available() != 4 {
		t.Fatalf("partial message: handled=%d left=%d", len(*got), fifo.Available())
	}

	fifo.Write(msg[4:])
	dev.Receive(fifo)
	if len(*got) != 1 || !fifo.IsEmpty() {
		t.Errorf("complete message: handled=%d left=%d", len(*got), fifo.Available())
	}
}

func TestTransportResync(t *testing.T) {
	dev, out, got := newDevice()
	garbage := []byte{0x30, 0x31, MessageValueSync}

	dev.Receive(NewSliceInputBuffer(append(garbage, message(0x10, 1, 6)...)))
	if len(*got) != 1 || (*got)[0].args[0] != 6 {
		t.Fatalf("handled %v", *got)
	}
	// One NAK for the resync, one ACK for the good message.
	if !bytes.Equal(out.Bytes(), append(message(0x10), message(0x11)...)) {
		t.Errorf("output % x", out.Bytes())
	}
}

// serveDevice runs a device transport on conn until it closes.
func serveDevice(conn net.Conn, handler func(dev *Transport, cmd uint16, args *[]byte) error) {
	out := NewScratchOutput()
	in := NewFifoBuffer(256)
	var dev *Transport
	dev = NewTransport(out, func(cmd uint16, args *[]byte) error {
		return handler(dev, cmd, args)
	})
	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		in.Write(buf[:n])
		dev.Receive(in)
		if len(out.Bytes()) > 0 {
			if _, err := conn.Write(out.Bytes()); err != nil {
				return
			}
			out.Reset()
		}
	}
}

func TestHostTransportRoundTrip(t *testing.T) {
	hostEnd, devEnd := net.Pipe()
	go serveDevice(devEnd, func(dev *Transport, cmd uint16, args *[]byte) error {
		v, err := DecodeVLQUint(args)
		if err != nil {
			return err
		}
		dev.SendCommand(cmd+100, func(o OutputBuffer) { EncodeVLQUint(o, v*2) })
		return nil
	})
	host := NewHostTransport(hostEnd)
	defer host.Close()

	for i := uint32(0); i < 20; i++ {
		if err := host.SendCommand(5, func(o OutputBuffer) { EncodeVLQUint(o, i) }); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
		resp, err := host.ReceiveResponse(time.Second)
		if err != nil {
			t.Fatalf("response %d: %v", i, err)
		}
		cmd, args, err := resp.Command()
		if err != nil || cmd != 105 {
			t.Fatalf("response %d: cmd=%d err=%v", i, cmd, err)
		}
		v, _ := DecodeVLQUint(&args)
		if v != i*2 {
			t.Errorf("response %d carried %d", i, v)
		}
	}
	if host.Sequence() != 0x14 {
		t.Errorf("sequence after 20 commands: %#x", host.Sequence())
	}
}

func TestHostTransportTooLong(t *testing.T) {
	hostEnd, devEnd := net.Pipe()
	defer devEnd.Close()
	host := NewHostTransport(hostEnd)
	defer host.Close()

	err := host.SendCommand(1, func(o OutputBuffer) { o.Output(make([]byte, MessagePayloadMax)) })
	if err == nil {
		t.Error("oversized command accepted")
	}
}

func TestHostTransportTimeout(t *testing.T) {
	hostEnd, devEnd := net.Pipe()
	defer devEnd.Close()
	go io.Copy(io.Discard, devEnd)
	host := NewHostTransport(hostEnd)
	defer host.Close()

	if err := host.SendCommandWithTimeout(1, nil, 20*time.Millisecond); err == nil {
		t.Error("missing ACK not reported")
	}
	if _, err := host.ReceiveResponse(10 * time.Millisecond); err == nil {
		t.Error("missing response not reported")
	}
}

func TestHostTransportClose(t *testing.T) {
	hostEnd, devEnd := net.Pipe()
	defer devEnd.Close()
	host := NewHostTransport(hostEnd)

	done := make(chan error, 1)
	go func() { done <- host.Close() }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked")
	}
	if err := host.SendCommand(1, nil); err == nil {
		t.Error("send after close succeeded")
	}
	if err := host.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
