package protocol

// CommandHandler runs one decoded command. args starts at the command's
// first argument; the handler must advance it past every argument it reads.
type CommandHandler func(cmd uint16, args *[]byte) error

// Transport is the device side of the link. It validates incoming
// messages, enforces the sequence order, acknowledges every message and
// hands the commands of in-order messages to its handler.
//
// A Transport is not safe for concurrent use.
type Transport struct {
	framer  framer
	next    uint8
	output  OutputBuffer
	handler CommandHandler
	onReset func()
}

func NewTransport(output OutputBuffer, handler CommandHandler) *Transport {
	t := &Transport{
		next:    MessageDest,
		output:  output,
		handler: handler,
	}
	t.framer.onResync = t.encodeAckNak
	return t
}

// Receive consumes every complete message queued in input. Replies, ACKs
// and NAKs are appended to the output buffer.
func (t *Transport) Receive(input InputBuffer) {
	n := t.framer.scan(input.Data(), t.receiveMessage)
	input.Pop(n)
}

func (t *Transport) receiveMessage(seq uint8, payload []byte) {
	if seq == MessageDest && t.next != MessageDest {
		// The host restarted its sequence.
		t.next = MessageDest
		if t.onReset != nil {
			t.onReset()
		}
	}
	if seq != t.next {
		// Out of order: the ACK below names the sequence we still expect.
		t.encodeAckNak()
		return
	}
	t.next = NextSequence(seq)
	t.encodeAckNak()
	t.parseFrame(payload)
}

func (t *Transport) parseFrame(payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			t.framer.lost = true
		}
	}()
	for len(payload) > 0 {
		cmd, err := DecodeVLQUint(&payload)
		if err != nil {
			t.framer.lost = true
			return
		}
		if t.handler == nil {
			return
		}
		if err := t.handler(uint16(cmd), &payload); err != nil {
			// The rest of the payload can no longer be parsed.
			return
		}
	}
}

func (t *Transport) encodeAckNak() {
	EncodeMessage(t.output, t.next, nil)
}

// SendCommand appends one message carrying cmd and its arguments. Replies
// use the sequence of the next expected host message.
func (t *Transport) SendCommand(cmd uint16, args func(output OutputBuffer)) {
	var scratch ScratchOutput
	EncodeVLQUint(&scratch, uint32(cmd))
	if args != nil {
		args(&scratch)
	}
	EncodeMessage(t.output, t.next, scratch.Bytes())
}

// Reset forgets the sequence state, as after a reconnect.
func (t *Transport) Reset() {
	t.framer.lost = false
	t.next = MessageDest
	if t.onReset != nil {
		t.onReset()
	}
}

// SetResetCallback registers fn to run whenever the host restarts its
// sequence.
func (t *Transport) SetResetCallback(fn func()) {
	t.onReset = fn
}

// NextSequence reports the sequence the transport expects next.
func (t *Transport) NextSequence() uint8 {
	return t.next
}
