// Package protocol implements the framed serial protocol spoken between a
// port monitor and its host.
//
// A message is
//
//	len seq payload... crc_hi crc_lo 0x7E
//
// where len counts the whole message, seq carries the 0x10 destination
// marker and a 4-bit sequence number, and the payload is a run of
// VLQ-encoded command ids each followed by its arguments. An empty payload
// is an ACK (or a NAK, when it names an unexpected sequence).
package protocol

import "bytes"

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin

	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1

	MessageValueSync = 0x7E
	MessageDest      = 0x10
	MessageSeqMask   = 0x0F

	// OutputMax is the size of a scratch output buffer; a single receive
	// may emit several messages.
	OutputMax = 512
)

// NextSequence returns the sequence that follows seq.
func NextSequence(seq uint8) uint8 {
	return (seq+1)&MessageSeqMask | MessageDest
}

// EncodeMessage appends a complete message carrying payload to output.
func EncodeMessage(output OutputBuffer, seq uint8, payload []byte) {
	start := output.CurPosition()
	output.Output([]byte{uint8(len(payload) + MessageLengthMin), seq})
	output.Output(payload)
	crc := CRC16(output.DataSince(start))
	output.Output([]byte{uint8(crc >> 8), uint8(crc), MessageValueSync})
}

// framer splits a byte stream into messages. After a malformed message it
// discards input up to the next sync byte.
type framer struct {
	lost     bool
	onResync func()
}

// scan calls fn for every complete message in data and returns the number
// of bytes consumed. A trailing partial message is left unconsumed.
func (f *framer) scan(data []byte, fn func(seq uint8, payload []byte)) int {
	n := 0
	for n < len(data) {
		rest := data[n:]
		if f.lost {
			i := bytes.IndexByte(rest, MessageValueSync)
			if i < 0 {
				return len(data)
			}
			n += i + 1
			f.lost = false
			if f.onResync != nil {
				f.onResync()
			}
			continue
		}
		if rest[0] == MessageValueSync {
			n++
			continue
		}
		if len(rest) < MessageLengthMin {
			break
		}
		msgLen := int(rest[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax ||
			rest[MessagePositionSeq]&^MessageSeqMask != MessageDest {
			f.lost = true
			continue
		}
		if len(rest) < msgLen {
			break
		}
		crc := uint16(rest[msgLen-MessageTrailerCRC])<<8 | uint16(rest[msgLen-MessageTrailerCRC+1])
		if rest[msgLen-MessageTrailerSync] != MessageValueSync ||
			crc != CRC16(rest[:msgLen-MessageTrailerSize]) {
			f.lost = true
			continue
		}
		n += msgLen
		fn(rest[MessagePositionSeq], rest[MessageHeaderSize:msgLen-MessageTrailerSize])
	}
	return n
}
