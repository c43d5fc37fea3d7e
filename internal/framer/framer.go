// Package framer implements the length-delimited packet framing used on the
// embedded compiler's stdio transport: each packet is a 4-byte little-endian
// length followed by that many payload bytes.
//
// The split between header bytes and payload bytes mirrors the length-prefix
// framing in transparentProxy/main.go's ReadPacket/WritePacket, generalized
// from a single blocking read off a net.Conn to an incremental Feed that
// accepts arbitrary chunk boundaries from a child process's stdout pipe.
package framer

import "encoding/binary"

const headerLen = 4

type state int

const (
	readingHeader state = iota
	readingPayload
)

// Framer decodes a stream of bytes into discrete payloads. It owns at most
// one partially-received packet at a time. A Framer is not safe for
// concurrent use; callers serialize Feed calls themselves (the sync driver
// owns the only Framer for a session, see internal/syncdriver).
type Framer struct {
	st state

	header    [headerLen]byte
	headerPos int

	payload    []byte
	payloadLen int
	payloadPos int
}

// New returns a Framer ready to accept bytes via Feed.
func New() *Framer {
	return &Framer{st: readingHeader}
}

// Feed consumes every byte in chunk exactly once and returns the payloads
// that were completed as a result, in arrival order. Any leftover bytes are
// buffered for the next call.
func (f *Framer) Feed(chunk []byte) [][]byte {
	var out [][]byte
	for len(chunk) > 0 {
		switch f.st {
		case readingHeader:
			n := copy(f.header[f.headerPos:], chunk)
			f.headerPos += n
			chunk = chunk[n:]
			if f.headerPos == headerLen {
				f.payloadLen = int(binary.LittleEndian.Uint32(f.header[:]))
				f.payload = make([]byte, f.payloadLen)
				f.payloadPos = 0
				f.headerPos = 0
				if f.payloadLen == 0 {
					out = append(out, []byte{})
					f.st = readingHeader
					continue
				}
				f.st = readingPayload
			}
		case readingPayload:
			n := copy(f.payload[f.payloadPos:], chunk)
			f.payloadPos += n
			chunk = chunk[n:]
			if f.payloadPos == f.payloadLen {
				out = append(out, f.payload)
				f.payload = nil
				f.st = readingHeader
			}
		}
	}
	return out
}

// Encode returns payload prefixed with its 4-byte little-endian length.
func Encode(payload []byte) []byte {
	out := make([]byte, headerLen+len(payload))
	binary.LittleEndian.PutUint32(out[:headerLen], uint32(len(payload)))
	copy(out[headerLen:], payload)
	return out
}
