package transport

import (
	"encoding/binary"
	"io"
)

// textFrameOpcodeAndFin is byte 0 of every frame this server sends:
// FIN=1, RSV=0, opcode=1 (text). The server never fragments and never
// sets the mask bit (server-to-client frames are unmasked).
const textFrameOpcodeAndFin = 0x81

// writeTextFrame writes payload as one unmasked text frame:
// - byte 0: 0x81
// - length: 1 byte if <=125, else 126 + 2-byte big-endian length,
//   else 127 + 8-byte big-endian length
// - payload bytes
func writeTextFrame(w io.Writer, payload []byte) error {
	header := make([]byte, 0, 10)
	header = append(header, textFrameOpcodeAndFin)

	n := len(payload)
	switch {
	case n <= 125:
		header = append(header, byte(n))
	case n <= 65535:
		header = append(header, 126)
		var lenBuf [2]byte
		binary.BigEndian.PutUint16(lenBuf[:], uint16(n))
		header = append(header, lenBuf[:]...)
	default:
		header = append(header, 127)
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(n))
		header = append(header, lenBuf[:]...)
	}

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
