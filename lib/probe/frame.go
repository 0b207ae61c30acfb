package probe

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// A library constructor may print to stdout before the report is written,
// so the report travels in a frame the reader can find inside that noise.
//
// Frame layout: 4 bytes of magic, 1 byte frame type, 4 bytes big-endian
// payload length, then the payload.
const (
	frameHeaderSize = 9
	frameTypeReport = uint8(0x01)
	maxFrameLength  = 1 << 20
)

var frameMagic = []byte("XLPR")

func writeFrame(w io.Writer, typ uint8, payload []byte) error {
	header := make([]byte, frameHeaderSize)
	copy(header, frameMagic)
	header[4] = typ
	binary.BigEndian.PutUint32(header[5:], uint32(len(payload)))

	if _, err := w.Write(append(header, payload...)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// readFrame returns the payload of the last frame of type typ in data.
func readFrame(data []byte, typ uint8) ([]byte, error) {
	i := bytes.LastIndex(data, frameMagic)
	for i >= 0 {
		rest := data[i:]
		if len(rest) >= frameHeaderSize && rest[4] == typ {
			n := binary.BigEndian.Uint32(rest[5:frameHeaderSize])
			if n > maxFrameLength {
				return nil, fmt.Errorf("%w: frame length %d exceeds maximum %d", ErrMalformedReport, n, maxFrameLength)
			}
			if uint32(len(rest)-frameHeaderSize) < n {
				return nil, fmt.Errorf("%w: truncated frame", ErrMalformedReport)
			}
			return rest[frameHeaderSize : frameHeaderSize+int(n)], nil
		}
		i = bytes.LastIndex(data[:i], frameMagic)
	}
	return nil, fmt.Errorf("%w: no report frame", ErrMalformedReport)
}
