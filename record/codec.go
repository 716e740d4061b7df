// Package record stores pose frames and analysis results as a stream of
// length prefixed MessagePack messages.  Each message is a 4 byte big endian
// length followed by the msgpack encoded value.
package record

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxMessageSize is the largest message accepted by a Decoder
const MaxMessageSize = 4 << 20

var (
	// ErrMessageTooLarge is returned when a length prefix exceeds
	// MaxMessageSize
	ErrMessageTooLarge = errors.New("message too large")
	// ErrBadHeader is returned when a recording does not start with a valid
	// header
	ErrBadHeader = errors.New("invalid recording header")
)

// Encoder writes length prefixed msgpack messages
type Encoder struct {
	w   *bufio.Writer
	buf [4]byte
}

// NewEncoder returns an encoder writing to w.  Messages are buffered until
// Flush is called.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes one message
func (e *Encoder) Encode(v any) error {

	data, err := msgpack.Marshal(v)

	if err != nil {
		return fmt.Errorf("failed to marshal msgpack message: %w", err)
	}

	if len(data) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(data))
	}

	binary.BigEndian.PutUint32(e.buf[:], uint32(len(data)))

	if _, err := e.w.Write(e.buf[:]); err != nil {
		return fmt.Errorf("failed to write length prefix: %w", err)
	}

	if _, err := e.w.Write(data); err != nil {
		return fmt.Errorf("failed to write msgpack data: %w", err)
	}

	return nil
}

// Flush writes any buffered messages to the underlying writer
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// Decoder reads length prefixed msgpack messages
type Decoder struct {
	r   *bufio.Reader
	buf [4]byte
}

// NewDecoder returns a decoder reading from r
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads the next message into v.  It returns io.EOF when the stream
// ends cleanly between messages and io.ErrUnexpectedEOF for a truncated
// message.
func (d *Decoder) Decode(v any) error {

	if _, err := io.ReadFull(d.r, d.buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}

		return fmt.Errorf("failed to read length prefix: %w", err)
	}

	size := binary.BigEndian.Uint32(d.buf[:])

	if size > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
	}

	data := make([]byte, size)

	if _, err := io.ReadFull(d.r, data); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return fmt.Errorf("failed to read msgpack data: %w", err)
	}

	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal msgpack message: %w", err)
	}

	return nil
}
