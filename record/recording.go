package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/swdee/go-golfswing/pose"
)

// Version of the recording format
const Version = 1

// magic identifies a pose recording
const magic = "golfswing-pose"

// Header is the first message of a pose recording
type Header struct {
	Magic      string          `msgpack:"magic"`
	Version    int             `msgpack:"version"`
	SessionID  string          `msgpack:"session"`
	FrameRate  float64         `msgpack:"fps"`
	Handedness pose.Handedness `msgpack:"handedness"`
	Created    time.Time       `msgpack:"created"`
}

// frameRecord is a pose frame as stored on disk
type frameRecord struct {
	Seq       uint64           `msgpack:"seq"`
	Timestamp int64            `msgpack:"ts"`
	Landmarks []packedLandmark `msgpack:"lm"`
}

// Writer records pose frames
type Writer struct {
	enc    *Encoder
	closer io.Closer
	frames uint64
}

// NewWriter writes the header and returns a Writer.  If w is an io.Closer
// it is closed by Close.
func NewWriter(w io.Writer, h Header) (*Writer, error) {

	h.Magic = magic
	h.Version = Version

	if h.Created.IsZero() {
		h.Created = time.Now().UTC()
	}

	wr := &Writer{enc: NewEncoder(w)}

	if c, ok := w.(io.Closer); ok {
		wr.closer = c
	}

	if err := wr.enc.Encode(h); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return wr, nil
}

// WriteFrame appends a frame.  Coordinates and visibility are stored at
// half precision and the Valid flag is not recorded, replays validate
// frames again.
func (w *Writer) WriteFrame(f pose.Frame) error {

	rec := frameRecord{
		Seq:       f.Seq,
		Timestamp: int64(f.Timestamp),
		Landmarks: packLandmarks(f),
	}

	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", f.Seq, err)
	}

	w.frames++

	return nil
}

// Frames returns the number of frames written
func (w *Writer) Frames() uint64 {
	return w.frames
}

// Flush writes buffered frames to the underlying writer
func (w *Writer) Flush() error {
	return w.enc.Flush()
}

// Close flushes the writer and closes the underlying writer if it is an
// io.Closer
func (w *Writer) Close() error {

	err := w.enc.Flush()

	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}

	return err
}

// Reader replays a pose recording, it implements pose.Source
type Reader struct {
	dec    *Decoder
	header Header
}

// NewReader reads and checks the recording header
func NewReader(r io.Reader) (*Reader, error) {

	rd := &Reader{dec: NewDecoder(r)}

	if err := rd.dec.Decode(&rd.header); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty recording", ErrBadHeader)
		}

		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	if rd.header.Magic != magic {
		return nil, fmt.Errorf("%w: not a pose recording", ErrBadHeader)
	}

	if rd.header.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadHeader, rd.header.Version)
	}

	return rd, nil
}

// Header returns the recording header
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next recorded frame, or io.EOF at the end of the
// recording
func (r *Reader) Next(ctx context.Context) (pose.Frame, error) {

	if err := ctx.Err(); err != nil {
		return pose.Frame{}, err
	}

	var rec frameRecord

	if err := r.dec.Decode(&rec); err != nil {
		return pose.Frame{}, err
	}

	return pose.NewFrame(rec.Seq, time.Duration(rec.Timestamp), unpackLandmarks(rec.Landmarks)...), nil
}

var _ pose.Source = (*Reader)(nil)
