package record

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	golfswing "github.com/swdee/go-golfswing"
	"github.com/swdee/go-golfswing/phase"
	"github.com/swdee/go-golfswing/pose"
)

func TestHalfPrecision(t *testing.T) {

	for _, v := range []float64{0, 0.5, 0.123456, 0.95, -0.05, 1} {
		got := fromHalf(toHalf(v))

		if math.Abs(got-v) > 1e-3 {
			t.Errorf("%v: round trip gave %v", v, got)
		}
	}
}

func TestRecordingRoundTrip(t *testing.T) {

	var buf bytes.Buffer

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	w, err := NewWriter(&buf, Header{
		SessionID:  "abc",
		FrameRate:  60,
		Handedness: pose.LeftHanded,
		Created:    created,
	})

	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	frames := pose.DefaultGolfer().Swing(0, 60)[:20]
	frames[3] = frames[3].Without(pose.LeftHip)

	for _, f := range frames {
		if err := w.WriteFrame(f); err != nil {
			t.Fatalf("failed to write frame: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	if w.Frames() != 20 {
		t.Errorf("expected 20 frames written, got %d", w.Frames())
	}

	r, err := NewReader(&buf)

	if err != nil {
		t.Fatalf("failed to open recording: %v", err)
	}

	h := r.Header()

	if h.SessionID != "abc" || h.FrameRate != 60 || h.Handedness != pose.LeftHanded ||
		h.Version != Version || !h.Created.Equal(created) {
		t.Errorf("unexpected header %+v", h)
	}

	ctx := context.Background()

	for i, want := range frames {
		got, err := r.Next(ctx)

		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}

		if got.Seq != want.Seq || got.Timestamp != want.Timestamp || got.Len() != want.Len() {
			t.Fatalf("frame %d: expected %d landmarks at %v, got %d at %v",
				i, want.Len(), want.Timestamp, got.Len(), got.Timestamp)
		}

		for _, lm := range want.Landmarks() {
			g, ok := got.Get(lm.ID)

			if !ok || g.Point.Distance(lm.Point) > 1e-3 || math.Abs(g.Visibility-lm.Visibility) > 1e-3 {
				t.Fatalf("frame %d %s: expected %+v, got %+v", i, lm.ID, lm, g)
			}
		}
	}

	if _, ok := frames[3].Get(pose.LeftHip); ok {
		t.Fatalf("test frame should be missing the lead hip")
	}

	if _, err := r.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF at end of recording, got %v", err)
	}
}

func TestReaderRejectsBadInput(t *testing.T) {

	if _, err := NewReader(bytes.NewReader(nil)); !errors.Is(err, ErrBadHeader) {
		t.Errorf("expected ErrBadHeader for empty input, got %v", err)
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.Encode(Header{Magic: "something-else", Version: Version}); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	enc.Flush()

	if _, err := NewReader(&buf); !errors.Is(err, ErrBadHeader) {
		t.Errorf("expected ErrBadHeader for wrong magic, got %v", err)
	}

	// a length prefix beyond the limit is rejected before allocating
	huge := make([]byte, 4)
	binary.BigEndian.PutUint32(huge, MaxMessageSize+1)

	var v any

	if err := NewDecoder(bytes.NewReader(huge)).Decode(&v); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("expected ErrMessageTooLarge, got %v", err)
	}

	// truncated message
	short := []byte{0, 0, 0, 10, 1, 2}

	if err := NewDecoder(bytes.NewReader(short)).Decode(&v); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderCancelled(t *testing.T) {

	var buf bytes.Buffer

	w, _ := NewWriter(&buf, Header{FrameRate: 30})
	w.WriteFrame(pose.DefaultGolfer().Frame(0, 0, 0, 0))
	w.Flush()

	r, err := NewReader(&buf)

	if err != nil {
		t.Fatalf("failed to open recording: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResultStream(t *testing.T) {

	e, err := golfswing.New(golfswing.DefaultConfig())

	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	var sent []golfswing.Result

	for _, f := range pose.DefaultGolfer().Swing(0, 30) {
		res, _ := e.Process(f)
		sent = append(sent, res)

		if err := enc.Encode(res); err != nil {
			t.Fatalf("failed to encode result: %v", err)
		}
	}

	enc.Flush()

	dec := NewDecoder(&buf)

	for i, want := range sent {
		var got golfswing.Result

		if err := dec.Decode(&got); err != nil {
			t.Fatalf("result %d: %v", i, err)
		}

		if got.Seq != want.Seq || got.Phase != want.Phase || got.Status != want.Status ||
			got.SessionID != want.SessionID || got.Transition != want.Transition {
			t.Fatalf("result %d: expected %+v, got %+v", i, want, got)
		}

		if got.Metrics.PeakSeparation != want.Metrics.PeakSeparation ||
			got.Comparison.Overall != want.Comparison.Overall {
			t.Fatalf("result %d: metrics differ", i)
		}
	}

	if sent[len(sent)-1].Phase != phase.Address {
		t.Errorf("expected the swing to end at address")
	}
}
