package record

import (
	"github.com/swdee/go-golfswing/pose"
	"github.com/x448/float16"
)

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// packedLandmark is a landmark stored with half precision coordinates.
// Normalized image coordinates keep around 4 significant digits which is
// well below pose model noise.
type packedLandmark struct {
	ID         uint8  `msgpack:"i"`
	X          uint16 `msgpack:"x"`
	Y          uint16 `msgpack:"y"`
	Z          uint16 `msgpack:"z"`
	Visibility uint16 `msgpack:"v"`
}

// toHalf converts a value to float16 bits
func toHalf(v float64) uint16 {
	return float16.Fromfloat32(float32(v)).Bits()
}

// fromHalf converts float16 bits back to a float64
func fromHalf(b uint16) float64 {
	return float64(f16LookupTable[b])
}

// packLandmarks quantizes the landmarks present in a frame
func packLandmarks(f pose.Frame) []packedLandmark {

	lms := f.Landmarks()
	out := make([]packedLandmark, len(lms))

	for i, lm := range lms {
		out[i] = packedLandmark{
			ID:         uint8(lm.ID),
			X:          toHalf(lm.Point.X),
			Y:          toHalf(lm.Point.Y),
			Z:          toHalf(lm.Point.Z),
			Visibility: toHalf(lm.Visibility),
		}
	}

	return out
}

// unpackLandmarks restores landmarks, dropping any with an id outside the
// canonical set
func unpackLandmarks(packed []packedLandmark) []pose.Landmark {

	out := make([]pose.Landmark, 0, len(packed))

	for _, p := range packed {
		id := pose.LandmarkID(p.ID)

		if !id.Valid() {
			continue
		}

		out = append(out, pose.Landmark{
			ID: id,
			Point: pose.Point{
				X: fromHalf(p.X),
				Y: fromHalf(p.Y),
				Z: fromHalf(p.Z),
			},
			Visibility: fromHalf(p.Visibility),
		})
	}

	return out
}
