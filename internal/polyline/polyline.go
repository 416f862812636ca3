// Package polyline encodes and decodes provider polyline geometry. The
// coordinate scale is an explicit constructor parameter because the backends
// disagree on precision (Valhalla emits 1e6, most others 1e5) and decoding
// with the wrong scale corrupts geometry silently.
package polyline

import (
	"fmt"

	"github.com/paulmach/orb"
	gopolyline "github.com/twpayne/go-polyline"
)

// Coordinate scales for the two polyline flavors in the wild.
const (
	Scale5 = 1e5
	Scale6 = 1e6
)

// DecodeError reports a malformed polyline payload.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed polyline: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Codec encodes and decodes polylines at a fixed coordinate scale.
type Codec struct {
	codec gopolyline.Codec
}

// NewCodec returns a codec for the given coordinate scale (Scale5 or Scale6).
func NewCodec(scale float64) Codec {
	return Codec{codec: gopolyline.Codec{Dim: 2, Scale: scale}}
}

// Decode converts an encoded polyline to a line string. Empty input decodes
// to an empty line; malformed input returns a *DecodeError.
func (c Codec) Decode(encoded string) (orb.LineString, error) {
	if encoded == "" {
		return orb.LineString{}, nil
	}

	coords, remaining, err := c.codec.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(remaining) > 0 {
		return nil, &DecodeError{Err: fmt.Errorf("%d trailing bytes after last coordinate", len(remaining))}
	}

	// Polylines carry [lat, lng] pairs; orb points are [lng, lat].
	line := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		line = append(line, orb.Point{c[1], c[0]})
	}
	return line, nil
}

// Encode converts a line string to its encoded polyline representation.
func (c Codec) Encode(line orb.LineString) string {
	coords := make([][]float64, 0, len(line))
	for _, p := range line {
		coords = append(coords, []float64{p.Lat(), p.Lon()})
	}
	return string(c.codec.EncodeCoords(nil, coords))
}
