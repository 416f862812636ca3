package polyline

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDecode_KnownScale5(t *testing.T) {
	// Reference string from the polyline algorithm documentation:
	// (38.5, -120.2), (40.7, -120.95), (43.252, -126.453) at precision 5.
	codec := NewCodec(Scale5)

	line, err := codec.Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := orb.LineString{
		{-120.2, 38.5},
		{-120.95, 40.7},
		{-126.453, 43.252},
	}
	if len(line) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(line), len(want))
	}
	for i := range want {
		if math.Abs(line[i].Lon()-want[i].Lon()) > 1e-9 || math.Abs(line[i].Lat()-want[i].Lat()) > 1e-9 {
			t.Errorf("point %d = %v, want %v", i, line[i], want[i])
		}
	}
}

func TestRoundTrip_Scale6(t *testing.T) {
	codec := NewCodec(Scale6)

	tests := []struct {
		name string
		line orb.LineString
	}{
		{
			name: "paris to rome direct",
			line: orb.LineString{{2.3522, 48.8566}, {12.4964, 41.9028}},
		},
		{
			name: "negative coordinates",
			line: orb.LineString{{-73.985664, 40.748441}, {-73.968285, 40.785091}},
		},
		{
			name: "many small deltas",
			line: orb.LineString{
				{2.352201, 48.856601},
				{2.352205, 48.856605},
				{2.352301, 48.856701},
				{2.353001, 48.857001},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := codec.Decode(codec.Encode(tt.line))
			if err != nil {
				t.Fatalf("round trip decode failed: %v", err)
			}
			if len(decoded) != len(tt.line) {
				t.Fatalf("round trip produced %d points, want %d", len(decoded), len(tt.line))
			}
			for i := range tt.line {
				// Coordinates are pre-rounded to 6 decimals, so the round
				// trip must be exact to within the scale quantum.
				if math.Abs(decoded[i].Lon()-tt.line[i].Lon()) > 1e-6 ||
					math.Abs(decoded[i].Lat()-tt.line[i].Lat()) > 1e-6 {
					t.Errorf("point %d = %v, want %v", i, decoded[i], tt.line[i])
				}
			}
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	codec := NewCodec(Scale6)
	line, err := codec.Decode("")
	if err != nil {
		t.Fatalf("Decode(\"\") returned error: %v", err)
	}
	if len(line) != 0 {
		t.Errorf("Decode(\"\") returned %d points, want 0", len(line))
	}
}

func TestDecode_Malformed(t *testing.T) {
	codec := NewCodec(Scale6)

	// A truncated varint sequence: the high bit of the last byte promises a
	// continuation that never arrives.
	for _, input := range []string{"_", "_p~iF~", "\x7f\x7f\x7f"} {
		_, err := codec.Decode(input)
		if err == nil {
			t.Errorf("Decode(%q) succeeded, want DecodeError", input)
			continue
		}
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("Decode(%q) error = %T, want *DecodeError", input, err)
		}
	}
}

func TestScaleMismatchChangesCoordinates(t *testing.T) {
	// Decoding a scale-6 polyline with a scale-5 codec must not silently
	// yield the same geometry.
	line := orb.LineString{{2.3522, 48.8566}, {12.4964, 41.9028}}
	encoded := NewCodec(Scale6).Encode(line)

	wrong, err := NewCodec(Scale5).Decode(encoded)
	if err != nil {
		// Acceptable: mis-scaled input can also fail outright.
		return
	}
	if math.Abs(wrong[0].Lat()-line[0].Lat()) < 1 {
		t.Errorf("scale-5 decode of scale-6 data produced plausible coordinates %v; scales must not be interchangeable", wrong[0])
	}
}
