package record

import "github.com/twpayne/go-polyline"

// Encode renders the arc's intermediate points as a Google-encoded
// polyline string, the same rendering the teacher's
// RenderPath/RenderPath2 produce for a full path. It is a read-side
// convenience for callers that want to hand a shape straight to a map
// widget; pkg/chstore never calls it itself.
func (s ShapeArc) Encode() string {
	coords := make([][]float64, len(s.Intermediates))
	for i, p := range s.Intermediates {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}
