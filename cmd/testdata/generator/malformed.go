package generator

import "io"

var malformedLines = [][]byte{
	[]byte("\n"),
	[]byte("NoDelimiter 12.3\n"),
	[]byte(";4.5\n"),
	[]byte("Oslo;abc\n"),
	[]byte("Oslo;100.0\n"),
	[]byte("Oslo;1.23\n"),
	[]byte("Oslo;\n"),
}

// MalformedGenerator mixes malformed lines into regular measurements so the
// skip-and-continue policy can be exercised at scale.
type MalformedGenerator struct {
	MeasurementGenerator
	// Ratio is the probability that a line is malformed.
	Ratio float64
}

func (g *MalformedGenerator) WriteLine(w io.Writer) error {
	if g.rand.Float64() < g.Ratio {
		_, err := w.Write(malformedLines[g.rand.IntN(len(malformedLines))])
		return err
	}
	return g.MeasurementGenerator.WriteLine(w)
}

func (g *MalformedGenerator) Description() string {
	return "Station measurements with a share of malformed lines"
}
