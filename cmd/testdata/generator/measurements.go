package generator

import (
	"io"
	"math/rand/v2"
	"strconv"

	"pkg.jsn.cam/stationreduce/pkg/stationreduce"
)

type station struct {
	name []byte
	mean float64
}

// Named stations with their long-run mean temperature.
var knownStations = []struct {
	name string
	mean float64
}{
	{"Abha", 18.0},
	{"Accra", 26.4},
	{"Anchorage", 2.8},
	{"Berlin", 10.3},
	{"Bulawayo", 18.9},
	{"Cairo", 21.4},
	{"Dikson", -11.1},
	{"Dodoma", 22.7},
	{"Hamburg", 9.7},
	{"Istanbul", 13.9},
	{"Kraków", 8.3},
	{"Lagos", 26.8},
	{"Mexico City", 17.5},
	{"Nuuk", -1.4},
	{"Oulu", 2.7},
	{"Palembang", 27.3},
	{"Roseau", 26.2},
	{"São Paulo", 19.7},
	{"Tokyo", 15.4},
	{"Yakutsk", -8.8},
	{"Zürich", 9.3},
	{"İzmir", 17.9},
}

const (
	stddev   = 10.0
	maxValue = 999 // tenths
)

// MeasurementGenerator writes "<station>;<value>" lines with one fractional
// digit and |value| < 100.
type MeasurementGenerator struct {
	StationCount int
	rand         *rand.Rand
	stations     []station
}

func (g *MeasurementGenerator) Init(r *rand.Rand) {
	g.rand = r

	count := max(g.StationCount, 1)
	g.stations = make([]station, count)
	for i := range count {
		if i < len(knownStations) {
			g.stations[i] = station{name: []byte(knownStations[i].name), mean: knownStations[i].mean}
			continue
		}
		g.stations[i] = station{
			name: []byte("Station-" + strconv.Itoa(i)),
			mean: r.Float64()*60 - 20,
		}
	}
}

// Value draws a reading around the station mean, clamped to the value domain.
func (g *MeasurementGenerator) Value(s station) stationreduce.Tenths {
	v := int64(g.rand.NormFloat64()*stddev*10 + s.mean*10)
	v = min(max(v, -maxValue), maxValue)
	return stationreduce.Tenths(v)
}

func (g *MeasurementGenerator) WriteLine(w io.Writer) error {
	s := g.stations[g.rand.IntN(len(g.stations))]

	line := make([]byte, 0, len(s.name)+8)
	line = append(line, s.name...)
	line = append(line, ';')
	line = g.Value(s).AppendTo(line)
	line = append(line, '\n')

	_, err := w.Write(line)
	return err
}

func (g *MeasurementGenerator) Description() string {
	return "Station measurements: <station>;<value> with one fractional digit"
}

func (g *MeasurementGenerator) DefaultCount() int64 {
	return 1e6
}
