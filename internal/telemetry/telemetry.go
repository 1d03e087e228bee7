// Package telemetry samples running simulations into flat CSV records.
package telemetry

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Sample is one snapshot of a simulation. Fields that do not apply to a
// given simulation stay zero.
type Sample struct {
	Frame     int     `csv:"frame"`
	Steps     int     `csv:"steps"`
	Cells     int     `csv:"cells"`
	Black     int     `csv:"black"`
	Particles int     `csv:"particles"`
	MeanTrail float64 `csv:"mean_trail"`
	StdTrail  float64 `csv:"std_trail"`
}

// TrailStats returns the mean and sample standard deviation of the trail
// lengths; both are zero for fewer than two values.
func TrailStats(lengths []float64) (mean, std float64) {
	switch len(lengths) {
	case 0:
		return 0, 0
	case 1:
		return lengths[0], 0
	}
	return stat.MeanStdDev(lengths, nil)
}

// Summary condenses a series of samples for one column.
type Summary struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
	Std   float64
}

// Column extracts a named numeric column: steps, cells, black, particles,
// mean_trail or std_trail.
func Column(samples []Sample, name string) ([]float64, bool) {
	pick, ok := columns[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(samples))
	for i := range samples {
		out[i] = pick(&samples[i])
	}
	return out, true
}

var columns = map[string]func(*Sample) float64{
	"steps":      func(s *Sample) float64 { return float64(s.Steps) },
	"cells":      func(s *Sample) float64 { return float64(s.Cells) },
	"black":      func(s *Sample) float64 { return float64(s.Black) },
	"particles":  func(s *Sample) float64 { return float64(s.Particles) },
	"mean_trail": func(s *Sample) float64 { return s.MeanTrail },
	"std_trail":  func(s *Sample) float64 { return s.StdTrail },
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(values), Min: values[0], Max: values[0]}
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean, s.Std = TrailStats(values)
	return s
}

// Writer appends samples to a CSV stream, writing the header once.
type Writer struct {
	w             io.Writer
	headerWritten bool
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (tw *Writer) Write(samples ...Sample) error {
	if len(samples) == 0 && tw.headerWritten {
		return nil
	}
	if !tw.headerWritten {
		if err := gocsv.Marshal(samples, tw.w); err != nil {
			return errors.Wrap(err, "writing telemetry")
		}
		tw.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(samples, tw.w); err != nil {
		return errors.Wrap(err, "writing telemetry")
	}
	return nil
}

// Read parses a CSV stream written by Writer.
func Read(r io.Reader) ([]Sample, error) {
	var samples []Sample
	if err := gocsv.Unmarshal(r, &samples); err != nil {
		return nil, errors.Wrap(err, "reading telemetry")
	}
	return samples, nil
}
