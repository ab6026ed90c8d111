package timing

// Sink receives drawable geometry. Implementations live in internal/plot.
// All slices passed to a single call share the same length; a sink must
// return a ShapeMismatchError otherwise.
type Sink interface {
	// Line draws a polyline through (xs[i], ys[i]).
	Line(xs, ys []float64, color string) error
	// FillBetween fills the region between y1 and y2 over xs.
	FillBetween(xs, y1, y2 []float64, color string) error
	// SetXLabel labels the shared PRF axis.
	SetXLabel(label string)
}

// Drawing defaults.
const (
	NadirColor    = "#000000"
	TransmitColor = "#ffa500"
	PRFAxisLabel  = "PRF [Hz]"
)
