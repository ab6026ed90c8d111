package timing

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/floats"
)

// DiagramExport is the serializable form of a Diagram. Only finite values
// are exported: nadir returns are the diagram's drawable paths and
// transmit ground ranges carry the 0 sentinel.
type DiagramExport struct {
	Platform  PlatformExport   `json:"platform" msgpack:"platform"`
	DutyCycle float64          `json:"duty_cycle" msgpack:"duty_cycle"`
	Horizon   float64          `json:"horizon_slant_range_m" msgpack:"horizon_slant_range_m"`
	PRF       []float64        `json:"prf_hz" msgpack:"prf_hz"`
	Nadir     []NadirExport    `json:"nadir" msgpack:"nadir"`
	Transmit  []EnvelopeExport `json:"transmit" msgpack:"transmit"`
}

// PlatformExport mirrors geometry.Platform.
type PlatformExport struct {
	Height       float64 `json:"height_m" msgpack:"height_m"`
	EarthRadius  float64 `json:"earth_radius_m" msgpack:"earth_radius_m"`
	SpeedOfLight float64 `json:"speed_of_light_mps" msgpack:"speed_of_light_mps"`
}

// NadirExport is one drawable segment of a nadir trace.
type NadirExport struct {
	M        int       `json:"m" msgpack:"m"`
	N        int       `json:"n" msgpack:"n"`
	PRF      []float64 `json:"prf_hz" msgpack:"prf_hz"`
	GroundKm []float64 `json:"ground_km" msgpack:"ground_km"`
}

// EnvelopeExport is one transmit order with both slant and ground ranges,
// so the ground sentinel can be told apart from a true zero.
type EnvelopeExport struct {
	Order      int       `json:"order" msgpack:"order"`
	BeginSlant []float64 `json:"begin_slant_m" msgpack:"begin_slant_m"`
	EndSlant   []float64 `json:"end_slant_m" msgpack:"end_slant_m"`
	BeginKm    []float64 `json:"begin_ground_km" msgpack:"begin_ground_km"`
	EndKm      []float64 `json:"end_ground_km" msgpack:"end_ground_km"`
}

// Export converts the diagram to its serializable form.
func (d *Diagram) Export() *DiagramExport {
	e := &DiagramExport{
		Platform: PlatformExport{
			Height:       d.Platform.Height,
			EarthRadius:  d.Platform.EarthRadius,
			SpeedOfLight: d.Platform.SpeedOfLight,
		},
		DutyCycle: d.DutyCycle,
		Horizon:   d.Platform.HorizonSlantRange(),
		PRF:       d.PRF,
	}

	for _, path := range d.Nadir {
		e.Nadir = append(e.Nadir, NadirExport{
			M:        path.M,
			N:        path.N,
			PRF:      path.PRF,
			GroundKm: toKm(path.Ground),
		})
	}

	for k, env := range d.Transmit {
		ee := EnvelopeExport{
			Order:      env.Order,
			BeginSlant: env.Begin,
			EndSlant:   env.End,
		}
		if k < len(d.Ground) {
			ee.BeginKm = toKm(d.Ground[k].Begin)
			ee.EndKm = toKm(d.Ground[k].End)
		}
		e.Transmit = append(e.Transmit, ee)
	}
	return e
}

func toKm(m []float64) []float64 {
	return floats.ScaleTo(make([]float64, len(m)), 1e-3, m)
}

// WriteJSON writes the export as indented JSON.
func (e *DiagramExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteMsgpack writes the export as MessagePack.
func (e *DiagramExport) WriteMsgpack(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(e)
}

// ReadMsgpack decodes an export written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (*DiagramExport, error) {
	var e DiagramExport
	if err := msgpack.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("decode msgpack diagram: %w", err)
	}
	return &e, nil
}
