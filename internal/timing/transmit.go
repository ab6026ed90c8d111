package timing

import (
	"math"

	"github.com/litescript/ls-timing/internal/geometry"
)

// DefaultOrderCount is the number of transmit orders drawn by a diagram.
const DefaultOrderCount = 200

// DefaultOrders returns transmit orders 0 through DefaultOrderCount-1.
func DefaultOrders() []int {
	orders := make([]int, DefaultOrderCount)
	for i := range orders {
		orders[i] = i
	}
	return orders
}

// TransmitEnvelope is the slant range blinded by the order-th transmit
// pulse, from begin-of-transmit to end-of-transmit, over a PRF axis.
type TransmitEnvelope struct {
	Order int
	Begin []float64 // m
	End   []float64 // m
}

// LocateTransmit computes one envelope per order, in the order given:
//
//	bot = nn c/(2 prf) - c d/(2 prf)
//	eot = nn c/(2 prf) + c d/(2 prf)
//
// Both edges are clipped to the horizon slant range.
func LocateTransmit(orders []int, dutyCycle float64, prfAxis []float64, p geometry.Platform) ([]TransmitEnvelope, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := geometry.CheckPRFAxis(prfAxis); err != nil {
		return nil, err
	}
	if err := geometry.RequireNonNegative("duty_cycle", dutyCycle); err != nil {
		return nil, err
	}

	horizon := p.HorizonSlantRange()
	envelopes := make([]TransmitEnvelope, len(orders))
	for k, nn := range orders {
		env := TransmitEnvelope{
			Order: nn,
			Begin: make([]float64, len(prfAxis)),
			End:   make([]float64, len(prfAxis)),
		}
		for i, prf := range prfAxis {
			period := p.RangePeriod(prf)
			center := float64(nn) * period
			pulse := dutyCycle * period
			env.Begin[i] = math.Min(center-pulse, horizon)
			env.End[i] = math.Min(center+pulse, horizon)
		}
		envelopes[k] = env
	}
	return envelopes, nil
}
