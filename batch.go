/*
Copyright © 2024 the WBGT authors.
This file is part of WBGT.

WBGT is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

WBGT is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with WBGT.  If not, see <http://www.gnu.org/licenses/>.
*/

package wbgt

import (
	"math"
	"runtime"
	"sync"
)

// A Record holds the outputs for one observation. Component
// temperatures that could not be computed are NaN, and any NaN
// component makes the composite index NaN; invalid physics is a data
// condition, not an error.
type Record struct {
	Tg       float64 // globe temperature [degrees C]
	Tnwb     float64 // natural wet bulb temperature [degrees C]
	Tpsy     float64 // psychrometric wet bulb temperature [degrees C]
	Twbg     float64 // wet bulb globe temperature [degrees C]
	SolarAdj float64 // adjusted solar irradiance [W/m2]
	EstSpeed float64 // wind speed adjusted to reference height [m/s]
	MinSpeed float64 // effective minimum wind speed [m/s]
}

// Index combines the component temperatures into the composite
// index. Tair and the components are in degrees C.
func Index(tair, tg, tnwb float64) float64 {
	return 0.7*tnwb + 0.2*tg + 0.1*tair
}

// An Estimator predicts the component temperatures of the index for
// a single observation. Estimate returns an error only for invalid
// inputs; a solver that fails to converge reports NaN in the
// affected Record fields instead.
type Estimator interface {
	// Name identifies the algorithm family.
	Name() string
	Estimate(o *Observation) (Record, error)
}

// Results holds the outputs for a batch, index-aligned with the
// input observations.
type Results struct {
	Tg       []float64
	Tnwb     []float64
	Tpsy     []float64
	Twbg     []float64
	SolarAdj []float64
	EstSpeed []float64
	MinSpeed []float64
}

// NewResults allocates a result set for n observations.
func NewResults(n int) *Results {
	return &Results{
		Tg:       make([]float64, n),
		Tnwb:     make([]float64, n),
		Tpsy:     make([]float64, n),
		Twbg:     make([]float64, n),
		SolarAdj: make([]float64, n),
		EstSpeed: make([]float64, n),
		MinSpeed: make([]float64, n),
	}
}

func (r *Results) set(i int, rec Record) {
	r.Tg[i] = rec.Tg
	r.Tnwb[i] = rec.Tnwb
	r.Tpsy[i] = rec.Tpsy
	r.Twbg[i] = rec.Twbg
	r.SolarAdj[i] = rec.SolarAdj
	r.EstSpeed[i] = rec.EstSpeed
	r.MinSpeed[i] = rec.MinSpeed
}

// Len returns the number of records.
func (r *Results) Len() int { return len(r.Twbg) }

// Failures counts the records whose composite index is NaN.
func (r *Results) Failures() int {
	n := 0
	for _, v := range r.Twbg {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Run applies e to every observation in the batch, splitting the
// work among GOMAXPROCS goroutines. Observations are independent, so
// each processor takes a strided share of the batch. Identical
// inputs always produce identical outputs regardless of the degree
// of parallelism.
func Run(e Estimator, obs *Observations) (*Results, error) {
	n, err := obs.Check()
	if err != nil {
		return nil, err
	}
	results := NewResults(n)

	nprocs := runtime.GOMAXPROCS(0)
	errs := make([]error, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for i := pp; i < n; i += nprocs {
				rec, err := e.Estimate(obs.At(i))
				if err != nil {
					errs[pp] = err
					return
				}
				results.set(i, rec)
			}
		}(pp)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
