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

// Package wbgt estimates the outdoor wet bulb globe temperature, a
// composite heat-stress index, from standard meteorological
// observations: air temperature, humidity, pressure, wind speed,
// solar irradiance, time, and location.
//
// The index is the weighted sum of the air (dry bulb) temperature,
// the black globe temperature, and the natural wet bulb temperature:
//
//	Twbg = 0.1*Tair + 0.2*Tg + 0.7*Tnwb
//
// Tg and Tnwb are not usually measured; the algorithm families in
// the subdirectories of this repository predict them from the
// meteorological inputs by solving radiative-convective-evaporative
// energy balances. Each family implements the Estimator interface
// defined here, and Run applies an estimator to every element of a
// batch of independent observations in parallel.
package wbgt

import (
	"fmt"
	"math"
	"time"

	"github.com/spatialmodel/wbgt/science/psychro"
	"github.com/spatialmodel/wbgt/science/solar"
)

// Version gives the version number.
const Version = "1.0.0"

// Physical constants shared by the algorithm families. These must
// match the reference implementation exactly for compatibility with
// its validation data.
const (
	// Sigma is the Stefan-Boltzmann constant [W/(m2 K4)].
	Sigma = 5.6696e-8

	// Wick (wet bulb sensor) properties.
	EmisWick = 0.95   // emissivity
	AlbWick  = 0.4    // albedo
	DiamWick = 0.007  // diameter [m]
	LenWick  = 0.0254 // length [m]

	// Globe properties.
	EmisGlobe = 0.95   // emissivity
	AlbGlobe  = 0.05   // albedo
	DiamGlobe = 0.0508 // diameter [m]

	// Surface properties.
	EmisSfc = 0.999
	AlbSfc  = 0.45
)

// Computational limits.
const (
	// RefHeight is the reference wind speed measurement height [m].
	RefHeight = 2.0
	// MinSpeedFloor is the hard minimum wind speed [m/s] below which
	// the convective correlations are not valid.
	MinSpeedFloor = 0.13
	// DefaultMinSpeed is the package default minimum wind speed
	// [m/s] (2 knots), reflecting the threshold of a standard
	// anemometer.
	DefaultMinSpeed = 2.0 * 0.5144444444444445
	// Convergence is the tolerance [K] for the iterative solvers.
	Convergence = 0.02
	// MaxIter is the iteration cap for the iterative solvers.
	MaxIter = 50
)

// DefaultZSpeed is the assumed wind measurement height [m] when none
// is given.
const DefaultZSpeed = 10.0

// An Observation is one fully-resolved set of meteorological inputs.
// Humidity is canonically represented by the dew point temperature.
type Observation struct {
	Time     time.Time // UTC
	Lat, Lon float64   // [degrees]; north and east positive
	Pressure float64   // barometric pressure [hPa]
	TAir     float64   // air (dry bulb) temperature [degrees C]
	TDew     float64   // dew point temperature [degrees C]
	Speed    float64   // wind speed [m/s]
	ZSpeed   float64   // wind measurement height [m]
	DT       float64   // vertical temperature difference, upper minus lower [degrees C]
	Solar    float64   // raw solar irradiance [W/m2]
	Urban    bool      // urban (vs. rural) wind profile
	DGlobe   float64   // globe diameter [m]
	MinSpeed float64   // minimum usable wind speed [m/s]
}

// Observations is a batch of independent observations. Every field
// is either an array of length N or a single element that is
// broadcast to the batch length; optional fields may be empty.
// Humidity may be supplied as dew point temperature, relative
// humidity fraction, or vapor pressure; exactly the ones given may
// be empty as long as at least one is present.
type Observations struct {
	Time     []time.Time // UTC
	Lat, Lon []float64   // [degrees]
	Pressure []float64   // [hPa]
	TAir     []float64   // [degrees C]

	TDew      []float64 // dew point temperature [degrees C] (optional)
	RH        []float64 // relative humidity fraction (optional)
	VaporPres []float64 // vapor pressure [hPa] (optional)

	Speed  []float64 // [m/s]
	ZSpeed []float64 // measurement height [m] (optional; default 10)
	DT     []float64 // vertical temperature difference [degrees C] (optional)
	Solar  []float64 // [W/m2]
	Urban  []bool    // (optional; default rural)

	// DGlobe is the globe diameter [m]; zero selects the standard
	// 0.0508 m globe.
	DGlobe float64
	// MinSpeed is a minimum wind speed override [m/s]; the effective
	// floor is the largest of this value, the package default, and
	// an algorithm-specific hard floor.
	MinSpeed float64
}

// Check validates the batch and returns its length. A length
// mismatch between array-valued inputs, an out-of-range coordinate,
// or a missing humidity representation is a hard input error.
func (obs *Observations) Check() (int, error) {
	n := 0
	for _, l := range []int{len(obs.Time), len(obs.Lat), len(obs.Lon),
		len(obs.Pressure), len(obs.TAir), len(obs.TDew), len(obs.RH),
		len(obs.VaporPres), len(obs.Speed), len(obs.ZSpeed), len(obs.DT),
		len(obs.Solar), len(obs.Urban)} {
		if l > n {
			n = l
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("wbgt: empty batch")
	}

	check := func(name string, l int, required bool) error {
		if l == 0 {
			if required {
				return fmt.Errorf("wbgt: missing required input %s", name)
			}
			return nil
		}
		if l != 1 && l != n {
			return fmt.Errorf("wbgt: input %s has length %d but batch length is %d", name, l, n)
		}
		return nil
	}
	for _, f := range []struct {
		name     string
		len      int
		required bool
	}{
		{"time", len(obs.Time), true},
		{"lat", len(obs.Lat), true},
		{"lon", len(obs.Lon), true},
		{"pressure", len(obs.Pressure), true},
		{"tair", len(obs.TAir), true},
		{"tdew", len(obs.TDew), false},
		{"rh", len(obs.RH), false},
		{"vaporpres", len(obs.VaporPres), false},
		{"speed", len(obs.Speed), true},
		{"zspeed", len(obs.ZSpeed), false},
		{"dt", len(obs.DT), false},
		{"solar", len(obs.Solar), true},
		{"urban", len(obs.Urban), false},
	} {
		if err := check(f.name, f.len, f.required); err != nil {
			return 0, err
		}
	}
	if len(obs.TDew) == 0 && len(obs.RH) == 0 && len(obs.VaporPres) == 0 {
		return 0, fmt.Errorf("wbgt: no humidity input; one of tdew, rh, or vaporpres is required")
	}
	for i := 0; i < n; i++ {
		lat := obs.Lat[0]
		if len(obs.Lat) > 1 {
			lat = obs.Lat[i]
		}
		lon := obs.Lon[0]
		if len(obs.Lon) > 1 {
			lon = obs.Lon[i]
		}
		if err := solar.CheckCoords(lat, lon); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// At materializes observation i with defaults applied and humidity
// converted to the canonical dew point representation. It must only
// be called after Check has succeeded.
func (obs *Observations) At(i int) *Observation {
	pick := func(s []float64) float64 {
		if len(s) == 0 {
			return 0
		}
		if len(s) == 1 {
			return s[0]
		}
		return s[i]
	}

	o := &Observation{
		Lat:      pick(obs.Lat),
		Lon:      pick(obs.Lon),
		Pressure: pick(obs.Pressure),
		TAir:     pick(obs.TAir),
		Speed:    pick(obs.Speed),
		DT:       pick(obs.DT),
		Solar:    pick(obs.Solar),
		DGlobe:   obs.DGlobe,
	}
	if len(obs.Time) == 1 {
		o.Time = obs.Time[0]
	} else {
		o.Time = obs.Time[i]
	}
	if len(obs.Urban) == 1 {
		o.Urban = obs.Urban[0]
	} else if len(obs.Urban) > 1 {
		o.Urban = obs.Urban[i]
	}

	switch {
	case len(obs.TDew) > 0:
		o.TDew = pick(obs.TDew)
	case len(obs.RH) > 0:
		e := pick(obs.RH) * psychro.ESat(o.TAir+273.15, false)
		o.TDew = psychro.DewPoint(e, false) - 273.15
	default:
		o.TDew = psychro.DewPoint(pick(obs.VaporPres), false) - 273.15
	}

	o.ZSpeed = pick(obs.ZSpeed)
	if len(obs.ZSpeed) == 0 {
		o.ZSpeed = DefaultZSpeed
	}
	if o.DGlobe == 0 {
		o.DGlobe = DiamGlobe
	}
	o.MinSpeed = math.Max(obs.MinSpeed, DefaultMinSpeed)
	return o
}

// CenterTimes shifts every timestamp backward by half of the
// averaging period of the meteorological inputs, so that the solar
// position is evaluated in the middle of each sampling interval.
func (obs *Observations) CenterTimes(avg time.Duration) {
	for i, t := range obs.Time {
		obs.Time[i] = t.Add(-avg / 2)
	}
}
