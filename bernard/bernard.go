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

// Package bernard predicts the wet bulb globe temperature with the
// method of Bernard and Pourmoghani (1999), "Prediction of workplace
// wet bulb globe temperature", Appl. Occup. Environ. Hyg. 14:126-134.
// The globe temperature is found from a radiative energy balance with
// an empirical convection coefficient, the psychrometric wet bulb
// from a closed-form relation, and the natural wet bulb from the
// psychrometric wet bulb and globe temperature through wind-dependent
// adjustment factors.
package bernard

import (
	"math"

	"github.com/spatialmodel/wbgt"
	"github.com/spatialmodel/wbgt/science/convect"
	"github.com/spatialmodel/wbgt/science/psychro"
	"github.com/spatialmodel/wbgt/science/solar"
	"github.com/spatialmodel/wbgt/science/wind"
)

// An Estimator predicts wet bulb globe temperature using the Bernard
// method. The zero value is ready to use.
type Estimator struct {
	// Engine calculates solar positions; nil selects
	// solar.Almanac.
	Engine solar.Engine
}

// Name implements the wbgt.Estimator interface.
func (e *Estimator) Name() string { return "bernard" }

// Estimate implements the wbgt.Estimator interface.
func (e *Estimator) Estimate(o *wbgt.Observation) (wbgt.Record, error) {
	eng := e.Engine
	if eng == nil {
		eng = solar.Almanac{}
	}
	g, err := solar.Parameters(eng, o.Time, o.Lat, o.Lon, o.Solar)
	if err != nil {
		return wbgt.Record{}, err
	}

	minSpeed := math.Max(o.MinSpeed, wbgt.MinSpeedFloor)
	speed := o.Speed
	if o.ZSpeed != wbgt.RefHeight {
		speed = wind.LogLaw(o.Speed, o.ZSpeed, wbgt.RefHeight, wind.DefaultRoughness)
	}
	speed = math.Max(speed, minSpeed)

	rec := wbgt.Record{
		SolarAdj: g.Solar,
		EstSpeed: speed,
		MinSpeed: minSpeed,
	}
	rec.Tg = GlobeTemperature(o.TAir+273.15, speed, g.Solar, g.Fdir, g.CosZenith)
	rec.Tpsy = PsychrometricWetBulb(o.TAir, o.TDew)
	rec.Tnwb = NaturalWetBulb(o.TAir, rec.Tpsy, rec.Tg, speed)
	rec.Twbg = wbgt.Index(o.TAir, rec.Tg, rec.Tnwb)
	return rec, nil
}

// GlobeTemperature calculates the globe temperature [degrees C] from
// the radiative energy balance
//
//	Tg^4 = Tair^4 + S/(2 sigma)*(1 + fdir*(1/(2 cza) - 1)) - h/sigma*(Tg - Tair)
//
// where h is the empirical forced/natural convection coefficient.
// Inputs are the air temperature tk [K], wind speed [m/s], adjusted
// solar irradiance [W/m2], direct beam fraction fdir, and cosine
// zenith angle cza. The balance is solved by damped fixed-point
// iteration; NaN is returned if the iteration does not converge.
func GlobeTemperature(tk, speed, solarIrr, fdir, cza float64) float64 {
	tprev := tk
	for i := 0; i < wbgt.MaxIter; i++ {
		h := convect.Bernard(tprev-273.15, tk-273.15, speed)
		sky := 1.0
		if fdir > 0 {
			sky = 1. + fdir*(1./(2.*cza)-1.)
		}
		tnew := math.Pow(
			math.Pow(tk, 4.)+solarIrr/(2.*wbgt.Sigma)*sky-h/wbgt.Sigma*(tprev-tk),
			0.25)
		if math.Abs(tnew-tprev) < wbgt.Convergence {
			return tnew - 273.15
		}
		tprev = 0.9*tprev + 0.1*tnew
	}
	return math.NaN()
}

// PsychrometricWetBulb calculates the psychrometric wet bulb
// temperature [degrees C] from the ambient and dew point
// temperatures [degrees C] using the closed-form relation of Bernard
// and Cross (1999).
func PsychrometricWetBulb(ta, td float64) float64 {
	ea := psychro.SatVaporPressure(td) / 10. // ambient vapor pressure [kPa]
	return 0.376 + 5.79*ea + (0.388-0.0465*ea)*ta
}

// factorC relates the psychrometric and natural wet bulb
// temperatures in the absence of radiant heat.
func factorC(speed float64) float64 {
	switch {
	case speed < 0.03:
		return 0.85
	case speed > 3.0:
		return 1.0
	default:
		return 0.96 + 0.069*math.Log10(speed)
	}
}

// factorE relates the psychrometric and natural wet bulb
// temperatures in the presence of radiant heat.
func factorE(speed float64) float64 {
	switch {
	case speed < 0.1:
		return 1.1
	case speed > 1.0:
		return -0.1
	default:
		return 0.1/math.Pow(speed, 1.1) - 0.2
	}
}

// NaturalWetBulb calculates the natural wet bulb temperature
// [degrees C] from the ambient, psychrometric wet bulb, and globe
// temperatures [degrees C] and the wind speed [m/s]. Radiant heat is
// taken into account when the globe temperature exceeds the ambient
// temperature by more than 4 degrees C. NaN in tg propagates to the
// result.
func NaturalWetBulb(ta, tpsy, tg, speed float64) float64 {
	if math.IsNaN(tg) {
		return math.NaN()
	}
	if tg-ta < 4.0 {
		return ta - factorC(speed)*(ta-tpsy)
	}
	return tpsy + 0.25*(tg-ta) + factorE(speed)
}
