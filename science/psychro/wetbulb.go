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

package psychro

import "math"

// Stull calculates the psychrometric wet-bulb temperature [degrees C]
// from the ambient temperature ta [degrees C] and relative humidity
// rh [percent].
//
// Stull, R. (2011): Wet-Bulb Temperature from Relative Humidity and
// Air Temperature. Journal of Applied Meteorology and Climatology
// 50(11), 2267-2269.
func Stull(ta, rh float64) float64 {
	return ta*math.Atan(0.151977*math.Sqrt(rh+8.313659)) +
		math.Atan(ta+rh) - math.Atan(rh-1.676331) +
		0.00391838*math.Pow(rh, 1.5)*math.Atan(0.023101*rh) -
		4.686035
}

// DimiceliWetBulb calculates the psychrometric wet-bulb temperature
// [degrees C] from the ambient temperature ta [degrees C] and
// relative humidity rh [percent] using the polynomial fit that
// appears at the bottom of Dimiceli and Piltz, "Estimation of Black
// Globe Temperature for Calculation of the WBGT Index".
func DimiceliWetBulb(ta, rh float64) float64 {
	return -5.806 + 0.672*ta - 0.006*ta*ta +
		(0.061+0.004*ta+99.0e-6*ta*ta)*rh +
		(-33.0e-6-5.0e-6*ta-1.0e-7*ta*ta)*rh*rh
}

// Newton solves the psychrometric wet-bulb temperature from dry-bulb
// temperature, dew point temperature, and pressure alone, with no
// radiative or wind context. The zero default values select a
// tolerance of 0.02 degrees and a maximum of 25 iterations.
type Newton struct {
	Tol     float64 // convergence tolerance [K]
	MaxIter int
}

// Saturation vapor pressure in the exponential form
// es = exp(c0 - c1*T - c2/T) [hPa], T in Kelvin, and its analytic
// derivative. From the Smithsonian Meteorological Tables as used in
// the USAF Skew-T reference (AWS/TR-79/006).
const (
	wetBulbC0 = 26.66082
	wetBulbC1 = 0.0091379024
	wetBulbC2 = 6106.396
)

func esExp(tk float64) float64 {
	return math.Exp(wetBulbC0 - wetBulbC1*tk - wetBulbC2/tk)
}

// WetBulb calculates the wet-bulb temperature [K] from the dry-bulb
// temperature ta [K], dew point temperature td [K], and pressure
// p [hPa] by Newton iteration on the Iribarne and Godson (1981)
// psychrometric balance
//
//	es(Tw) - e = f*p*(Ta - Tw)
//
// where f is the psychrometer coefficient. It returns NaN if the
// iteration does not converge.
func (n Newton) WetBulb(ta, td, p float64) float64 {
	tol := n.Tol
	if tol == 0 {
		tol = 0.02
	}
	maxIter := n.MaxIter
	if maxIter == 0 {
		maxIter = 25
	}

	e := esExp(td)

	// Seeding at the dry-bulb temperature makes saturated air
	// (td == ta) converge on the first step.
	tw := ta
	for i := 0; i < maxIter; i++ {
		// Psychrometer coefficient [1/K]; the weak temperature
		// dependence is held constant within each Newton step.
		f := 6.6e-4 * (1 + 0.00115*(tw-273.15))
		ew := esExp(tw)
		delta := (f*p*(ta-tw) - (ew - e)) /
			(ew*(wetBulbC1-wetBulbC2/(tw*tw)) - f*p)
		tw -= delta
		if math.Abs(delta) < tol {
			return tw
		}
	}
	return math.NaN()
}
