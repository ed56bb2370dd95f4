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

// Package wind extrapolates wind speed measurements to the 2-meter
// reference height, either with the EPA stability-class power law or
// with a logarithmic profile.
package wind

import "math"

// RefHeight is the reference measurement height [m] for WBGT wind
// speeds.
const RefHeight = 2.0

// Power-law exponents indexed by stability class (EPA-454/5-99-005,
// 2000, section 6.2.5).
var (
	urbanExp = [6]float64{0.15, 0.15, 0.20, 0.25, 0.30, 0.30}
	ruralExp = [6]float64{0.07, 0.07, 0.10, 0.15, 0.35, 0.55}
)

// Stability class lookup keyed by wind speed bracket (rows) and
// insolation or temperature-gradient bracket (columns); columns 0-3
// are daytime solar brackets and columns 5-6 nighttime temperature
// gradient signs (EPA-454/5-99-005, 2000, section 6.2.5).
var srdt = [6][8]int{
	{1, 1, 2, 4, 0, 5, 6, 0},
	{1, 2, 3, 4, 0, 5, 6, 0},
	{2, 2, 3, 4, 0, 4, 4, 0},
	{3, 3, 4, 4, 0, 0, 0, 0},
	{3, 4, 4, 4, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

// StabilityClass estimates the atmospheric stability class (1-6,
// A-F) using the solar radiation delta-T method. During daytime the
// class is keyed by wind speed [m/s] and solar irradiance [W/m2];
// at night it is keyed by wind speed and the sign of the vertical
// temperature difference dT [degrees C, upper minus lower].
func StabilityClass(daytime bool, speed, solar, dT float64) int {
	var i, j int
	if daytime {
		switch {
		case solar >= 925.0:
			j = 0
		case solar >= 675.0:
			j = 1
		case solar >= 175.0:
			j = 2
		default:
			j = 3
		}
		switch {
		case speed >= 6.0:
			i = 4
		case speed >= 5.0:
			i = 3
		case speed >= 3.0:
			i = 2
		case speed >= 2.0:
			i = 1
		}
	} else {
		if dT >= 0.0 {
			j = 6
		} else {
			j = 5
		}
		switch {
		case speed >= 2.5:
			i = 2
		case speed >= 2.0:
			i = 1
		}
	}
	return srdt[i][j]
}

// PowerLaw extrapolates a wind speed [m/s] measured at height
// zspeed [m] to the reference height using the power-law profile
// with the exponent selected by stability class and land use, and
// floors the result at minSpeed.
func PowerLaw(speed, zspeed float64, class int, urban bool, minSpeed float64) float64 {
	var exponent float64
	if urban {
		exponent = urbanExp[class-1]
	} else {
		exponent = ruralExp[class-1]
	}
	est := speed * math.Pow(RefHeight/zspeed, exponent)
	return math.Max(est, minSpeed)
}

// DefaultRoughness is the default roughness length [m] for the
// logarithmic wind profile.
const DefaultRoughness = 0.4

// LogLaw extrapolates a wind speed [m/s] measured at height
// zspeed [m] to height znew [m] using a logarithmic profile with
// roughness length z0 [m]. It is the simpler adjustment used by the
// algorithm families that do not classify stability.
func LogLaw(speed, zspeed, znew, z0 float64) float64 {
	return speed * math.Log(znew/z0) / math.Log(zspeed/z0)
}
