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

// Package convect implements convective heat-transfer coefficient
// correlations for the sensor geometries used in WBGT estimation: a
// sphere (black globe) and a cylinder (wet-bulb wick) in cross flow,
// plus the empirical correlations used by the Bernard and Dimiceli
// algorithm families.
package convect

import (
	"math"

	"github.com/spatialmodel/wbgt/science/psychro"
)

// Bedingfield and Drew correlation parameters.
const (
	bdA = 0.56
	bdB = 0.281
	bdC = 0.4
)

// Sphere calculates the convective heat transfer coefficient
// [W/(m2 K)] for flow around a sphere of the given diameter [m] at
// air temperature tk [K], pressure p [hPa], and wind speed [m/s]
// (Bird, Stewart, and Lightfoot, page 409).
func Sphere(diameter, tk, p, speed float64) float64 {
	density := p * 100. / (psychro.RAir * tk)
	re := speed * density * diameter / psychro.Viscosity(tk)
	nu := 2.0 + 0.6*math.Sqrt(re)*math.Pow(psychro.Prandtl, 0.3333)
	return nu * psychro.ThermalCond(tk) / diameter
}

// Cylinder calculates the convective heat transfer coefficient
// [W/(m2 K)] for a long cylinder in cross flow with the given
// diameter and length [m] at air temperature tk [K], pressure
// p [hPa], and wind speed [m/s] (Bedingfield and Drew, eqn 32).
func Cylinder(diameter, length, tk, p, speed float64) float64 {
	density := p * 100. / (psychro.RAir * tk)
	re := speed * density * diameter / psychro.Viscosity(tk)
	nu := bdB * math.Pow(re, 1.-bdC) * math.Pow(psychro.Prandtl, 1.-bdA)
	return nu * psychro.ThermalCond(tk) / diameter
}

// Bernard calculates the convective heat transfer coefficient for a
// globe as the cubic combination of forced and natural convection
// terms (Bernard and Pourmoghani 1999, eqn 5). Temperatures are in
// degrees C and speed in m/s.
func Bernard(tg, ta, speed float64) float64 {
	forced := math.Pow(10.9*math.Pow(speed, 0.566), 3.)
	// The natural convection term is driven by the globe-air
	// temperature difference; a globe colder than the air
	// contributes no buoyant convection.
	natural := math.Pow(0.35+1.77*math.Pow(math.Max(tg-ta, 0), 0.25), 3.)
	return math.Pow(forced+natural, 1./3.)
}

// DimiceliCoeff is the default convective heat flow coefficient for
// the Dimiceli globe temperature estimate, from the NWS Tulsa WBGT
// paper by Dimiceli and Piltz.
const DimiceliCoeff = 0.315
