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

// Package psychro implements closed-form psychrometric property
// relations for moist air: saturation vapor pressure, dew point,
// transport properties, and wet-bulb temperature estimates.
package psychro

import "math"

// Physical constants.
const (
	// Cp is the specific heat of dry air at constant pressure [J/(kg K)].
	Cp = 1003.5
	// MAir and MH2O are the molar masses of dry air and water [g/mol].
	MAir = 28.97
	MH2O = 18.015
	// RGas is the universal gas constant [J/(kmol K)].
	RGas = 8314.34
	// RAir is the gas constant for dry air [J/(kg K)].
	RAir = RGas / MAir
	// Ratio converts between vapor pressure deficit and temperature
	// depression in the psychrometric equation.
	Ratio = Cp * MAir / MH2O
	// Prandtl is the Prandtl number of air.
	Prandtl = Cp / (Cp + 1.25*RAir)
)

// ESat calculates the saturation vapor pressure [hPa] over liquid
// water (ice == false) or ice (ice == true) at temperature tk [K],
// using Buck's (1981) approximation (eqn 3) of Wexler's (1976)
// formulae, with a correction factor for moist air.
func ESat(tk float64, ice bool) float64 {
	var es float64
	if ice {
		y := (tk - 273.15) / (tk - 0.6)
		es = 6.1115 * math.Exp(22.452*y)
	} else {
		y := (tk - 273.15) / (tk - 32.18)
		es = 6.1121 * math.Exp(17.502*y)
	}
	// Correction for moist air when pressure is not available;
	// valid for pressure > 800 hPa.
	return 1.004 * es
}

// DewPoint calculates the dew point (frost == false) or frost point
// (frost == true) temperature [K] from the vapor pressure e [hPa].
// It is the inverse of ESat.
func DewPoint(e float64, frost bool) float64 {
	if frost {
		z := math.Log(e / (6.1115 * 1.004))
		return 273.15 + 272.55*z/(22.452-z)
	}
	z := math.Log(e / (6.1121 * 1.004))
	return 273.15 + 240.97*z/(17.502-z)
}

// Viscosity calculates the dynamic viscosity of air [kg/(m s)] at
// temperature tk [K] from the Chapman-Enskog relation with
// Lennard-Jones parameters for air (Bird, Stewart, and Lightfoot,
// page 23).
func Viscosity(tk float64) float64 {
	const (
		sigma    = 3.617 // collision diameter [angstroms]
		epsKappa = 97.0  // Lennard-Jones energy parameter [K]
	)
	tr := tk / epsKappa
	omega := (tr-2.9)/0.4*(-0.034) + 1.048
	return 2.6693e-6 * math.Sqrt(MAir*tk) / (sigma * sigma * omega)
}

// ThermalCond calculates the thermal conductivity of air [W/(m K)]
// at temperature tk [K] (BSL, page 257).
func ThermalCond(tk float64) float64 {
	return (Cp + 1.25*RAir) * Viscosity(tk)
}

// Diffusivity calculates the diffusivity of water vapor in air
// [m2/s] at temperature tk [K] and pressure p [hPa]
// (BSL, page 505).
func Diffusivity(tk, p float64) float64 {
	const (
		pCritAir = 36.4
		pCritH2O = 218.0
		tCritAir = 132.0
		tCritH2O = 647.3
		a        = 3.640e-4
		b        = 2.334
	)
	pCrit13 := math.Pow(pCritAir*pCritH2O, 1./3.)
	tCrit512 := math.Pow(tCritAir*tCritH2O, 5./12.)
	tCrit12 := math.Sqrt(tCritAir * tCritH2O)
	mMix := math.Sqrt(1/MAir + 1/MH2O)
	pAtm := p / 1013.25
	return a * math.Pow(tk/tCrit12, b) * pCrit13 * tCrit512 * mMix / pAtm * 1e-4
}

// EvapHeat calculates the heat of evaporation of water [J/(kg K)]
// for temperatures in the range 283-313 K (Van Wylen and Sonntag,
// Table A.1.1).
func EvapHeat(tk float64) float64 {
	return (313.15-tk)/30.*(-71100.) + 2.4073e6
}

// EmisAtm calculates the atmospheric emissivity from temperature
// tk [K] and relative humidity fraction rh (Oke, 2nd edition,
// page 373).
func EmisAtm(tk, rh float64) float64 {
	e := rh * ESat(tk, false)
	return 0.575 * math.Pow(e, 0.143)
}

// SatVaporPressure calculates the saturation vapor pressure [hPa]
// at temperature tc [degrees C] using the Bolton (1980) formula.
func SatVaporPressure(tc float64) float64 {
	return 6.112 * math.Exp(17.67*tc/(tc+243.5))
}

// RelHumidity calculates the relative humidity fraction from the
// ambient temperature ta and dew point temperature td [degrees C] as
// the ratio of the saturation vapor pressures at the two temperatures.
func RelHumidity(ta, td float64) float64 {
	return SatVaporPressure(td) / SatVaporPressure(ta)
}

// VaporPressure calculates the atmospheric vapor pressure [hPa] from
// the ambient temperature ta and dew point temperature td [degrees C]
// and pressure p [hPa], combining the Bolton (1980) vapor pressure
// relation with the Buck (1981) enhancement factor for moist air and
// a differential scaling on the dew point depression. This is the
// form used in the Dimiceli and Piltz black-globe papers.
func VaporPressure(ta, td, p float64) float64 {
	return math.Exp(17.67*(td-ta)/(td+243.5)) *
		(1.0007 + 3.46e-6*p) *
		6.112 * math.Exp(17.502*ta/(240.97+ta))
}

// ThermalEmissivity calculates the atmospheric thermal emissivity
// from the ambient temperature ta and dew point temperature td
// [degrees C] and pressure p [hPa].
func ThermalEmissivity(ta, td, p float64) float64 {
	return 0.575 * math.Pow(VaporPressure(ta, td, p), 1./7.)
}
