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

// Package dimiceli predicts the wet bulb globe temperature with the
// closed-form method of Dimiceli and Piltz (NWS Tulsa), "Estimation
// of Black Globe Temperature for Calculation of the WBGT Index",
// including the updates from the NDFD WBGT description document by
// Boyer. No iteration is involved: the globe temperature comes from
// an algebraic energy balance and the natural wet bulb from one of
// three regression formulas.
package dimiceli

import (
	"math"

	"github.com/spatialmodel/wbgt"
	"github.com/spatialmodel/wbgt/science/convect"
	"github.com/spatialmodel/wbgt/science/psychro"
	"github.com/spatialmodel/wbgt/science/solar"
	"github.com/spatialmodel/wbgt/science/wind"
)

// MinSpeed is the hard minimum 2-meter wind speed [m/s] for the
// globe temperature formula (1690 m/h).
const MinSpeed = 1690.0 / 3600.0

// A WetBulbMethod selects the psychrometric wet bulb formula.
type WetBulbMethod int

const (
	// WetBulbDimiceli is the polynomial from the Dimiceli and
	// Piltz paper.
	WetBulbDimiceli WetBulbMethod = iota
	// WetBulbStull is the Stull (2011) formula.
	WetBulbStull
)

// A NaturalMethod selects the natural wet bulb regression.
type NaturalMethod int

const (
	// NaturalHunterMinyard uses the Hunter and Minyard (1999)
	// regression on direct solar irradiance and wind speed.
	NaturalHunterMinyard NaturalMethod = iota
	// NaturalMalchaire uses the Malchaire (1976) relation on
	// globe and ambient temperature and relative humidity.
	NaturalMalchaire
	// NaturalBoyer uses the regression from the NDFD WBGT
	// description document.
	NaturalBoyer
)

// An Estimator predicts wet bulb globe temperature using the
// Dimiceli method. The zero value is ready to use with the default
// formula choices.
type Estimator struct {
	// Engine calculates solar positions; nil selects
	// solar.Almanac.
	Engine solar.Engine
	// WetBulb selects the psychrometric wet bulb formula.
	WetBulb WetBulbMethod
	// Natural selects the natural wet bulb regression.
	Natural NaturalMethod
	// CHFC is the convective heat flow coefficient; zero selects
	// the published default.
	CHFC float64
}

// Name implements the wbgt.Estimator interface.
func (e *Estimator) Name() string { return "dimiceli" }

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

	minSpeed := math.Max(o.MinSpeed, MinSpeed)
	speed := o.Speed
	if o.ZSpeed != wbgt.RefHeight {
		speed = wind.LogLaw(o.Speed, o.ZSpeed, wbgt.RefHeight, wind.DefaultRoughness)
	}
	speed = math.Max(speed, minSpeed)

	chfc := e.CHFC
	if chfc == 0 {
		chfc = convect.DimiceliCoeff
	}

	rec := wbgt.Record{
		SolarAdj: g.Solar,
		EstSpeed: speed,
		MinSpeed: minSpeed,
	}
	rec.Tg = GlobeTemperature(o.TAir, o.TDew, o.Pressure, speed*3600., g.Solar, g.Fdir, g.CosZenith, chfc)

	rh := psychro.RelHumidity(o.TAir, o.TDew) * 100.
	switch e.WetBulb {
	case WetBulbStull:
		rec.Tpsy = psychro.Stull(o.TAir, rh)
	default:
		rec.Tpsy = psychro.DimiceliWetBulb(o.TAir, rh)
	}

	switch e.Natural {
	case NaturalMalchaire:
		rec.Tnwb = Malchaire(o.TAir, rh/100., rec.Tpsy, rec.Tg)
	case NaturalBoyer:
		rec.Tnwb = Boyer(o.TAir, rec.Tpsy, g.Solar*g.Fdir, speed)
	default:
		rec.Tnwb = HunterMinyard(rec.Tpsy, g.Solar*g.Fdir, speed)
	}
	rec.Twbg = wbgt.Index(o.TAir, rec.Tg, rec.Tnwb)
	return rec, nil
}

// factorB collects the radiative terms of the globe energy balance.
// Temperatures are in degrees C, pressure in hPa, and irradiance in
// W/m2.
func factorB(ta, td, p, solarIrr, fdir, cza float64) float64 {
	fdif := 1.0 - fdir
	return solarIrr*(fdir/(4.*wbgt.Sigma*cza)+1.2*fdif/wbgt.Sigma) +
		psychro.ThermalEmissivity(ta, td, p)*math.Pow(ta, 4.)
}

// factorC collects the convective terms of the globe energy balance.
// The wind speed is in meters per hour.
func factorC(speedMH, chfc float64) float64 {
	return chfc * math.Pow(speedMH, 0.58) / 5.3865e-8
}

// GlobeTemperature calculates the globe temperature [degrees C] from
// the closed-form energy balance of Dimiceli and Piltz. Inputs are
// the ambient and dew point temperatures [degrees C], pressure
// [hPa], 2-meter wind speed in meters per hour (floored at
// MinSpeed), adjusted solar irradiance [W/m2], direct beam fraction
// fdir, cosine zenith angle cza, and convective heat flow
// coefficient chfc.
func GlobeTemperature(ta, td, p, speedMH, solarIrr, fdir, cza, chfc float64) float64 {
	// The formula divides by cza; with the sun down the adjusted
	// irradiance and beam fraction are zero and the radiative
	// forcing reduces to the thermal term.
	b := factorB(ta, td, p, solarIrr, fdir, math.Max(cza, solar.CZAMin))
	c := factorC(speedMH, chfc)
	return (b + c*ta + 7.68e6) / (c + 2.56e5)
}

// HunterMinyard calculates the natural wet bulb temperature
// [degrees C] from the psychrometric wet bulb temperature
// [degrees C], the direct solar irradiance [W/m2], and the 2-meter
// wind speed [m/s], using the Hunter and Minyard (1999) regression
// with the coefficients as corrected in the Boyer paper.
func HunterMinyard(tpsy, dirSolar, speed float64) float64 {
	return tpsy + 0.0021*dirSolar - 0.43*speed + 1.93
}

// Malchaire calculates the natural wet bulb temperature [degrees C]
// from the ambient temperature [degrees C], relative humidity
// fraction, psychrometric wet bulb temperature, and globe
// temperature [degrees C] (Malchaire 1976).
func Malchaire(ta, rh, tpsy, tg float64) float64 {
	return (0.16*(tg-ta)+0.8)/200.*(560.-2.*rh-5.*ta) - 0.8 + tpsy
}

// Boyer calculates the natural wet bulb temperature [degrees C] from
// the ambient and psychrometric wet bulb temperatures [degrees C],
// the direct solar irradiance [W/m2], and the 2-meter wind speed
// [m/s], using the regression from the NDFD WBGT description
// document.
func Boyer(ta, tpsy, dirSolar, speed float64) float64 {
	return tpsy + 0.001651*dirSolar - 0.09555*speed +
		0.13235*(ta-tpsy) + 0.20249
}
