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

// Package liljegren predicts the wet bulb globe temperature with
// the physically-based model of Liljegren et al. (2008), "Modeling
// the wet bulb globe temperature using standard meteorological
// measurements", JOEH 5:645-655. The globe and natural wet bulb
// temperatures are found by iteratively solving the
// radiative-convective (and, for the wick, evaporative) energy
// balances of the sensors.
package liljegren

import (
	"math"

	"github.com/spatialmodel/wbgt"
	"github.com/spatialmodel/wbgt/science/convect"
	"github.com/spatialmodel/wbgt/science/psychro"
	"github.com/spatialmodel/wbgt/science/solar"
	"github.com/spatialmodel/wbgt/science/wind"
)

// An Estimator predicts wet bulb globe temperature using the
// Liljegren energy-balance model. The zero value is ready to use and
// computes solar positions with the Astronomical Almanac algorithm.
type Estimator struct {
	// Engine calculates solar positions; nil selects
	// solar.Almanac.
	Engine solar.Engine
}

// Name implements the wbgt.Estimator interface.
func (e *Estimator) Name() string { return "liljegren" }

// Estimate implements the wbgt.Estimator interface. An error is
// returned only for invalid coordinates or times; observations whose
// energy balances fail to converge get NaN component temperatures.
func (e *Estimator) Estimate(o *wbgt.Observation) (wbgt.Record, error) {
	eng := e.Engine
	if eng == nil {
		eng = solar.Almanac{}
	}
	g, err := solar.Parameters(eng, o.Time, o.Lat, o.Lon, o.Solar)
	if err != nil {
		return wbgt.Record{}, err
	}

	tk := o.TAir + 273.15
	rh := psychro.ESat(o.TDew+273.15, false) / psychro.ESat(tk, false)

	minSpeed := math.Max(o.MinSpeed, wbgt.MinSpeedFloor)
	speed := o.Speed
	if o.ZSpeed != wbgt.RefHeight {
		class := wind.StabilityClass(g.CosZenith > 0, o.Speed, g.Solar, o.DT)
		speed = wind.PowerLaw(o.Speed, o.ZSpeed, class, o.Urban, minSpeed)
	} else {
		speed = math.Max(speed, minSpeed)
	}

	diam := o.DGlobe
	if diam == 0 {
		diam = wbgt.DiamGlobe
	}

	rec := wbgt.Record{
		SolarAdj: g.Solar,
		EstSpeed: speed,
		MinSpeed: minSpeed,
	}
	rec.Tg = GlobeTemperature(tk, rh, o.Pressure, speed, g.Solar, g.Fdir, g.CosZenith, diam)
	rec.Tnwb = WetBulb(tk, rh, o.Pressure, speed, g.Solar, g.Fdir, g.CosZenith, true)
	rec.Tpsy = WetBulb(tk, rh, o.Pressure, speed, g.Solar, g.Fdir, g.CosZenith, false)
	rec.Twbg = wbgt.Index(o.TAir, rec.Tg, rec.Tnwb)
	return rec, nil
}

// GlobeTemperature calculates the globe temperature [degrees C] by
// solving the energy balance between incoming long and short wave
// radiation and convective heat transfer for a globe of the given
// diameter [m]. Inputs are the air temperature tk [K], relative
// humidity fraction rh, barometric pressure p [hPa], wind speed
// [m/s], adjusted solar irradiance [W/m2], direct beam fraction
// fdir, and cosine zenith angle cza. The balance is solved by damped
// fixed-point iteration with air properties evaluated at the mean of
// the air and previous globe temperatures; NaN is returned if the
// iteration does not converge.
func GlobeTemperature(tk, rh, p, speed, solarIrr, fdir, cza, diam float64) float64 {
	tsfc := tk // surface temperature is assumed equal to air temperature
	tprev := tk
	for i := 0; i < wbgt.MaxIter; i++ {
		tref := 0.5 * (tprev + tk)
		h := convect.Sphere(diam, tref, p, speed)
		sky := fdir * (1./(2.*cza) - 1.)
		if fdir == 0 {
			sky = 0
		}
		tnew := math.Pow(
			0.5*(psychro.EmisAtm(tk, rh)*math.Pow(tk, 4.)+wbgt.EmisSfc*math.Pow(tsfc, 4.))-
				h/(wbgt.Sigma*wbgt.EmisGlobe)*(tprev-tk)+
				solarIrr/(2.*wbgt.Sigma*wbgt.EmisGlobe)*(1.-wbgt.AlbGlobe)*(sky+1.+wbgt.AlbSfc),
			0.25)
		if math.Abs(tnew-tprev) < wbgt.Convergence {
			return tnew - 273.15
		}
		tprev = 0.9*tprev + 0.1*tnew
	}
	return math.NaN()
}

// WetBulb calculates the natural (rad == true) or psychrometric
// (rad == false) wet bulb temperature [degrees C] by solving the
// evaporative-convective energy balance of a wetted wick, including
// the radiative terms when rad is set. Inputs are as for
// GlobeTemperature. The balance is solved by damped fixed-point
// iteration seeded at the dew point; NaN is returned if the
// iteration does not converge.
func WetBulb(tk, rh, p, speed, solarIrr, fdir, cza float64, rad bool) float64 {
	tsfc := tk
	eair := rh * psychro.ESat(tk, false)
	tdew := psychro.DewPoint(eair, false)

	// Fraction of the solar irradiance striking the wick,
	// accounting for the cylindrical geometry.
	sr := 0.
	if solarIrr > 0 {
		ratio := 0.25 * wbgt.DiamWick / wbgt.LenWick
		sr = (1.-fdir)*(1.+ratio) +
			fdir*(math.Tan(math.Acos(cza))/math.Pi+ratio) +
			wbgt.AlbSfc
	}

	tprev := tdew
	for i := 0; i < wbgt.MaxIter; i++ {
		tref := 0.5 * (tprev + tk)
		h := convect.Cylinder(wbgt.DiamWick, wbgt.LenWick, tref, p, speed)
		fatm := wbgt.Sigma*wbgt.EmisWick*
			(0.5*(psychro.EmisAtm(tk, rh)*math.Pow(tk, 4.)+wbgt.EmisSfc*math.Pow(tsfc, 4.))-
				math.Pow(tprev, 4.)) +
			(1.-wbgt.AlbWick)*solarIrr*sr
		ewick := psychro.ESat(tprev, false)
		density := p * 100. / (psychro.RAir * tref)
		sc := psychro.Viscosity(tref) / (density * psychro.Diffusivity(tref, p))
		tnew := tk - psychro.EvapHeat(tref)/psychro.Ratio*
			(ewick-eair)/(p-ewick)*
			math.Pow(psychro.Prandtl/sc, 0.56)
		if rad {
			tnew += fatm / h
		}
		if math.Abs(tnew-tprev) < wbgt.Convergence {
			return tnew - 273.15
		}
		tprev = 0.9*tprev + 0.1*tnew
	}
	return math.NaN()
}
