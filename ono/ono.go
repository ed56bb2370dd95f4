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

// Package ono predicts the wet bulb globe temperature with the
// regression of Ono and Tonouchi (2012). The component globe and wet
// bulb temperatures are not modeled; only the composite index is
// produced, with the components reported as NaN.
package ono

import (
	"math"

	"github.com/spatialmodel/wbgt"
	"github.com/spatialmodel/wbgt/science/psychro"
)

// An Estimator predicts wet bulb globe temperature using the Ono and
// Tonouchi regression. The zero value is ready to use.
type Estimator struct{}

// Name implements the wbgt.Estimator interface.
func (e *Estimator) Name() string { return "ono" }

// Estimate implements the wbgt.Estimator interface. The regression
// operates on the raw observations; no solar geometry or wind
// adjustment is involved.
func (e *Estimator) Estimate(o *wbgt.Observation) (wbgt.Record, error) {
	rh := psychro.RelHumidity(o.TAir, o.TDew) * 100.
	kw := o.Solar / 1000. // regression takes irradiance in kW/m2

	rec := wbgt.Record{
		Tg:       math.NaN(),
		Tnwb:     math.NaN(),
		Tpsy:     math.NaN(),
		SolarAdj: o.Solar,
		EstSpeed: o.Speed,
		MinSpeed: o.MinSpeed,
	}
	rec.Twbg = 0.735*o.TAir +
		0.0374*rh +
		0.00292*o.TAir*rh +
		7.619*kw -
		4.557*kw*kw -
		0.0572*o.Speed -
		4.064
	return rec, nil
}
