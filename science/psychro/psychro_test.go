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

import (
	"math"
	"testing"
)

const testTolerance = 1.e-3

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestESat(t *testing.T) {
	// Buck (1981) values times the 1.004 moist air factor.
	cases := []struct {
		tk   float64
		ice  bool
		want float64
	}{
		{273.15, false, 6.1365484},
		{290.0, false, 19.2616765},
		{303.15, false, 42.6048338},
		{263.15, true, 2.6091196},
	}
	for _, c := range cases {
		if es := ESat(c.tk, c.ice); absDifferent(es, c.want, 1.e-6) {
			t.Errorf("ESat(%g, %v) = %g, want %g", c.tk, c.ice, es, c.want)
		}
	}
}

func TestDewPointInvertsESat(t *testing.T) {
	for _, tk := range []float64{250, 273.15, 290, 303.15, 313} {
		if td := DewPoint(ESat(tk, false), false); absDifferent(td, tk, 1.e-6) {
			t.Errorf("DewPoint(ESat(%g)) = %g", tk, td)
		}
	}
	if tf := DewPoint(ESat(263.15, true), true); absDifferent(tf, 263.15, 1.e-6) {
		t.Errorf("frost point round trip: got %g", tf)
	}
}

func TestTransportProperties(t *testing.T) {
	if mu := Viscosity(300); absDifferent(mu, 1.8438189e-5, 1.e-11) {
		t.Errorf("Viscosity(300) = %g", mu)
	}
	if k := ThermalCond(300); absDifferent(k, 0.0251174, 1.e-6) {
		t.Errorf("ThermalCond(300) = %g", k)
	}
	// Diffusivity of water vapor in air at 25 degrees C is tabulated
	// as about 2.6e-5 m2/s.
	if dif := Diffusivity(298.15, 1013.25); dif < 2.3e-5 || dif > 2.9e-5 {
		t.Errorf("Diffusivity(298.15, 1013.25) = %g", dif)
	}
	if hv := EvapHeat(300); absDifferent(hv, 2.3761345e6, 1.) {
		t.Errorf("EvapHeat(300) = %g", hv)
	}
	if e := EmisAtm(303.15, 0.5); absDifferent(e, 0.8904985, 1.e-6) {
		t.Errorf("EmisAtm(303.15, 0.5) = %g", e)
	}
}

func TestRelHumidity(t *testing.T) {
	if es := SatVaporPressure(30); absDifferent(es, 42.4557544, 1.e-6) {
		t.Errorf("SatVaporPressure(30) = %g", es)
	}
	if rh := RelHumidity(30, 30); absDifferent(rh, 1.0, 1.e-12) {
		t.Errorf("saturated RelHumidity = %g", rh)
	}
	if rh := RelHumidity(30, 18.44); absDifferent(rh, 0.4994343, 1.e-6) {
		t.Errorf("RelHumidity(30, 18.44) = %g", rh)
	}
}

func TestVaporPressure(t *testing.T) {
	if e := VaporPressure(30, 18.44, 1013); absDifferent(e, 19.5375596, 1.e-6) {
		t.Errorf("VaporPressure(30, 18.44, 1013) = %g", e)
	}
	if e := ThermalEmissivity(30, 18.44, 1013); absDifferent(e, 0.8791802, 1.e-6) {
		t.Errorf("ThermalEmissivity(30, 18.44, 1013) = %g", e)
	}
}

func TestStull(t *testing.T) {
	// Example from the abstract of Stull (2011): Ta = 20 degrees C
	// and RH = 50% give Tw of about 13.7 degrees C.
	if tw := Stull(20, 50); absDifferent(tw, 13.699342, 1.e-5) {
		t.Errorf("Stull(20, 50) = %g", tw)
	}
}

func TestDimiceliWetBulb(t *testing.T) {
	if tw := DimiceliWetBulb(30, 49.9434278); absDifferent(tw, 21.7627634, 1.e-5) {
		t.Errorf("DimiceliWetBulb(30, 49.94) = %g", tw)
	}
}

func TestNewtonWetBulb(t *testing.T) {
	var n Newton
	cases := []struct {
		ta, td, p float64
		want      float64
	}{
		{303.15, 291.59, 1013, 295.2643448},
		{278.15, 263.15, 900, 272.8828238},
	}
	for _, c := range cases {
		if tw := n.WetBulb(c.ta, c.td, c.p); absDifferent(tw, c.want, testTolerance) {
			t.Errorf("WetBulb(%g, %g, %g) = %g, want %g", c.ta, c.td, c.p, tw, c.want)
		}
	}
}

func TestNewtonWetBulbSaturated(t *testing.T) {
	// Saturated air: the wet bulb equals the dry bulb exactly and the
	// solver must converge on the first step.
	var n Newton
	if tw := n.WetBulb(303.15, 303.15, 1013); absDifferent(tw, 303.15, 1.e-9) {
		t.Errorf("saturated WetBulb = %g", tw)
	}
}

func TestNewtonWetBulbNonConvergence(t *testing.T) {
	n := Newton{Tol: 1.e-300, MaxIter: 2}
	if tw := n.WetBulb(303.15, 291.59, 1013); !math.IsNaN(tw) {
		t.Errorf("expected NaN for non-convergence, got %g", tw)
	}
}
