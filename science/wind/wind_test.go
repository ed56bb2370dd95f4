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

package wind

import (
	"math"
	"testing"
)

const testTolerance = 1.e-8

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestStabilityClass(t *testing.T) {
	cases := []struct {
		daytime            bool
		speed, solar, dT   float64
		want               int
	}{
		// Sunny and calm: very unstable.
		{true, 1, 1000, 0, 1},
		// Sunny and windy: slightly unstable.
		{true, 7, 1000, 0, 4},
		// Weak sun, moderate wind.
		{true, 3.5, 400, 0, 3},
		// Overcast daytime.
		{true, 1, 100, 0, 4},
		// Clear calm night with an inversion: very stable.
		{false, 1, 0, 1, 6},
		// Calm night without an inversion.
		{false, 1, 0, -1, 5},
		// Windy night: near neutral.
		{false, 3, 0, 1, 4},
	}
	for _, c := range cases {
		if class := StabilityClass(c.daytime, c.speed, c.solar, c.dT); class != c.want {
			t.Errorf("StabilityClass(%v, %g, %g, %g) = %d, want %d",
				c.daytime, c.speed, c.solar, c.dT, class, c.want)
		}
	}
}

func TestPowerLaw(t *testing.T) {
	// 10 m to 2 m with class A exponents.
	if s := PowerLaw(2, 10, 1, false, 0); absDifferent(s, 2*0.8934537987672422, testTolerance) {
		t.Errorf("rural PowerLaw = %g", s)
	}
	if s := PowerLaw(2, 10, 5, true, 0); absDifferent(s, 2*0.6170338627200097, testTolerance) {
		t.Errorf("urban PowerLaw = %g", s)
	}
	// Measurements already at the reference height pass through.
	if s := PowerLaw(3, RefHeight, 4, false, 0); absDifferent(s, 3, testTolerance) {
		t.Errorf("reference-height PowerLaw = %g", s)
	}
	// The floor applies after extrapolation.
	if s := PowerLaw(0.1, 10, 6, false, 1); s != 1 {
		t.Errorf("PowerLaw floor: got %g", s)
	}
}

func TestLogLaw(t *testing.T) {
	// With z0 = 0.4 m, ln(2/0.4)/ln(10/0.4) is exactly 1/2.
	if s := LogLaw(2, 10, 2, DefaultRoughness); absDifferent(s, 1, testTolerance) {
		t.Errorf("LogLaw(2, 10, 2, 0.4) = %g", s)
	}
	// No adjustment when measurement and target heights agree.
	if s := LogLaw(5, 2, 2, DefaultRoughness); absDifferent(s, 5, testTolerance) {
		t.Errorf("LogLaw at equal heights = %g", s)
	}
}
