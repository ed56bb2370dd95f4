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

package bernard

import (
	"math"
	"testing"
	"time"

	"github.com/spatialmodel/wbgt"
	"github.com/spatialmodel/wbgt/science/solar"
)

const testTolerance = 1.e-3

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestGlobeTemperature(t *testing.T) {
	tg := GlobeTemperature(303.15, 2, 800, 0.75, 0.9)
	if absDifferent(tg, 41.6608, testTolerance) {
		t.Errorf("daytime Tg = %g, want 41.6608", tg)
	}
}

func TestGlobeTemperatureNight(t *testing.T) {
	// With no solar load the balance has no longwave sky term, so the
	// globe equilibrates at exactly the air temperature.
	tg := GlobeTemperature(303.15, 2, 0, 0, -0.1)
	if absDifferent(tg, 30, testTolerance) {
		t.Errorf("nighttime Tg = %g, want 30", tg)
	}
}

func TestPsychrometricWetBulb(t *testing.T) {
	tpsy := PsychrometricWetBulb(30, 18.44)
	if absDifferent(tpsy, 21.3351, testTolerance) {
		t.Errorf("Tpsy = %g, want 21.3351", tpsy)
	}
	// Warmer dew points give higher wet bulbs.
	if PsychrometricWetBulb(30, 25) <= tpsy {
		t.Error("Tpsy not increasing with dew point")
	}
}

func TestNaturalWetBulb(t *testing.T) {
	// Strong radiant load (Tg - Ta > 4): the globe excess term and
	// the wind-dependent offset apply.
	tnwb := NaturalWetBulb(30, 21.3351, 41.6608, 2)
	if absDifferent(tnwb, 24.1503, testTolerance) {
		t.Errorf("radiant Tnwb = %g, want 24.1503", tnwb)
	}

	// Weak radiant load: the natural wet bulb interpolates between
	// the psychrometric wet bulb and the air temperature.
	tnwb = NaturalWetBulb(30, 21.3351, 32, 1)
	if absDifferent(tnwb, 21.6817, testTolerance) {
		t.Errorf("low-radiant Tnwb = %g, want 21.6817", tnwb)
	}

	// NaN in the globe temperature propagates.
	if !math.IsNaN(NaturalWetBulb(30, 21.3351, math.NaN(), 2)) {
		t.Error("NaN globe temperature did not propagate")
	}
}

func TestWindFactors(t *testing.T) {
	// The adjustment factors are piecewise in wind speed; check the
	// plateaus and the continuity of the middle segments at their
	// endcaps.
	if c := factorC(0.01); c != 0.85 {
		t.Errorf("factorC(0.01) = %g, want 0.85", c)
	}
	if c := factorC(5); c != 1.0 {
		t.Errorf("factorC(5) = %g, want 1", c)
	}
	if c := factorC(1); absDifferent(c, 0.96, 1.e-9) {
		t.Errorf("factorC(1) = %g, want 0.96", c)
	}
	if e := factorE(0.05); e != 1.1 {
		t.Errorf("factorE(0.05) = %g, want 1.1", e)
	}
	if e := factorE(2); e != -0.1 {
		t.Errorf("factorE(2) = %g, want -0.1", e)
	}
	if e := factorE(0.5); absDifferent(e, 0.0143547, 1.e-6) {
		t.Errorf("factorE(0.5) = %g, want 0.0143547", e)
	}
}

// fixedEngine reports the same solar position for every observation.
type fixedEngine solar.Position

func (f fixedEngine) Position(t time.Time, lat, lon float64) (solar.Position, error) {
	return solar.Position(f), nil
}

func TestEstimate(t *testing.T) {
	e := &Estimator{Engine: fixedEngine{CosZenith: 0.9, Distance: 1}}
	rec, err := e.Estimate(&wbgt.Observation{
		Time:     time.Date(2020, 7, 1, 18, 0, 0, 0, time.UTC),
		Lat:      36.0,
		Lon:      -97.5,
		Pressure: 1013,
		TAir:     30,
		TDew:     18.44,
		Speed:    2,
		ZSpeed:   wbgt.RefHeight,
		Solar:    800,
	})
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(rec.Tpsy, 21.3351, testTolerance) {
		t.Errorf("Tpsy = %g, want 21.3351", rec.Tpsy)
	}
	if absDifferent(rec.Twbg, wbgt.Index(30, rec.Tg, rec.Tnwb), 1.e-12) {
		t.Error("Twbg is not the weighted sum of its components")
	}
	if rec.Tg < 30 || rec.Tg > 50 {
		t.Errorf("Tg = %g out of range", rec.Tg)
	}

	// A 10 m wind measurement is halved by the logarithmic profile
	// with the default roughness length.
	o := &wbgt.Observation{
		Time:     time.Date(2020, 7, 1, 18, 0, 0, 0, time.UTC),
		Lat:      36.0,
		Lon:      -97.5,
		Pressure: 1013,
		TAir:     30,
		TDew:     18.44,
		Speed:    2,
		ZSpeed:   10,
		Solar:    800,
	}
	rec, err = e.Estimate(o)
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(rec.EstSpeed, 1, 1.e-9) {
		t.Errorf("EstSpeed = %g, want 1", rec.EstSpeed)
	}
}

func TestName(t *testing.T) {
	e := &Estimator{}
	if e.Name() != "bernard" {
		t.Errorf("Name() = %q", e.Name())
	}
}
