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

// Package solar computes the position of the sun and partitions a
// measured solar irradiance into direct-beam and diffuse components.
//
// Two interchangeable position engines are provided: Almanac, a
// closed-form low-precision ephemeris valid 1950-2049, and SPA, the
// NREL Solar Position Algorithm valid over several millennia. Both
// produce a cosine solar zenith angle and the Earth-Sun distance,
// from which Parameters derives a quality-adjusted irradiance
// consistent with the theoretical top-of-atmosphere bound.
package solar

import (
	"fmt"
	"math"
	"time"
)

// Computational and physical limits.
const (
	// Const is the solar constant [W/m2].
	Const = 1367.0
	// CZAMin is the cosine zenith angle below which the sun is
	// treated as below the horizon.
	CZAMin = 0.00873
	// NormSolarMax is the maximum allowed ratio of measured to
	// top-of-atmosphere irradiance.
	NormSolarMax = 0.85
)

const (
	degRad = math.Pi / 180.
	radDeg = 180. / math.Pi
)

// Position is the output of a position engine.
type Position struct {
	CosZenith float64 // cosine of the solar zenith angle [-1, 1]
	Distance  float64 // Earth-Sun distance [AU]
}

// An Engine computes the position of the sun at a time and place.
type Engine interface {
	Position(t time.Time, lat, lon float64) (Position, error)
}

// Geometry holds the solar geometry and adjusted irradiance for one
// observation.
type Geometry struct {
	CosZenith float64 // cosine of the solar zenith angle
	Fdir      float64 // fraction of irradiance due to the direct beam [0, 0.9]
	Solar     float64 // quality-adjusted solar irradiance [W/m2]
}

// CheckCoords returns an error if the given latitude or longitude
// [degrees; north and east positive] is out of range.
func CheckCoords(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("solar: latitude %g out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("solar: longitude %g out of range [-180, 180]", lon)
	}
	return nil
}

// Parameters calculates the cosine solar zenith angle, the
// direct-beam fraction, and the quality-adjusted solar irradiance
// for time t (UTC) at the given location, using engine e for the
// solar position. The raw irradiance measurement solar [W/m2] is
// clamped to be consistent with the top-of-atmosphere irradiance;
// when the sun is not fully above the horizon both the adjusted
// irradiance and the direct-beam fraction are zero.
func Parameters(e Engine, t time.Time, lat, lon, solar float64) (Geometry, error) {
	pos, err := e.Position(t, lat, lon)
	if err != nil {
		return Geometry{}, err
	}
	g := Geometry{CosZenith: pos.CosZenith}

	toa := Const * math.Max(0, pos.CosZenith) / (pos.Distance * pos.Distance)
	if pos.CosZenith < CZAMin {
		toa = 0
	}
	if toa <= 0 {
		return g, nil
	}

	// Account for sensor calibration errors by bounding the
	// normalized irradiance, and make the reported irradiance
	// consistent with the bound.
	normsolar := math.Min(solar/toa, NormSolarMax)
	g.Solar = normsolar * toa
	if normsolar > 0 {
		fdir := math.Exp(3. - 1.34*normsolar - 1.65/normsolar)
		g.Fdir = math.Max(math.Min(fdir, 0.9), 0.0)
	}
	return g, nil
}
