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

package solar

import (
	"fmt"
	"math"
	"time"
)

// Almanac computes the apparent position of the sun with the low
// precision formulae for the Sun's coordinates given in the
// Astronomical Almanac of 1990, which state a precision of 0.01
// degree between the years 1950 and 2050. Refraction is calculated
// for standard atmosphere pressure and temperature at sea level and
// added to the solar altitude.
type Almanac struct{}

// Position implements the Engine interface. The time must be in UTC.
func (Almanac) Position(t time.Time, lat, lon float64) (Position, error) {
	if err := CheckCoords(lat, lon); err != nil {
		return Position{}, err
	}
	t = t.UTC()
	year := t.Year()
	if year < 1950 || year > 2049 {
		return Position{}, fmt.Errorf("solar: year %d outside almanac ephemeris range [1950, 2049]", year)
	}

	const (
		pressure = 1013.25 // mean sea level pressure [hPa]
		temp     = 15.0    // mean sea level temperature [degrees C]
	)

	// Days since J2000 (2000 January 1.5) at 0h UT of date, and UT
	// hours since midnight.
	deltaYears := year - 2000
	deltaDays := deltaYears*365 + deltaYears/4 + t.YearDay()
	if year > 2000 {
		deltaDays++
	}
	daysJ2000 := float64(deltaDays) - 1.5
	centJ2000 := daysJ2000 / 36525.0
	ut := float64(t.Hour()) + float64(t.Minute())/60. + float64(t.Second())/3600. +
		float64(t.Nanosecond())/3600.e9
	daysJ2000 += ut / 24.

	// Solar coordinates (A. A. 1990, C24).
	meanAnomaly := wrap2Pi((357.528 + 0.9856003*daysJ2000) * degRad)
	meanLongitude := wrap2Pi((280.460 + 0.9856474*daysJ2000) * degRad)
	meanObliquity := (23.439 - 4.0e-7*daysJ2000) * degRad
	eclipticLong := (1.915*math.Sin(meanAnomaly)+
		0.020*math.Sin(2*meanAnomaly))*degRad + meanLongitude

	distance := 1.00014 - 0.01671*math.Cos(meanAnomaly) -
		0.00014*math.Cos(2*meanAnomaly)

	apRA := math.Atan2(math.Cos(meanObliquity)*math.Sin(eclipticLong),
		math.Cos(eclipticLong))
	if apRA < 0 {
		apRA += 2 * math.Pi
	}
	apRA = apRA / (2 * math.Pi) * 24. // hours
	apDec := math.Asin(math.Sin(meanObliquity) * math.Sin(eclipticLong))

	// Local mean sidereal time (A. A. 1990, B6-B7).
	gmst0h := 24110.54841 + centJ2000*(8640184.812866+centJ2000*
		(0.093104-centJ2000*6.2e-6))
	gmst0h = math.Mod(gmst0h/3600., 24.)
	if gmst0h < 0 {
		gmst0h += 24.
	}
	lmst := math.Mod(gmst0h+ut*1.00273790934+lon/15., 24.)
	if lmst < 0 {
		lmst += 24.
	}

	// Local hour angle in the range -12 to 12 hours.
	localHA := lmst - apRA
	if localHA < -12 {
		localHA += 24.
	} else if localHA > 12 {
		localHA -= 24.
	}
	localHA = localHA / 24. * 2 * math.Pi

	latr := lat * degRad
	altitude := math.Asin(math.Sin(apDec)*math.Sin(latr) +
		math.Cos(apDec)*math.Cos(localHA)*math.Cos(latr))

	// Avoid tangent overflow at altitudes of +-90 degrees.
	var tanAlt float64
	if math.Abs(altitude) < 1.57079615 {
		tanAlt = math.Tan(altitude)
	} else {
		tanAlt = 6.0e6
	}
	altitude *= radDeg

	// Refraction correction (A. A. 1990, B61-B62), smooth across the
	// 19.225 degree crossover of the two published equations, added
	// to the altitude to obtain the apparent position.
	var refraction float64
	switch {
	case altitude < -1.0 || tanAlt == 6.0e6:
		refraction = 0
	case altitude < 19.225:
		refraction = (0.1594 + altitude*(0.0196+0.00002*altitude)) * pressure /
			((1.0 + altitude*(0.505+0.0845*altitude)) * (273.0 + temp))
	default:
		refraction = 0.00452 * (pressure / (273.0 + temp)) / tanAlt
	}
	altitude += refraction

	return Position{
		CosZenith: math.Cos((90. - altitude) * degRad),
		Distance:  distance,
	}, nil
}

// wrap2Pi returns the angle x [radians] wrapped to [0, 2 pi).
func wrap2Pi(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}
