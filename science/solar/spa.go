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
	"math"
	"time"
)

// SPA computes the apparent position of the sun using the National
// Renewable Energy Laboratory Solar Position Algorithm (Reda and
// Andreas 2004), with a stated uncertainty of 0.0003 degrees in the
// years -2000 to 6000.
//
// The zero value uses the defaults from the reference WBGT driver:
// sea level, 1010 hPa, 10 degrees C, and zero ΔT (the difference
// between terrestrial and universal time).
type SPA struct {
	// DeltaT is TT-UT [seconds].
	DeltaT float64
	// Elevation is the observer elevation [m].
	Elevation float64
	// Pressure [hPa] and Temperature [degrees C] are annual averages
	// used for the refraction correction. Zero values select 1010 hPa
	// and 10 degrees C.
	Pressure    float64
	Temperature float64
	// AtmosRefract is the atmospheric refraction at sunrise and
	// sunset [degrees], used as the cutoff elevation below which no
	// refraction correction is applied.
	AtmosRefract float64
}

// Position implements the Engine interface. The time must be in UTC.
func (s SPA) Position(t time.Time, lat, lon float64) (Position, error) {
	if err := CheckCoords(lat, lon); err != nil {
		return Position{}, err
	}
	pressure := s.Pressure
	if pressure == 0 {
		pressure = 1010.0
	}
	temp := s.Temperature
	if temp == 0 {
		temp = 10.0
	}

	jd := julianDay(t)
	jde := jd + s.DeltaT/86400.
	jc := (jd - 2451545.) / 36525.
	jce := (jde - 2451545.) / 36525.
	jme := jce / 10.

	// Earth heliocentric coordinates.
	r := spaSum(jme, spaR0, spaR1, spaR2, spaR3, spaR4) / 1e8
	l := wrapDeg(radDeg * spaSum(jme, spaL0, spaL1, spaL2, spaL3, spaL4, spaL5) / 1e8)
	b := radDeg * spaSum(jme, spaB0, spaB1) / 1e8

	// Geocentric longitude and latitude.
	theta := wrapDeg(l + 180.)
	beta := -b

	deltaPsi, deltaEpsilon := nutation(jce)

	// True obliquity of the ecliptic.
	u := jme / 10.
	epsilon0 := 84381.448 + u*(-4680.93+u*(-1.55+u*(1999.25+u*(-51.38+
		u*(-249.67+u*(-39.05+u*(7.12+u*(27.87+u*(5.79+u*2.45)))))))))
	epsilon := epsilon0/3600. + deltaEpsilon

	// Aberration correction and apparent sun longitude.
	deltaTau := -20.4898 / (3600. * r)
	lam := theta + deltaPsi + deltaTau

	// Apparent sidereal time at Greenwich.
	nu0 := wrapDeg(280.46061837 + 360.98564736629*(jd-2451545.) +
		jc*jc*(0.000387933-jc/38710000.))
	nu := nu0 + deltaPsi*math.Cos(epsilon*degRad)

	// Geocentric sun right ascension and declination.
	lamR, epsR, betaR := lam*degRad, epsilon*degRad, beta*degRad
	alpha := wrapDeg(radDeg * math.Atan2(
		math.Sin(lamR)*math.Cos(epsR)-math.Tan(betaR)*math.Sin(epsR),
		math.Cos(lamR)))
	delta := math.Asin(math.Sin(betaR)*math.Cos(epsR) +
		math.Cos(betaR)*math.Sin(epsR)*math.Sin(lamR))

	// Topocentric corrections for observer parallax.
	h := wrapDeg(nu + lon - alpha)
	hR := h * degRad
	xi := 8.794 / (3600. * r) * degRad
	latR := lat * degRad
	uTerm := math.Atan(0.99664719 * math.Tan(latR))
	x := math.Cos(uTerm) + s.Elevation/6378140.*math.Cos(latR)
	y := 0.99664719*math.Sin(uTerm) + s.Elevation/6378140.*math.Sin(latR)

	deltaAlpha := math.Atan2(-x*math.Sin(xi)*math.Sin(hR),
		math.Cos(delta)-x*math.Sin(xi)*math.Cos(hR))
	deltaPrime := math.Atan2((math.Sin(delta)-y*math.Sin(xi))*math.Cos(deltaAlpha),
		math.Cos(delta)-x*math.Sin(xi)*math.Cos(hR))
	hPrime := hR - deltaAlpha

	// Topocentric elevation angle, without and with refraction.
	e0 := radDeg * math.Asin(math.Sin(latR)*math.Sin(deltaPrime)+
		math.Cos(latR)*math.Cos(deltaPrime)*math.Cos(hPrime))
	var deltaE float64
	if e0 >= -1.*(0.26667+s.AtmosRefract) {
		deltaE = (pressure / 1010.) * (283. / (273. + temp)) *
			1.02 / (60. * math.Tan((e0+10.3/(e0+5.11))*degRad))
	}
	zenith := 90. - (e0 + deltaE)

	return Position{
		CosZenith: math.Cos(zenith * degRad),
		Distance:  r,
	}, nil
}

// julianDay converts t to a Julian day number.
func julianDay(t time.Time) float64 {
	unix := float64(t.UTC().UnixNano()) / 1e9
	return unix/86400. + 2440587.5
}

// spaSum evaluates the polynomial-in-JME expansion of an Earth
// periodic term table set.
func spaSum(jme float64, tables ...[][3]float64) float64 {
	var total, pow float64
	pow = 1
	for _, table := range tables {
		var sum float64
		for _, row := range table {
			sum += row[0] * math.Cos(row[1]+row[2]*jme)
		}
		total += sum * pow
		pow *= jme
	}
	return total
}

// nutation calculates the nutation in longitude and obliquity
// [degrees] at the given Julian ephemeris century.
func nutation(jce float64) (deltaPsi, deltaEpsilon float64) {
	// Fundamental lunisolar arguments [degrees].
	x := [5]float64{
		297.85036 + jce*(445267.111480+jce*(-0.0019142+jce/189474.)),
		357.52772 + jce*(35999.050340+jce*(-0.0001603-jce/300000.)),
		134.96298 + jce*(477198.867398+jce*(0.0086972+jce/56250.)),
		93.27191 + jce*(483202.017538+jce*(-0.0036825+jce/327270.)),
		125.04452 + jce*(-1934.136261+jce*(0.0020708+jce/450000.)),
	}
	for _, row := range spaNutation {
		var arg float64
		for i := 0; i < 5; i++ {
			arg += x[i] * row[i]
		}
		arg *= degRad
		deltaPsi += (row[5] + row[6]*jce) * math.Sin(arg)
		deltaEpsilon += (row[7] + row[8]*jce) * math.Cos(arg)
	}
	// Coefficients are in 0.0001 arcseconds.
	deltaPsi /= 36000000.
	deltaEpsilon /= 36000000.
	return deltaPsi, deltaEpsilon
}

// wrapDeg returns the angle x [degrees] wrapped to [0, 360).
func wrapDeg(x float64) float64 {
	x = math.Mod(x, 360.)
	if x < 0 {
		x += 360.
	}
	return x
}
