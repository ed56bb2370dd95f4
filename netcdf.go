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

package wbgt

import (
	"fmt"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// NetCDFNames maps batch fields to the variable names used in a
// weather record file. Empty entries are skipped; time is required
// and is interpreted as seconds since the Unix epoch.
type NetCDFNames struct {
	Time      string
	Lat       string
	Lon       string
	Pressure  string
	TAir      string
	TDew      string
	RH        string
	VaporPres string
	Speed     string
	ZSpeed    string
	DT        string
	Solar     string
}

// DefaultNetCDFNames are the variable names written by the reference
// station processing scripts.
func DefaultNetCDFNames() NetCDFNames {
	return NetCDFNames{
		Time:     "time",
		Lat:      "lat",
		Lon:      "lon",
		Pressure: "pres",
		TAir:     "tair",
		TDew:     "tdew",
		Speed:    "wspd",
		ZSpeed:   "zspeed",
		Solar:    "solar",
	}
}

// ReadNetCDF reads a batch of observations from a NetCDF file of
// one-dimensional time series variables.
func ReadNetCDF(filename string, names NetCDFNames) (*Observations, error) {
	ff, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("wbgt: opening netcdf file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("wbgt: parsing netcdf file %s: %v", filename, err)
	}

	if names.Time == "" {
		return nil, fmt.Errorf("wbgt: netcdf time variable name is required")
	}
	tdat, err := readNCFVar(f, names.Time)
	if err != nil {
		return nil, fmt.Errorf("wbgt: reading %s from %s: %v", names.Time, filename, err)
	}
	obs := new(Observations)
	obs.Time = make([]time.Time, len(tdat.Elements))
	for i, v := range tdat.Elements {
		sec := int64(v)
		nsec := int64((v - float64(sec)) * 1e9)
		obs.Time[i] = time.Unix(sec, nsec).UTC()
	}

	for _, v := range []struct {
		dst  *[]float64
		name string
	}{
		{&obs.Lat, names.Lat},
		{&obs.Lon, names.Lon},
		{&obs.Pressure, names.Pressure},
		{&obs.TAir, names.TAir},
		{&obs.TDew, names.TDew},
		{&obs.RH, names.RH},
		{&obs.VaporPres, names.VaporPres},
		{&obs.Speed, names.Speed},
		{&obs.ZSpeed, names.ZSpeed},
		{&obs.DT, names.DT},
		{&obs.Solar, names.Solar},
	} {
		if v.name == "" {
			continue
		}
		dat, err := readNCFVar(f, v.name)
		if err != nil {
			return nil, fmt.Errorf("wbgt: reading %s from %s: %v", v.name, filename, err)
		}
		*v.dst = dat.Elements
	}
	return obs, nil
}

// readNCFVar reads a whole variable into a dense array, converting
// from whichever numeric type the file stores it as.
func readNCFVar(f *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("no variable %s", name)
	}
	nread := 1
	for _, d := range dims {
		nread *= d
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	dat := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float64:
		copy(dat.Elements, b)
	case []float32:
		for i, v := range b {
			dat.Elements[i] = float64(v)
		}
	case []int32:
		for i, v := range b {
			dat.Elements[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("variable %s has unsupported type %T", name, buf)
	}
	return dat, nil
}
