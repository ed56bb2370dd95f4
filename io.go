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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/unit/badunit"
)

// CSVOptions controls how a weather record file is interpreted.
type CSVOptions struct {
	// TimeFormat is the layout of the time column; empty selects
	// RFC 3339.
	TimeFormat string
	// Fahrenheit indicates that the temperature columns are in
	// degrees F rather than degrees C.
	Fahrenheit bool
	// MilesPerHour indicates that the wind speed column is in mi/h
	// rather than m/s.
	MilesPerHour bool
}

// csvColumns lists the recognized header names. Column order is
// free; unrecognized columns are ignored.
var csvColumns = []string{"time", "lat", "lon", "pressure", "tair",
	"tdew", "rh", "vaporpres", "speed", "zspeed", "dt", "solar", "urban"}

// ReadCSV reads a batch of observations from a headed CSV stream.
// Required columns are time, lat, lon, pressure, tair, speed, solar,
// and at least one of tdew, rh, and vaporpres; zspeed, dt, and urban
// are optional.
func ReadCSV(r io.Reader, opts CSVOptions) (*Observations, error) {
	layout := opts.TimeFormat
	if layout == "" {
		layout = time.RFC3339
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("wbgt: reading csv header: %v", err)
	}
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, c := range csvColumns {
			if h == c {
				cols[c] = i
			}
		}
	}

	temp := func(v float64) float64 {
		if opts.Fahrenheit {
			return badunit.Fahrenheit(v).Value() - 273.15
		}
		return v
	}
	// Temperature differences scale without the freezing-point offset.
	dtemp := func(v float64) float64 {
		if opts.Fahrenheit {
			return v * 5. / 9.
		}
		return v
	}
	wind := func(v float64) float64 {
		if opts.MilesPerHour {
			return badunit.MilePerHour(v).Value()
		}
		return v
	}

	obs := new(Observations)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wbgt: reading csv: %v", err)
		}
		line++

		appendField := func(dst *[]float64, name string, conv func(float64) float64) error {
			i, ok := cols[name]
			if !ok || rec[i] == "" {
				return nil
			}
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return fmt.Errorf("wbgt: csv line %d, column %s: %v", line, name, err)
			}
			if conv != nil {
				v = conv(v)
			}
			*dst = append(*dst, v)
			return nil
		}

		if i, ok := cols["time"]; ok {
			t, err := time.Parse(layout, rec[i])
			if err != nil {
				return nil, fmt.Errorf("wbgt: csv line %d: %v", line, err)
			}
			obs.Time = append(obs.Time, t.UTC())
		}
		for _, f := range []struct {
			dst  *[]float64
			name string
			conv func(float64) float64
		}{
			{&obs.Lat, "lat", nil},
			{&obs.Lon, "lon", nil},
			{&obs.Pressure, "pressure", nil},
			{&obs.TAir, "tair", temp},
			{&obs.TDew, "tdew", temp},
			{&obs.RH, "rh", nil},
			{&obs.VaporPres, "vaporpres", nil},
			{&obs.Speed, "speed", wind},
			{&obs.ZSpeed, "zspeed", nil},
			{&obs.DT, "dt", dtemp},
			{&obs.Solar, "solar", nil},
		} {
			if err := appendField(f.dst, f.name, f.conv); err != nil {
				return nil, err
			}
		}
		if i, ok := cols["urban"]; ok && rec[i] != "" {
			b, err := strconv.ParseBool(rec[i])
			if err != nil {
				return nil, fmt.Errorf("wbgt: csv line %d, column urban: %v", line, err)
			}
			obs.Urban = append(obs.Urban, b)
		}
	}
	return obs, nil
}

// WriteCSV writes a result set alongside the timestamps of the batch
// that produced it. NaN outputs are written as empty fields.
func WriteCSV(w io.Writer, obs *Observations, res *Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "tg", "tnwb", "tpsy", "twbg",
		"solar_adj", "est_speed", "min_speed"}); err != nil {
		return fmt.Errorf("wbgt: writing csv: %v", err)
	}
	f := func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	for i := 0; i < res.Len(); i++ {
		t := obs.Time[0]
		if len(obs.Time) > 1 {
			t = obs.Time[i]
		}
		if err := cw.Write([]string{
			t.Format(time.RFC3339),
			f(res.Tg[i]), f(res.Tnwb[i]), f(res.Tpsy[i]), f(res.Twbg[i]),
			f(res.SolarAdj[i]), f(res.EstSpeed[i]), f(res.MinSpeed[i]),
		}); err != nil {
			return fmt.Errorf("wbgt: writing csv: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// A Station holds the fixed site metadata that weather record files
// usually omit.
type Station struct {
	ID    string
	Name  string
	Lat   float64
	Lon   float64
	Urban bool
	// ZSpeed is the anemometer height [m].
	ZSpeed float64 `toml:"wind_height"`
}

type stationFile struct {
	Station []Station
}

// ReadStations reads station metadata from a TOML file containing
// [[station]] tables, keyed by station ID.
func ReadStations(filename string) (map[string]Station, error) {
	var f stationFile
	if _, err := toml.DecodeFile(filename, &f); err != nil {
		return nil, fmt.Errorf("wbgt: reading stations from %s: %v", filename, err)
	}
	stations := make(map[string]Station)
	for _, s := range f.Station {
		if s.ID == "" {
			return nil, fmt.Errorf("wbgt: station %q in %s has no id", s.Name, filename)
		}
		if _, ok := stations[s.ID]; ok {
			return nil, fmt.Errorf("wbgt: duplicate station id %s in %s", s.ID, filename)
		}
		stations[s.ID] = s
	}
	return stations, nil
}

// ApplyStation fills the location fields of the batch from station
// metadata, overriding any location columns in the record file.
func (obs *Observations) ApplyStation(s Station) {
	obs.Lat = []float64{s.Lat}
	obs.Lon = []float64{s.Lon}
	obs.Urban = []bool{s.Urban}
	if s.ZSpeed > 0 {
		obs.ZSpeed = []float64{s.ZSpeed}
	}
}
