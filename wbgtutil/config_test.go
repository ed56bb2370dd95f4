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

package wbgtutil

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lnashier/viper"

	"github.com/spatialmodel/wbgt"
	"github.com/spatialmodel/wbgt/bernard"
	"github.com/spatialmodel/wbgt/dimiceli"
	"github.com/spatialmodel/wbgt/liljegren"
	"github.com/spatialmodel/wbgt/ono"
)

func TestNewEstimator(t *testing.T) {
	cases := []struct {
		method string
		want   string
	}{
		{"", "liljegren"},
		{"liljegren", "liljegren"},
		{"bernard", "bernard"},
		{"dimiceli", "dimiceli"},
		{"ono", "ono"},
		{"Liljegren", "liljegren"}, // case-insensitive
	}
	for _, c := range cases {
		cfg := viper.New()
		cfg.Set("method", c.method)
		e, err := NewEstimator(cfg)
		if err != nil {
			t.Errorf("method %q: %v", c.method, err)
			continue
		}
		if e.Name() != c.want {
			t.Errorf("method %q: got estimator %q", c.method, e.Name())
		}
	}

	cfg := viper.New()
	cfg.Set("method", "brde")
	if _, err := NewEstimator(cfg); err == nil {
		t.Error("expected error for an invalid method")
	}
}

func TestNewEstimatorTypes(t *testing.T) {
	check := func(method string, want interface{}) {
		cfg := viper.New()
		cfg.Set("method", method)
		e, err := NewEstimator(cfg)
		if err != nil {
			t.Fatalf("method %q: %v", method, err)
		}
		switch want.(type) {
		case *liljegren.Estimator:
			if _, ok := e.(*liljegren.Estimator); !ok {
				t.Errorf("method %q: got %T", method, e)
			}
		case *bernard.Estimator:
			if _, ok := e.(*bernard.Estimator); !ok {
				t.Errorf("method %q: got %T", method, e)
			}
		case *dimiceli.Estimator:
			if _, ok := e.(*dimiceli.Estimator); !ok {
				t.Errorf("method %q: got %T", method, e)
			}
		case *ono.Estimator:
			if _, ok := e.(*ono.Estimator); !ok {
				t.Errorf("method %q: got %T", method, e)
			}
		}
	}
	check("liljegren", &liljegren.Estimator{})
	check("bernard", &bernard.Estimator{})
	check("dimiceli", &dimiceli.Estimator{})
	check("ono", &ono.Estimator{})
}

func TestNewEstimatorDimiceliVariants(t *testing.T) {
	cfg := viper.New()
	cfg.Set("method", "dimiceli")
	cfg.Set("WetBulbMethod", "stull")
	cfg.Set("NaturalWetBulbMethod", "boyer")
	cfg.Set("CHFC", 0.5)
	e, err := NewEstimator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	d, ok := e.(*dimiceli.Estimator)
	if !ok {
		t.Fatalf("got %T", e)
	}
	if d.WetBulb != dimiceli.WetBulbStull {
		t.Errorf("WetBulb = %d", d.WetBulb)
	}
	if d.Natural != dimiceli.NaturalBoyer {
		t.Errorf("Natural = %d", d.Natural)
	}
	if d.CHFC != 0.5 {
		t.Errorf("CHFC = %g", d.CHFC)
	}

	cfg.Set("WetBulbMethod", "liljegren")
	if _, err := NewEstimator(cfg); err == nil {
		t.Error("expected error for an invalid wet bulb method")
	}
	cfg.Set("WetBulbMethod", "stull")
	cfg.Set("NaturalWetBulbMethod", "bernard")
	if _, err := NewEstimator(cfg); err == nil {
		t.Error("expected error for an invalid natural wet bulb method")
	}
}

func TestNewEstimatorSolarEngine(t *testing.T) {
	cfg := viper.New()
	cfg.Set("SolarEngine", "spa")
	cfg.Set("SPA.DeltaT", 69.0)
	if _, err := NewEstimator(cfg); err != nil {
		t.Error(err)
	}
	cfg.Set("SolarEngine", "sundial")
	if _, err := NewEstimator(cfg); err == nil {
		t.Error("expected error for an invalid solar engine")
	}
}

func TestReadObservations(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "obs.csv")
	const data = `time,lat,lon,pressure,tair,tdew,speed,solar
2020-07-01T18:00:00Z,36.0,-97.5,1013,30,18.44,2,800
`
	if err := os.WriteFile(input, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	stationFile := filepath.Join(dir, "stations.toml")
	const stations = `
[[station]]
id = "KOKC"
lat = 35.39
lon = -97.6
urban = true
wind_height = 10.0
`
	if err := os.WriteFile(stationFile, []byte(stations), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := viper.New()
	cfg.Set("InputFile", input)
	cfg.Set("StationFile", stationFile)
	cfg.Set("Station", "KOKC")
	cfg.Set("GlobeDiameter", 0.15)
	cfg.Set("MinSpeed", 1.0)
	cfg.Set("AveragingMinutes", 60.0)
	obs, err := ReadObservations(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := obs.Check(); err != nil {
		t.Fatal(err)
	}
	o := obs.At(0)
	if o.Lat != 35.39 || o.Lon != -97.6 || !o.Urban || o.ZSpeed != 10 {
		t.Errorf("station metadata not applied: %+v", o)
	}
	if o.DGlobe != 0.15 {
		t.Errorf("DGlobe = %g, want 0.15", o.DGlobe)
	}
	if o.MinSpeed < 1 {
		t.Errorf("MinSpeed = %g, want at least 1", o.MinSpeed)
	}
	// The timestamp is centered in the hour-long averaging period.
	if o.Time.Minute() != 30 || o.Time.Hour() != 17 {
		t.Errorf("Time = %v, want 17:30", o.Time)
	}

	cfg.Set("Station", "XXXX")
	if _, err := ReadObservations(cfg); err == nil {
		t.Error("expected error for an unknown station")
	}
	cfg.Set("StationFile", "")
	cfg.Set("InputFile", "")
	if _, err := ReadObservations(cfg); err == nil {
		t.Error("expected error for a missing input file")
	}
}

func TestSummary(t *testing.T) {
	res := wbgt.NewResults(3)
	res.Twbg[0] = 28
	res.Twbg[1] = 30
	res.Twbg[2] = math.NaN()
	s := Summary("liljegren", res)
	for _, want := range []string{"liljegren", "3 observations", "(1 failed)",
		"mean 29.00", "min 28.00", "max 30.00"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q does not contain %q", s, want)
		}
	}

	none := wbgt.NewResults(1)
	none.Twbg[0] = math.NaN()
	if s := Summary("ono", none); !strings.Contains(s, "none converged") {
		t.Errorf("summary %q", s)
	}
}
