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
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/spatialmodel/wbgt"
	"github.com/spatialmodel/wbgt/bernard"
	"github.com/spatialmodel/wbgt/dimiceli"
	"github.com/spatialmodel/wbgt/liljegren"
	"github.com/spatialmodel/wbgt/ono"
	"github.com/spatialmodel/wbgt/science/solar"
)

// solarEngine builds the solar position engine named by the
// configuration.
func solarEngine(cfg *viper.Viper) (solar.Engine, error) {
	name := strings.ToLower(cast.ToString(cfg.Get("SolarEngine")))
	switch name {
	case "", "almanac":
		return solar.Almanac{}, nil
	case "spa":
		return solar.SPA{DeltaT: cast.ToFloat64(cfg.Get("SPA.DeltaT"))}, nil
	default:
		return nil, fmt.Errorf("wbgt: invalid SolarEngine %q; options are almanac and spa", name)
	}
}

// NewEstimator builds the estimator specified by the configuration.
// The algorithm family and its formula variants are resolved here,
// once, so that an invalid name fails before any data is read.
func NewEstimator(cfg *viper.Viper) (wbgt.Estimator, error) {
	eng, err := solarEngine(cfg)
	if err != nil {
		return nil, err
	}
	method := strings.ToLower(cast.ToString(cfg.Get("method")))
	switch method {
	case "", "liljegren":
		return &liljegren.Estimator{Engine: eng}, nil
	case "bernard":
		return &bernard.Estimator{Engine: eng}, nil
	case "dimiceli":
		e := &dimiceli.Estimator{
			Engine: eng,
			CHFC:   cast.ToFloat64(cfg.Get("CHFC")),
		}
		switch wb := strings.ToLower(cast.ToString(cfg.Get("WetBulbMethod"))); wb {
		case "", "dimiceli":
			e.WetBulb = dimiceli.WetBulbDimiceli
		case "stull":
			e.WetBulb = dimiceli.WetBulbStull
		default:
			return nil, fmt.Errorf("wbgt: invalid WetBulbMethod %q; options are dimiceli and stull", wb)
		}
		switch nwb := strings.ToLower(cast.ToString(cfg.Get("NaturalWetBulbMethod"))); nwb {
		case "", "hunter_minyard":
			e.Natural = dimiceli.NaturalHunterMinyard
		case "malchaire":
			e.Natural = dimiceli.NaturalMalchaire
		case "boyer":
			e.Natural = dimiceli.NaturalBoyer
		default:
			return nil, fmt.Errorf("wbgt: invalid NaturalWetBulbMethod %q; options are hunter_minyard, malchaire, and boyer", nwb)
		}
		return e, nil
	case "ono":
		return &ono.Estimator{}, nil
	default:
		return nil, fmt.Errorf("wbgt: invalid method %q; options are liljegren, bernard, dimiceli, and ono", method)
	}
}

// ReadObservations reads the observation batch specified by the
// configuration and applies station metadata, globe diameter,
// minimum speed, and averaging-period settings to it.
func ReadObservations(cfg *viper.Viper) (*wbgt.Observations, error) {
	input := cast.ToString(cfg.Get("InputFile"))
	if input == "" {
		return nil, fmt.Errorf("wbgt: no InputFile specified")
	}

	var obs *wbgt.Observations
	switch format := strings.ToLower(cast.ToString(cfg.Get("InputFormat"))); format {
	case "", "csv":
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("wbgt: opening input file: %v", err)
		}
		defer f.Close()
		obs, err = wbgt.ReadCSV(f, wbgt.CSVOptions{
			TimeFormat:   cast.ToString(cfg.Get("TimeFormat")),
			Fahrenheit:   cast.ToBool(cfg.Get("Fahrenheit")),
			MilesPerHour: cast.ToBool(cfg.Get("MilesPerHour")),
		})
		if err != nil {
			return nil, err
		}
	case "netcdf":
		var err error
		obs, err = wbgt.ReadNetCDF(input, wbgt.DefaultNetCDFNames())
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("wbgt: invalid InputFormat %q; options are csv and netcdf", format)
	}

	if stationFile := cast.ToString(cfg.Get("StationFile")); stationFile != "" {
		stations, err := wbgt.ReadStations(stationFile)
		if err != nil {
			return nil, err
		}
		id := cast.ToString(cfg.Get("Station"))
		station, ok := stations[id]
		if !ok {
			return nil, fmt.Errorf("wbgt: station %q is not in %s", id, stationFile)
		}
		obs.ApplyStation(station)
	}

	obs.DGlobe = cast.ToFloat64(cfg.Get("GlobeDiameter"))
	obs.MinSpeed = cast.ToFloat64(cfg.Get("MinSpeed"))
	if avg := cast.ToFloat64(cfg.Get("AveragingMinutes")); avg > 0 {
		obs.CenterTimes(time.Duration(avg * float64(time.Minute)))
	}
	return obs, nil
}

// WriteResults writes the results to a CSV file.
func WriteResults(filename string, obs *wbgt.Observations, res *wbgt.Results) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("wbgt: creating output file: %v", err)
	}
	defer f.Close()
	return wbgt.WriteCSV(f, obs, res)
}

// Summary formats summary statistics for a result set.
func Summary(method string, res *wbgt.Results) string {
	vals := make([]float64, 0, res.Len())
	for _, v := range res.Twbg {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return fmt.Sprintf("%s: %d observations, none converged\n", method, res.Len())
	}
	mean, std := stat.MeanStdDev(vals, nil)
	return fmt.Sprintf(
		"%s: %d observations (%d failed)\nTwbg [degC]: mean %.2f, std %.2f, min %.2f, max %.2f\n",
		method, res.Len(), res.Failures(),
		mean, std, floats.Min(vals), floats.Max(vals))
}
