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

// Package wbgtutil holds the configuration and command-line
// interface for the WBGT heat-stress estimator.
package wbgtutil

import (
	"fmt"
	"net/http"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/wbgt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to WBGT.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "method",
			usage: `
              method selects the algorithm family used to estimate the
              wet bulb globe temperature. Options are liljegren (the
              physically-based iterative energy-balance model), bernard,
              dimiceli, and ono.`,
			shorthand:  "m",
			defaultVal: "liljegren",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "SolarEngine",
			usage: `
              SolarEngine selects the astronomical algorithm used to
              calculate solar positions. Options are almanac (the
              Astronomical Almanac low-precision formulae, valid
              1950-2049) and spa (the NREL Solar Position Algorithm).`,
			defaultVal: "almanac",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "SPA.DeltaT",
			usage: `
              SPA.DeltaT is the difference between terrestrial time and
              universal time in seconds, used by the spa solar engine.`,
			defaultVal: 69.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "WetBulbMethod",
			usage: `
              WetBulbMethod selects the psychrometric wet bulb formula
              for the dimiceli method. Options are dimiceli and stull.`,
			defaultVal: "dimiceli",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "NaturalWetBulbMethod",
			usage: `
              NaturalWetBulbMethod selects the natural wet bulb
              regression for the dimiceli method. Options are
              hunter_minyard, malchaire, and boyer.`,
			defaultVal: "hunter_minyard",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "CHFC",
			usage: `
              CHFC is the convective heat flow coefficient for the
              dimiceli method. Zero selects the published default
              (0.315).`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "GlobeDiameter",
			usage: `
              GlobeDiameter is the globe thermometer diameter [m] for the
              liljegren method. The standard globe is 0.0508 m (2 in).`,
			defaultVal: wbgt.DiamGlobe,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "MinSpeed",
			usage: `
              MinSpeed is the minimum usable wind speed [m/s]. Estimated
              2-meter wind speeds below this value are raised to it. The
              effective floor is never lower than the algorithm hard
              minimums.`,
			defaultVal: wbgt.DefaultMinSpeed,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the weather observation file to
              process.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "InputFormat",
			usage: `
              InputFormat is the format of the input file. Options are
              csv and netcdf.`,
			defaultVal: "csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the results will be written in
              CSV format. If empty, only summary statistics are printed.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TimeFormat",
			usage: `
              TimeFormat is the Go reference-time layout of the time
              column in CSV input files. If empty, RFC 3339 is assumed.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Fahrenheit",
			usage: `
              Fahrenheit indicates that temperatures in the input file
              are in degrees Fahrenheit rather than degrees Celsius.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MilesPerHour",
			usage: `
              MilesPerHour indicates that wind speeds in the input file
              are in miles per hour rather than meters per second.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StationFile",
			usage: `
              StationFile is the path to a TOML file holding weather
              station metadata (location, anemometer height, urban flag).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Station",
			usage: `
              Station is the ID of the station in StationFile that the
              observations in InputFile were recorded at.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "AveragingMinutes",
			usage: `
              AveragingMinutes is the averaging period of the input
              observations in minutes. Timestamps are shifted to the
              middle of each averaging interval before solar positions
              are calculated.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ServeAddress",
			usage: `
              ServeAddress is the address for the HTTP server to listen
              on.`,
			defaultVal: ":8080",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("WBGT")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(serveCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Printf(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("wbgt: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "wbgt",
	Short: "A heat-stress estimator.",
	Long: `WBGT estimates the wet bulb globe temperature, a composite heat-stress
index, from standard meteorological observations.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'WBGT_var' where
'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of WBGT.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("WBGT v%s\n", wbgt.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Estimate WBGT for a file of weather observations.",
	Long: `run reads a file of weather observations, estimates the wet bulb globe
temperature for every observation using the selected algorithm family, writes
the results to the output file, and prints summary statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outChan := outChan()

		est, err := NewEstimator(Cfg)
		if err != nil {
			return err
		}
		obs, err := ReadObservations(Cfg)
		if err != nil {
			return err
		}
		res, err := wbgt.Run(est, obs)
		if err != nil {
			return err
		}
		if out := Cfg.GetString("OutputFile"); out != "" {
			if err := WriteResults(out, obs, res); err != nil {
				return err
			}
		}
		outChan <- Summary(est.Name(), res)
		return nil
	},
	DisableAutoGenTag: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve WBGT estimates over HTTP.",
	Long: `serve starts an HTTP server providing wet bulb globe temperature
estimates for JSON batches of weather observations, along with health and
metrics endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		est, err := NewEstimator(Cfg)
		if err != nil {
			return err
		}
		s := NewServer(est, logrus.StandardLogger())
		addr := Cfg.GetString("ServeAddress")
		s.Log.WithFields(logrus.Fields{
			"addr":   addr,
			"method": est.Name(),
		}).Info("wbgtserve starting")
		return http.ListenAndServe(addr, s)
	},
	DisableAutoGenTag: true,
}
