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
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/spatialmodel/wbgt"
)

// A Server provides WBGT estimates over HTTP. The API accepts JSON
// batches of weather observations at POST /v1/wbgt and also serves
// /healthz and Prometheus metrics at /metrics.
type Server struct {
	estimator wbgt.Estimator
	router    *mux.Router

	Log logrus.FieldLogger

	registry      *prometheus.Registry
	requestsTotal *prometheus.CounterVec
	duration      prometheus.Histogram
	batchSize     prometheus.Histogram
	failuresTotal prometheus.Counter
}

// NewServer creates a server that answers requests with the given
// estimator. If log is nil the standard logger is used.
func NewServer(estimator wbgt.Estimator, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		estimator: estimator,
		Log:       log,
		registry:  prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wbgt_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"code"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wbgt_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		batchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wbgt_batch_size",
				Help:    "Number of observations per estimation request",
				Buckets: prometheus.ExponentialBuckets(1, 10, 6),
			},
		),
		failuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wbgt_nonconverged_total",
				Help: "Total number of observations whose solvers did not converge",
			},
		),
	}
	s.registry.MustRegister(s.requestsTotal, s.duration, s.batchSize, s.failuresTotal)

	s.router = mux.NewRouter()
	s.router.HandleFunc("/v1/wbgt", s.estimate).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	s.router.Handle("/metrics",
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
	}
	w.Header().Set("X-Request-ID", id)

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
	s.router.ServeHTTP(rec, r)
	elapsed := time.Since(start)

	s.requestsTotal.WithLabelValues(fmt.Sprint(rec.code)).Inc()
	s.duration.Observe(elapsed.Seconds())
	s.Log.WithFields(logrus.Fields{
		"id":       id,
		"url":      r.URL.String(),
		"addr":     r.RemoteAddr,
		"code":     rec.code,
		"duration": elapsed,
	}).Info("wbgtserve request")
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// A batchRequest is a JSON batch of observations. Each field is
// either one element, which applies to the whole batch, or one
// element per observation.
type batchRequest struct {
	Time      []time.Time `json:"time"`
	Lat       []float64   `json:"lat"`
	Lon       []float64   `json:"lon"`
	Pressure  []float64   `json:"pressure"`
	TAir      []float64   `json:"tair"`
	TDew      []float64   `json:"tdew,omitempty"`
	RH        []float64   `json:"rh,omitempty"`
	VaporPres []float64   `json:"vaporpres,omitempty"`
	Speed     []float64   `json:"speed"`
	ZSpeed    []float64   `json:"zspeed,omitempty"`
	DT        []float64   `json:"dt,omitempty"`
	Solar     []float64   `json:"solar"`
	Urban     []bool      `json:"urban,omitempty"`
}

// jsonFloat marshals NaN as null.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

type batchResponse struct {
	Method   string      `json:"method"`
	Tg       []jsonFloat `json:"tg"`
	Tnwb     []jsonFloat `json:"tnwb"`
	Tpsy     []jsonFloat `json:"tpsy"`
	Twbg     []jsonFloat `json:"twbg"`
	SolarAdj []jsonFloat `json:"solar_adj"`
	EstSpeed []jsonFloat `json:"est_speed"`
	MinSpeed []jsonFloat `json:"min_speed"`
	Failures int         `json:"failures"`
}

func jsonFloats(v []float64) []jsonFloat {
	out := make([]jsonFloat, len(v))
	for i, x := range v {
		out[i] = jsonFloat(x)
	}
	return out
}

func (s *Server) estimate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("wbgt: decoding request: %v", err))
		return
	}
	obs := &wbgt.Observations{
		Time:      req.Time,
		Lat:       req.Lat,
		Lon:       req.Lon,
		Pressure:  req.Pressure,
		TAir:      req.TAir,
		TDew:      req.TDew,
		RH:        req.RH,
		VaporPres: req.VaporPres,
		Speed:     req.Speed,
		ZSpeed:    req.ZSpeed,
		DT:        req.DT,
		Solar:     req.Solar,
		Urban:     req.Urban,
	}
	res, err := wbgt.Run(s.estimator, obs)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.batchSize.Observe(float64(res.Len()))
	s.failuresTotal.Add(float64(res.Failures()))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(batchResponse{
		Method:   s.estimator.Name(),
		Tg:       jsonFloats(res.Tg),
		Tnwb:     jsonFloats(res.Tnwb),
		Tpsy:     jsonFloats(res.Tpsy),
		Twbg:     jsonFloats(res.Twbg),
		SolarAdj: jsonFloats(res.SolarAdj),
		EstSpeed: jsonFloats(res.EstSpeed),
		MinSpeed: jsonFloats(res.MinSpeed),
		Failures: res.Failures(),
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"method":  s.estimator.Name(),
		"version": wbgt.Version,
	})
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
