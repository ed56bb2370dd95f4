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
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/spatialmodel/wbgt"
	"github.com/spatialmodel/wbgt/ono"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewServer(&ono.Estimator{}, log)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

const batchJSON = `{
	"time": ["2020-07-01T18:00:00Z"],
	"lat": [36.0],
	"lon": [-97.5],
	"pressure": [1013],
	"tair": [30, 31],
	"tdew": [18.44],
	"speed": [2],
	"solar": [800]
}`

func TestServerEstimate(t *testing.T) {
	_, ts := testServer(t)
	resp, err := http.Post(ts.URL+"/v1/wbgt", "application/json",
		strings.NewReader(batchJSON))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-ID"); id == "" {
		t.Error("no X-Request-ID header")
	}

	var got struct {
		Method   string     `json:"method"`
		Tg       []*float64 `json:"tg"`
		Twbg     []*float64 `json:"twbg"`
		Failures int        `json:"failures"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Method != "ono" {
		t.Errorf("method = %q", got.Method)
	}
	if len(got.Twbg) != 2 {
		t.Fatalf("got %d results, want 2", len(got.Twbg))
	}
	if got.Twbg[0] == nil || math.Abs(*got.Twbg[0]-27.2932) > 1.e-3 {
		t.Errorf("twbg[0] = %v, want 27.2932", got.Twbg[0])
	}
	// The regression has no globe temperature; NaN must arrive as
	// JSON null.
	if got.Tg[0] != nil {
		t.Errorf("tg[0] = %v, want null", *got.Tg[0])
	}
	if got.Failures != 0 {
		t.Errorf("failures = %d", got.Failures)
	}
}

func TestServerEstimateErrors(t *testing.T) {
	_, ts := testServer(t)

	// Malformed JSON.
	resp, err := http.Post(ts.URL+"/v1/wbgt", "application/json",
		strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed JSON: status = %d", resp.StatusCode)
	}

	// A batch that fails validation.
	resp, err = http.Post(ts.URL+"/v1/wbgt", "application/json",
		strings.NewReader(`{"tair": [30]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid batch: status = %d", resp.StatusCode)
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatal(err)
	}
	if e.Error == "" {
		t.Error("no error message in response")
	}

	// Only POST is routed.
	resp, err = http.Get(ts.URL + "/v1/wbgt")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Error("GET /v1/wbgt should not be routed")
	}
}

func TestServerHealth(t *testing.T) {
	_, ts := testServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" || got["method"] != "ono" || got["version"] != wbgt.Version {
		t.Errorf("health = %v", got)
	}
}

func TestServerMetrics(t *testing.T) {
	_, ts := testServer(t)
	// Generate one request so the counters have observations.
	resp, err := http.Post(ts.URL+"/v1/wbgt", "application/json",
		strings.NewReader(batchJSON))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`wbgt_requests_total{code="200"} 1`,
		"wbgt_request_duration_seconds",
		"wbgt_batch_size",
		"wbgt_nonconverged_total 0",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output does not contain %q", want)
		}
	}
}

func TestServerRequestID(t *testing.T) {
	_, ts := testServer(t)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if id := resp.Header.Get("X-Request-ID"); id != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", id)
	}
}
