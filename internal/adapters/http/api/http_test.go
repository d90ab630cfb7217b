package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/bateman/internal/adapters/http/api"
	service "github.com/okian/bateman/internal/app"
	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/pkg/logger"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	ctx := context.Background()
	svc := service.New(service.WithLogger(logger.Nop()))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

func doJSON(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func seedFlux(mux *http.ServeMux) *httptest.ResponseRecorder {
	return doJSON(mux, http.MethodPut, "/fluxconfigs/rabbit-tube", map[string]any{
		"reference_power_kw": 100,
		"thermal_flux":       2.5e12,
		"fast_flux":          0,
	})
}

func seedSample(mux *http.ServeMux) map[string]any {
	rec := doJSON(mux, http.MethodPost, "/samples", map[string]any{
		"id":   "foil-1",
		"name": "gold foil",
		"composition": []map[string]any{
			{"element": "Au", "isotope": "Au-197", "fraction": 1.0},
		},
		"mass_g": 2.5,
	})
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out
}

func seedIrradiation(mux *http.ServeMux) *httptest.ResponseRecorder {
	return doJSON(mux, http.MethodPost, "/samples/foil-1/irradiations", map[string]any{
		"location": "rabbit-tube",
		"start":    "2024-03-01T09:00:00Z",
		"end":      "2024-03-01T10:00:00Z",
		"power_kw": 100,
	})
}

func TestSamplesEndpoint(t *testing.T) {
	convey.Convey("Given the API routes", t, func() {
		mux := newTestMux(t)

		convey.Convey("When registering a sample", func() {
			rec := doJSON(mux, http.MethodPost, "/samples", map[string]any{
				"name": "gold foil",
				"composition": []map[string]any{
					{"element": "Au", "isotope": "Au-197", "fraction": 1.0},
				},
				"mass_g": 2.5,
			})

			convey.Convey("Then 201 with the assigned ID", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)
				var smp service.Sample
				convey.So(json.Unmarshal(rec.Body.Bytes(), &smp), convey.ShouldBeNil)
				convey.So(smp.ID, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/samples", bytes.NewBufferString("{nope"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When registering an invalid composition", func() {
			rec := doJSON(mux, http.MethodPost, "/samples", map[string]any{
				"name":        "broken",
				"composition": []map[string]any{{"element": "Au", "fraction": 0.5}},
				"mass_g":      1.0,
			})

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When listing and fetching samples", func() {
			seedSample(mux)

			list := doJSON(mux, http.MethodGet, "/samples", nil)
			convey.So(list.Code, convey.ShouldEqual, http.StatusOK)

			one := doJSON(mux, http.MethodGet, "/samples/foil-1", nil)
			convey.So(one.Code, convey.ShouldEqual, http.StatusOK)

			missing := doJSON(mux, http.MethodGet, "/samples/ghost", nil)
			convey.So(missing.Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestIrradiationsEndpoint(t *testing.T) {
	convey.Convey("Given a registered sample", t, func() {
		mux := newTestMux(t)
		seedFlux(mux)
		seedSample(mux)

		convey.Convey("When recording a valid irradiation", func() {
			rec := seedIrradiation(mux)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)
		})

		convey.Convey("When the timestamp is not RFC3339", func() {
			rec := doJSON(mux, http.MethodPost, "/samples/foil-1/irradiations", map[string]any{
				"location": "rabbit-tube",
				"start":    "yesterday",
				"end":      "2024-03-01T10:00:00Z",
				"power_kw": 100,
			})

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When the event overlaps an existing one", func() {
			convey.So(seedIrradiation(mux).Code, convey.ShouldEqual, http.StatusCreated)

			rec := doJSON(mux, http.MethodPost, "/samples/foil-1/irradiations", map[string]any{
				"location": "rabbit-tube",
				"start":    "2024-03-01T09:30:00Z",
				"end":      "2024-03-01T10:30:00Z",
				"power_kw": 100,
			})

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestFluxConfigEndpoints(t *testing.T) {
	convey.Convey("Given the API routes", t, func() {
		mux := newTestMux(t)

		convey.Convey("When putting a flux configuration", func() {
			rec := seedFlux(mux)

			convey.Convey("Then the location comes from the path", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var fc activation.FluxConfiguration
				convey.So(json.Unmarshal(rec.Body.Bytes(), &fc), convey.ShouldBeNil)
				convey.So(fc.Location, convey.ShouldEqual, "rabbit-tube")
			})
		})

		convey.Convey("When listing configurations", func() {
			seedFlux(mux)
			rec := doJSON(mux, http.MethodGet, "/fluxconfigs", nil)

			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			var got map[string]activation.FluxConfiguration
			convey.So(json.Unmarshal(rec.Body.Bytes(), &got), convey.ShouldBeNil)
			convey.So(got, convey.ShouldContainKey, "rabbit-tube")
		})

		convey.Convey("When the reference power is invalid", func() {
			rec := doJSON(mux, http.MethodPut, "/fluxconfigs/bad-port", map[string]any{
				"reference_power_kw": 0,
				"thermal_flux":       1e12,
			})

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestComputeAndActivityEndpoints(t *testing.T) {
	convey.Convey("Given a sample with recorded history", t, func() {
		mux := newTestMux(t)
		seedFlux(mux)
		seedSample(mux)
		convey.So(seedIrradiation(mux).Code, convey.ShouldEqual, http.StatusCreated)

		convey.Convey("When computing", func() {
			rec := doJSON(mux, http.MethodGet, "/compute/foil-1", nil)

			convey.Convey("Then the result is successful", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var res activation.Result
				convey.So(json.Unmarshal(rec.Body.Bytes(), &res), convey.ShouldBeNil)
				convey.So(res.Success, convey.ShouldBeTrue)
				convey.So(res.TotalActivityBq, convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When querying activity with an explicit date", func() {
			rec := doJSON(mux, http.MethodGet, "/activity/foil-1?date=2024-03-04T10:00:00Z", nil)

			convey.Convey("Then the snapshot covers three days of decay", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var snap activation.Snapshot
				convey.So(json.Unmarshal(rec.Body.Bytes(), &snap), convey.ShouldBeNil)
				convey.So(snap.DecaySeconds, convey.ShouldAlmostEqual, 259200, 1)
			})
		})

		convey.Convey("When the date predates the irradiation", func() {
			rec := doJSON(mux, http.MethodGet, "/activity/foil-1?date=2024-02-01T00:00:00Z", nil)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When the date is malformed", func() {
			rec := doJSON(mux, http.MethodGet, "/activity/foil-1?date=tomorrow", nil)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When fetching the timeline", func() {
			rec := doJSON(mux, http.MethodGet, "/timeline/foil-1", nil)

			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			var entries []activation.TimelineEntry
			convey.So(json.Unmarshal(rec.Body.Bytes(), &entries), convey.ShouldBeNil)
			convey.So(entries, convey.ShouldNotBeEmpty)
		})

		convey.Convey("When computing an unknown sample", func() {
			rec := doJSON(mux, http.MethodGet, "/compute/ghost", nil)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("When computing a sample with no events", func() {
			doJSON(mux, http.MethodPost, "/samples", map[string]any{
				"id":   "idle-1",
				"name": "idle",
				"composition": []map[string]any{
					{"element": "Au", "isotope": "Au-197", "fraction": 1.0},
				},
				"mass_g": 1.0,
			})

			rec := doJSON(mux, http.MethodGet, "/compute/idle-1", nil)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	convey.Convey("Given the API routes", t, func() {
		mux := newTestMux(t)

		convey.Convey("When fetching stats", func() {
			rec := doJSON(mux, http.MethodGet, "/stats", nil)

			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			var stats map[string]any
			convey.So(json.Unmarshal(rec.Body.Bytes(), &stats), convey.ShouldBeNil)
			convey.So(stats, convey.ShouldContainKey, "samples")
		})
	})
}
