package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCommand(t *testing.T) {
	before := testutil.ToFloat64(storeCommands.WithLabelValues("booking", "booking_reset"))

	RecordCommand("booking", "booking_reset")
	RecordCommand("booking", "booking_reset")

	assert.Equal(t, before+2, testutil.ToFloat64(storeCommands.WithLabelValues("booking", "booking_reset")))
}

func TestRecordStale(t *testing.T) {
	before := testutil.ToFloat64(staleResults.WithLabelValues("search", "search_flights"))
	RecordStale("search", "search_flights")
	assert.Equal(t, before+1, testutil.ToFloat64(staleResults.WithLabelValues("search", "search_flights")))
}

func TestRecordExternalCall(t *testing.T) {
	RecordExternalCall("metrics_test", time.Now(), nil)
	RecordExternalCall("metrics_test", time.Now(), errors.New("down"))

	assert.Equal(t, 2, testutil.CollectAndCount(externalCalls, "flight_booking_external_call_duration_seconds"))
}

func TestInstrumentHandler_labelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/booking/passengers/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := httpRequests.WithLabelValues(http.MethodGet, "/booking/passengers/{id}", "418")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/booking/passengers/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/booking/passengers/def", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestHandler(t *testing.T) {
	RecordCommand("session", "logged_out")
	rec := httptest.NewRecorder()

	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flight_booking_store_commands_total")
}
