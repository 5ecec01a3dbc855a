// Package handler exposes the stores to a local front end as a JSON API.
// Each form endpoint runs the submitted values through a form.Form, so
// validation failures come back as the form state with status 422.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/flight-booking/internal/booking"
	"github.com/Shivanand-hulikatti/flight-booking/internal/form"
	"github.com/Shivanand-hulikatti/flight-booking/internal/metrics"
	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
	"github.com/Shivanand-hulikatti/flight-booking/internal/search"
	"github.com/Shivanand-hulikatti/flight-booking/internal/session"
	"github.com/Shivanand-hulikatti/flight-booking/internal/validation"
)

// AirportLister provides the airports offered on the search page.
type AirportLister interface {
	Airports() []model.Airport
}

// Deps are the collaborators of the router.
type Deps struct {
	Session     *session.Store
	Search      *search.Store
	Booking     *booking.Store
	Airports    AirportLister
	Validator   *validation.Validator
	Logger      *zap.Logger
	CORSOrigins []string
}

// Handler holds all HTTP handlers of the booking API.
type Handler struct {
	session  *session.Store
	search   *search.Store
	booking  *booking.Store
	airports AirportLister
	val      *validation.Validator
	log      *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		session:  d.Session,
		search:   d.Search,
		booking:  d.Booking,
		airports: d.Airports,
		val:      d.Validator,
		log:      d.Logger.Named("http"),
	}
}

// NewRouter builds the full middleware stack and route table.
func NewRouter(d Deps) http.Handler {
	h := NewHandler(d)
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(metrics.InstrumentHandler)
	r.Use(Logger(d.Logger))
	r.Use(CORS(d.CORSOrigins))

	r.Get("/health", HealthCheck)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Get("/session", h.GetSession)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/logout", h.Logout)
		r.Post("/reset-error", h.ResetAuthError)
	})

	r.Route("/flights", func(r chi.Router) {
		r.Get("/", h.GetFlights)
		r.Delete("/", h.ClearFlights)
		r.Get("/airports", h.ListAirports)
		r.Post("/search", h.SearchFlights)
		r.Post("/reset-error", h.ResetSearchError)
	})

	r.Route("/booking", func(r chi.Router) {
		r.Get("/", h.GetBooking)
		r.Delete("/", h.ResetBooking)
		r.Put("/outbound", h.SelectOutbound)
		r.Put("/return", h.SelectReturn)
		r.Post("/passengers", h.SubmitPassengers)
		r.Patch("/passengers/{id}", h.UpdatePassenger)
		r.Delete("/passengers/{id}", h.RemovePassenger)
		r.Put("/contact", h.SetContactDetails)
		r.Post("/payment", h.SubmitPayment)
	})

	return r
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// submitForm decodes the request body over initial and submits it through a
// form. It reports whether the values were valid; on a malformed body or a
// validation failure the response has already been written.
func submitForm[T any](
	h *Handler, w http.ResponseWriter, r *http.Request,
	name string, initial T, validate form.ValidateFunc[T], onSubmit form.SubmitFunc[T],
) bool {
	values := initial
	if err := decodeJSON(r, &values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	f := form.New(form.Options[T]{
		Name:     name,
		Initial:  values,
		Validate: validate,
		OnSubmit: onSubmit,
		Logger:   h.log,
	})
	if err := f.Submit(r.Context()); err != nil {
		if errors.Is(err, form.ErrInvalid) {
			writeJSON(w, http.StatusUnprocessableEntity, f.State())
			return false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

// detach keeps request-scoped values but drops cancellation, so a store
// operation finishes even if the client goes away mid-call.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
