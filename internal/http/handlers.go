package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	mongoadapter "github.com/robertarktes/cinema-booking/internal/adapters/mongo"
	bookingpkg "github.com/robertarktes/cinema-booking/internal/booking"
	"github.com/robertarktes/cinema-booking/internal/catalog"
	"github.com/robertarktes/cinema-booking/internal/domain"
	"github.com/robertarktes/cinema-booking/internal/idempotency"
	"github.com/robertarktes/cinema-booking/internal/scheduling"
	"golang.org/x/sync/errgroup"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	catalog   *catalog.Catalog
	scheduler *scheduling.Scheduler
	ledger    *bookingpkg.Ledger
	idemp     *idempotency.Idempotency
	audit     *mongoadapter.AuditLogger
	pingers   []Pinger
}

// NewHandlers wires the three services. idemp, audit and pingers may be nil
// when the corresponding backend is not configured.
func NewHandlers(catalog *catalog.Catalog, scheduler *scheduling.Scheduler, ledger *bookingpkg.Ledger,
	idemp *idempotency.Idempotency, audit *mongoadapter.AuditLogger, pingers ...Pinger) *Handlers {
	return &Handlers{
		catalog:   catalog,
		scheduler: scheduler,
		ledger:    ledger,
		idemp:     idemp,
		audit:     audit,
		pingers:   pingers,
	}
}

// writeDomainError maps domain failures onto HTTP statuses. Conflicts map
// differently per endpoint (409 for duplicate titles, 400 for overlaps and
// taken seats, matching the original API), so the caller picks the status.
func writeDomainError(w http.ResponseWriter, err error, conflictStatus int) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, err.Error(), conflictStatus)
	case errors.Is(err, domain.ErrSerializationFailure):
		http.Error(w, "conflict, try again", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handlers) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.FindAll(r.Context())
	if err != nil {
		writeDomainError(w, err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *Handlers) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.catalog.Create(r.Context(), domain.Movie{
		Title:       req.Title,
		Genre:       req.Genre,
		Duration:    req.Duration,
		Rating:      req.Rating,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		writeDomainError(w, err, http.StatusConflict)
		return
	}

	if h.audit != nil {
		h.audit.LogEvent(r.Context(), "movie.created", map[string]interface{}{
			"movie_id": movie.ID,
			"title":    movie.Title,
		})
	}
	writeJSON(w, http.StatusCreated, movie)
}

func (h *Handlers) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "movieTitle")

	var upd domain.MovieUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.catalog.Update(r.Context(), title, upd); err != nil {
		writeDomainError(w, err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: "Movie " + strconv.Quote(title) + " was successfully updated.",
	})
}

func (h *Handlers) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "movieTitle")

	if err := h.catalog.Delete(r.Context(), title); err != nil {
		writeDomainError(w, err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: "Movie " + strconv.Quote(title) + " was successfully deleted.",
	})
}

func (h *Handlers) GetShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "showtimeId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid showtime id", http.StatusBadRequest)
		return
	}

	showtime, err := h.scheduler.FindOne(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, showtime)
}

func (h *Handlers) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req createShowtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	showtime, err := h.scheduler.Create(r.Context(), domain.Showtime{
		MovieID:   req.MovieID,
		Price:     req.Price,
		Theater:   req.Theater,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		// overlaps reject with 400 like the other validation failures
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}

	if h.audit != nil {
		h.audit.LogShowtime(r.Context(), "showtime.scheduled", *showtime)
	}
	writeJSON(w, http.StatusCreated, showtime)
}

func (h *Handlers) UpdateShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "showtimeId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid showtime id", http.StatusBadRequest)
		return
	}

	var upd domain.ShowtimeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	showtime, err := h.scheduler.Update(r.Context(), id, upd)
	if err != nil {
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, showtime)
}

func (h *Handlers) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "showtimeId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid showtime id", http.StatusBadRequest)
		return
	}

	if err := h.scheduler.Remove(r.Context(), id); err != nil {
		writeDomainError(w, err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: "Showtime " + strconv.FormatInt(id, 10) + " was successfully deleted.",
	})
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Idempotency-Key")
	if h.idemp != nil {
		existing, err := h.idemp.Get(r.Context(), key)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if existing != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(existing.Status)
			w.Write(existing.Result)
			return
		}
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bookingID, err := h.ledger.Create(r.Context(), req.ShowtimeID, req.SeatNumber, req.UserID)
	if err != nil {
		// a taken seat rejects with 400, matching the original API
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}

	if h.audit != nil {
		h.audit.LogBooking(r.Context(), domain.Booking{
			ID:         bookingID,
			ShowtimeID: req.ShowtimeID,
			SeatNumber: req.SeatNumber,
			UserID:     req.UserID,
		})
	}

	data, _ := json.Marshal(map[string]string{"bookingId": bookingID.String()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(data)

	if h.idemp != nil {
		h.idemp.Set(r.Context(), key, idempotency.Response{Status: http.StatusCreated, Result: data})
	}
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readyz pings every configured backend concurrently.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range h.pingers {
		p := p
		g.Go(func() error { return p.Ping(gctx) })
	}
	if err := g.Wait(); err != nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
