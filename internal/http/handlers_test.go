package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	bookingpkg "github.com/robertarktes/cinema-booking/internal/booking"
	"github.com/robertarktes/cinema-booking/internal/catalog"
	"github.com/robertarktes/cinema-booking/internal/domain"
	"github.com/robertarktes/cinema-booking/internal/observability"
	"github.com/robertarktes/cinema-booking/internal/scheduling"
)

// memStore backs all three services in one in-memory state, mirroring the
// shared database they run against in production.
type memStore struct {
	mu        sync.Mutex
	nextMovie int64
	nextShow  int64
	movies    map[int64]domain.Movie
	showtimes map[int64]domain.Showtime
	bookings  map[int64]map[int]domain.Booking
}

func newMemStore() *memStore {
	return &memStore{
		nextMovie: 1,
		nextShow:  1,
		movies:    map[int64]domain.Movie{},
		showtimes: map[int64]domain.Showtime{},
		bookings:  map[int64]map[int]domain.Booking{},
	}
}

func (s *memStore) CreateMovie(ctx context.Context, m *domain.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.movies {
		if existing.Title == m.Title {
			return domain.ErrConflict
		}
	}
	m.ID = s.nextMovie
	s.nextMovie++
	s.movies[m.ID] = *m
	return nil
}

func (s *memStore) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Movie{}
	for _, m := range s.movies {
		out = append(out, m)
	}
	return out, nil
}

func (s *memStore) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (s *memStore) GetMovieByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		if m.Title == title {
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) UpdateMovie(ctx context.Context, m domain.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[m.ID]; !ok {
		return domain.ErrNotFound
	}
	s.movies[m.ID] = m
	return nil
}

func (s *memStore) DeleteMovieByTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.movies {
		if m.Title == title {
			delete(s.movies, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memStore) CreateShowtime(ctx context.Context, st *domain.Showtime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = s.nextShow
	s.nextShow++
	s.showtimes[st.ID] = *st
	return nil
}

func (s *memStore) GetShowtime(ctx context.Context, id int64) (*domain.Showtime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.showtimes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if m, ok := s.movies[st.MovieID]; ok {
		st.Movie = &m
	}
	return &st, nil
}

func (s *memStore) UpdateShowtime(ctx context.Context, st domain.Showtime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.showtimes[st.ID]; !ok {
		return domain.ErrNotFound
	}
	s.showtimes[st.ID] = st
	return nil
}

func (s *memStore) DeleteShowtime(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.showtimes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.showtimes, id)
	return nil
}

func (s *memStore) HasOverlap(ctx context.Context, theater string, start, end time.Time, excludeID *int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range s.showtimes {
		if st.Theater != theater {
			continue
		}
		if excludeID != nil && id == *excludeID {
			continue
		}
		if domain.Overlaps(start, end, st.StartTime, st.EndTime) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) SeatTaken(ctx context.Context, showtimeID int64, seatNumber int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bookings[showtimeID][seatNumber]
	return ok, nil
}

func (s *memStore) CreateBooking(ctx context.Context, b domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ShowtimeID][b.SeatNumber]; ok {
		return domain.ErrConflict
	}
	if s.bookings[b.ShowtimeID] == nil {
		s.bookings[b.ShowtimeID] = map[int]domain.Booking{}
	}
	s.bookings[b.ShowtimeID][b.SeatNumber] = b
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := newMemStore()
	logger := observability.NewLogger()

	h := NewHandlers(
		catalog.NewCatalog(store, logger),
		scheduling.NewScheduler(store, store, logger),
		bookingpkg.NewLedger(store, store, nil, logger),
		nil, nil,
	)
	srv := httptest.NewServer(SetupRouter(h, logger, nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func createMovie(t *testing.T, srv *httptest.Server, title string) domain.Movie {
	t.Helper()
	resp := doJSON(t, "POST", srv.URL+"/movies", map[string]any{
		"title": title, "genre": "Sci-Fi", "duration": 148, "rating": 8.8, "releaseYear": 2010,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create movie: expected 201, got %d", resp.StatusCode)
	}
	return decode[domain.Movie](t, resp)
}

func showtimeBody(movieID int64, theater, start, end string) map[string]any {
	return map[string]any{
		"movieId":   movieID,
		"price":     12.50,
		"theater":   theater,
		"startTime": "2025-03-01T" + start + ":00Z",
		"endTime":   "2025-03-01T" + end + ":00Z",
	}
}

func createShowtime(t *testing.T, srv *httptest.Server, movieID int64, theater, start, end string) domain.Showtime {
	t.Helper()
	resp := doJSON(t, "POST", srv.URL+"/showtimes", showtimeBody(movieID, theater, start, end))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create showtime: expected 201, got %d", resp.StatusCode)
	}
	return decode[domain.Showtime](t, resp)
}

func TestMovieRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	created := createMovie(t, srv, "Inception")

	resp := doJSON(t, "GET", srv.URL+"/movies/all", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	movies := decode[[]domain.Movie](t, resp)
	if len(movies) != 1 || movies[0] != created {
		t.Errorf("expected the created movie back, got %+v", movies)
	}
}

func TestMovieDuplicateTitle(t *testing.T) {
	srv := newTestServer(t)
	createMovie(t, srv, "Inception")

	resp := doJSON(t, "POST", srv.URL+"/movies", map[string]any{
		"title": "Inception", "genre": "Drama", "duration": 90, "rating": 5.0, "releaseYear": 2000,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate title: expected 409, got %d", resp.StatusCode)
	}
}

func TestMovieValidation(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, "POST", srv.URL+"/movies", map[string]any{
		"title": "Bad", "genre": "Drama", "duration": -10, "rating": 5.0, "releaseYear": 2000,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid duration: expected 400, got %d", resp.StatusCode)
	}
}

func TestMovieUpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)
	createMovie(t, srv, "Inception")

	resp := doJSON(t, "POST", srv.URL+"/movies/update/Inception", map[string]any{"rating": 9.1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	status := decode[statusResponse](t, resp)
	if !status.Success {
		t.Error("expected success=true")
	}

	resp = doJSON(t, "POST", srv.URL+"/movies/update/Missing", map[string]any{"rating": 9.1})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("update missing: expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, "DELETE", srv.URL+"/movies/Inception", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, "DELETE", srv.URL+"/movies/Inception", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestShowtimeOverlapBoundaries(t *testing.T) {
	srv := newTestServer(t)
	m := createMovie(t, srv, "Inception")

	createShowtime(t, srv, m.ID, "Cinema 1", "18:00", "20:30")

	// back-to-back is allowed
	resp := doJSON(t, "POST", srv.URL+"/showtimes", showtimeBody(m.ID, "Cinema 1", "20:30", "22:00"))
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("back-to-back: expected 201, got %d", resp.StatusCode)
	}

	// one minute of overlap is not
	resp = doJSON(t, "POST", srv.URL+"/showtimes", showtimeBody(m.ID, "Cinema 1", "20:29", "22:00"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("overlapping: expected 400, got %d", resp.StatusCode)
	}
}

func TestShowtimeDifferentTheatersNeverConflict(t *testing.T) {
	srv := newTestServer(t)
	m := createMovie(t, srv, "Inception")

	createShowtime(t, srv, m.ID, "Cinema 1", "18:00", "20:30")
	resp := doJSON(t, "POST", srv.URL+"/showtimes", showtimeBody(m.ID, "Cinema 2", "18:00", "20:30"))
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("other theater: expected 201, got %d", resp.StatusCode)
	}
}

func TestShowtimeRejectsBadInterval(t *testing.T) {
	srv := newTestServer(t)
	m := createMovie(t, srv, "Inception")

	resp := doJSON(t, "POST", srv.URL+"/showtimes", showtimeBody(m.ID, "Cinema 1", "20:30", "18:00"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("end before start: expected 400, got %d", resp.StatusCode)
	}
	resp = doJSON(t, "POST", srv.URL+"/showtimes", showtimeBody(m.ID, "Cinema 1", "18:00", "18:00"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("end equals start: expected 400, got %d", resp.StatusCode)
	}
}

func TestShowtimeRejectsUnknownMovie(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, "POST", srv.URL+"/showtimes", showtimeBody(42, "Cinema 1", "18:00", "20:30"))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown movie: expected 404, got %d", resp.StatusCode)
	}
}

func TestShowtimeGetEmbedsMovie(t *testing.T) {
	srv := newTestServer(t)
	m := createMovie(t, srv, "Inception")
	st := createShowtime(t, srv, m.ID, "Cinema 1", "18:00", "20:30")

	resp := doJSON(t, "GET", srv.URL+"/showtimes/"+itoa(st.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	got := decode[domain.Showtime](t, resp)
	if got.Movie == nil || got.Movie.Title != "Inception" {
		t.Errorf("expected embedded movie, got %+v", got.Movie)
	}

	resp = doJSON(t, "GET", srv.URL+"/showtimes/999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing showtime: expected 404, got %d", resp.StatusCode)
	}
}

func TestShowtimeUpdateOverlapLeavesRecordUnchanged(t *testing.T) {
	srv := newTestServer(t)
	m := createMovie(t, srv, "Inception")
	createShowtime(t, srv, m.ID, "Cinema 1", "18:00", "20:30")
	second := createShowtime(t, srv, m.ID, "Cinema 1", "21:00", "23:00")

	resp := doJSON(t, "POST", srv.URL+"/showtimes/update/"+itoa(second.ID),
		map[string]any{"startTime": "2025-03-01T19:00:00Z"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("overlapping update: expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, "GET", srv.URL+"/showtimes/"+itoa(second.ID), nil)
	got := decode[domain.Showtime](t, resp)
	if got.StartTime.UTC().Hour() != 21 {
		t.Errorf("rejected update must not mutate the record, got start %v", got.StartTime)
	}
}

func TestShowtimeDelete(t *testing.T) {
	srv := newTestServer(t)
	m := createMovie(t, srv, "Inception")
	st := createShowtime(t, srv, m.ID, "Cinema 1", "18:00", "20:30")

	resp := doJSON(t, "DELETE", srv.URL+"/showtimes/"+itoa(st.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, "GET", srv.URL+"/showtimes/"+itoa(st.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("fetch after delete: expected 404, got %d", resp.StatusCode)
	}
	resp = doJSON(t, "DELETE", srv.URL+"/showtimes/"+itoa(st.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestBookingSeatUniqueness(t *testing.T) {
	srv := newTestServer(t)
	m := createMovie(t, srv, "Inception")
	st := createShowtime(t, srv, m.ID, "Cinema 1", "18:00", "20:30")
	other := createShowtime(t, srv, m.ID, "Cinema 2", "18:00", "20:30")

	resp := doJSON(t, "POST", srv.URL+"/bookings",
		map[string]any{"showtimeId": st.ID, "seatNumber": 10, "userId": "user-1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first booking: expected 201, got %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["bookingId"] == "" {
		t.Error("expected a bookingId in the response")
	}

	resp = doJSON(t, "POST", srv.URL+"/bookings",
		map[string]any{"showtimeId": st.ID, "seatNumber": 10, "userId": "user-2"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("double booking: expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, "POST", srv.URL+"/bookings",
		map[string]any{"showtimeId": other.ID, "seatNumber": 10, "userId": "user-2"})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("same seat on another showtime: expected 201, got %d", resp.StatusCode)
	}
}

func TestBookingUnknownShowtime(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, "POST", srv.URL+"/bookings",
		map[string]any{"showtimeId": 99, "seatNumber": 10, "userId": "user-1"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown showtime: expected 404, got %d", resp.StatusCode)
	}
}

func TestBookingValidation(t *testing.T) {
	srv := newTestServer(t)
	m := createMovie(t, srv, "Inception")
	st := createShowtime(t, srv, m.ID, "Cinema 1", "18:00", "20:30")

	resp := doJSON(t, "POST", srv.URL+"/bookings",
		map[string]any{"showtimeId": st.ID, "seatNumber": 0, "userId": "user-1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("seat 0: expected 400, got %d", resp.StatusCode)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
