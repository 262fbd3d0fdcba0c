package domain

import (
	"errors"
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 1, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(18, 0), at(20, 30), at(18, 0), at(20, 30), true},
		{"partial overlap at start", at(18, 0), at(20, 30), at(20, 29), at(22, 0), true},
		{"partial overlap at end", at(19, 0), at(21, 0), at(18, 0), at(19, 30), true},
		{"new contains existing", at(17, 0), at(23, 0), at(18, 0), at(20, 30), true},
		{"existing contains new", at(18, 30), at(19, 0), at(18, 0), at(20, 30), true},
		{"back to back after", at(18, 0), at(20, 30), at(20, 30), at(22, 0), false},
		{"back to back before", at(20, 30), at(22, 0), at(18, 0), at(20, 30), false},
		{"disjoint", at(10, 0), at(12, 0), at(18, 0), at(20, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps(%v, %v, %v, %v) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
		})
	}
}

func validShowtime() Showtime {
	return Showtime{
		MovieID:   1,
		Price:     12.50,
		Theater:   "Cinema 1",
		StartTime: at(18, 0),
		EndTime:   at(20, 30),
	}
}

func TestShowtimeValidate(t *testing.T) {
	if err := validShowtime().Validate(); err != nil {
		t.Fatalf("expected valid showtime, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Showtime)
	}{
		{"end equals start", func(s *Showtime) { s.EndTime = s.StartTime }},
		{"end before start", func(s *Showtime) { s.EndTime = s.StartTime.Add(-time.Minute) }},
		{"zero price", func(s *Showtime) { s.Price = 0 }},
		{"negative price", func(s *Showtime) { s.Price = -1 }},
		{"empty theater", func(s *Showtime) { s.Theater = "" }},
		{"missing movie id", func(s *Showtime) { s.MovieID = 0 }},
		{"zero start", func(s *Showtime) { s.StartTime = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validShowtime()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestShowtimeUpdateApply(t *testing.T) {
	s := validShowtime()
	s.ID = 7

	theater := "Cinema 2"
	price := 15.0
	merged := ShowtimeUpdate{Theater: &theater, Price: &price}.Apply(s)

	if merged.Theater != "Cinema 2" || merged.Price != 15.0 {
		t.Errorf("provided fields not applied: %+v", merged)
	}
	if merged.MovieID != s.MovieID || !merged.StartTime.Equal(s.StartTime) || !merged.EndTime.Equal(s.EndTime) {
		t.Errorf("omitted fields changed: %+v", merged)
	}
}

func TestShowtimeUpdateReschedules(t *testing.T) {
	price := 9.0
	if (ShowtimeUpdate{Price: &price}).Reschedules() {
		t.Error("price-only update should not trigger an overlap re-check")
	}
	theater := "Cinema 2"
	if !(ShowtimeUpdate{Theater: &theater}).Reschedules() {
		t.Error("theater change must trigger an overlap re-check")
	}
	start := at(9, 0)
	if !(ShowtimeUpdate{StartTime: &start}).Reschedules() {
		t.Error("start time change must trigger an overlap re-check")
	}
	end := at(11, 0)
	if !(ShowtimeUpdate{EndTime: &end}).Reschedules() {
		t.Error("end time change must trigger an overlap re-check")
	}
}
