package domain

import (
	"time"

	"github.com/google/uuid"
)

type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Duration    int     `json:"duration"`
	Rating      float64 `json:"rating"`
	ReleaseYear int     `json:"releaseYear"`
}

type Showtime struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movieId"`
	Price     float64   `json:"price"`
	Theater   string    `json:"theater"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Movie     *Movie    `json:"movie,omitempty"`
}

type Booking struct {
	ID         uuid.UUID `json:"bookingId"`
	ShowtimeID int64     `json:"showtimeId"`
	SeatNumber int       `json:"seatNumber"`
	UserID     string    `json:"userId"`
}
