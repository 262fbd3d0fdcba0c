package http

import (
	"time"
)

type createMovieRequest struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Duration    int     `json:"duration"`
	Rating      float64 `json:"rating"`
	ReleaseYear int     `json:"releaseYear"`
}

type createShowtimeRequest struct {
	MovieID   int64     `json:"movieId"`
	Price     float64   `json:"price"`
	Theater   string    `json:"theater"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type createBookingRequest struct {
	ShowtimeID int64  `json:"showtimeId"`
	SeatNumber int    `json:"seatNumber"`
	UserID     string `json:"userId"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
