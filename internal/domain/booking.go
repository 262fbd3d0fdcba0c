package domain

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

func NewBooking(showtimeID int64, seatNumber int, userID string) Booking {
	return Booking{
		ID:         uuid.New(),
		ShowtimeID: showtimeID,
		SeatNumber: seatNumber,
		UserID:     userID,
	}
}

func (b Booking) Validate() error {
	if b.ShowtimeID <= 0 {
		return errors.Wrap(ErrInvalidInput, "showtimeId must be a positive integer")
	}
	if b.SeatNumber <= 0 {
		return errors.Wrap(ErrInvalidInput, "seatNumber must be a positive integer")
	}
	if b.UserID == "" {
		return errors.Wrap(ErrInvalidInput, "userId must not be empty")
	}
	return nil
}
