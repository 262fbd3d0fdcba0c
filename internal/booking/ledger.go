// Package booking assigns seats on showtimes. A seat number may be held by
// at most one booking per showtime; the same seat on another showtime is a
// separate resource.
package booking

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/cinema-booking/internal/domain"
	"github.com/robertarktes/cinema-booking/internal/observability"
)

type Store interface {
	SeatTaken(ctx context.Context, showtimeID int64, seatNumber int) (bool, error)
	CreateBooking(ctx context.Context, b domain.Booking) error
}

type ShowtimeGetter interface {
	GetShowtime(ctx context.Context, id int64) (*domain.Showtime, error)
}

// SeatLocker is an optional short-TTL advisory lock in front of the insert.
// It sheds duplicate concurrent requests early; the unique constraint in
// the store remains the authoritative check. UnlockSeat frees the seat when
// the insert fails, instead of leaving it blocked until the TTL expires.
type SeatLocker interface {
	LockSeat(ctx context.Context, showtimeID int64, seatNumber int, userID string) (bool, error)
	UnlockSeat(ctx context.Context, showtimeID int64, seatNumber int) error
}

type Ledger struct {
	store     Store
	showtimes ShowtimeGetter
	locks     SeatLocker
	logger    observability.Logger
}

func NewLedger(store Store, showtimes ShowtimeGetter, locks SeatLocker, logger observability.Logger) *Ledger {
	return &Ledger{store: store, showtimes: showtimes, locks: locks, logger: logger}
}

// Create books the seat and returns the generated booking id. The
// taken-check is check-then-act; when two requests race, the insert's
// unique constraint picks the winner and the loser gets ErrConflict.
func (l *Ledger) Create(ctx context.Context, showtimeID int64, seatNumber int, userID string) (uuid.UUID, error) {
	b := domain.NewBooking(showtimeID, seatNumber, userID)
	if err := b.Validate(); err != nil {
		return uuid.Nil, err
	}
	if _, err := l.showtimes.GetShowtime(ctx, showtimeID); err != nil {
		return uuid.Nil, errors.Wrapf(err, "showtime %d", showtimeID)
	}
	taken, err := l.store.SeatTaken(ctx, showtimeID, seatNumber)
	if err != nil {
		return uuid.Nil, err
	}
	if taken {
		observability.BookingConflicts.Inc()
		return uuid.Nil, errors.Wrapf(domain.ErrConflict, "seat %d is already booked for this showtime", seatNumber)
	}
	if l.locks != nil {
		ok, err := l.locks.LockSeat(ctx, showtimeID, seatNumber, userID)
		if err != nil {
			return uuid.Nil, err
		}
		if !ok {
			observability.BookingConflicts.Inc()
			return uuid.Nil, errors.Wrapf(domain.ErrConflict, "seat %d is already booked for this showtime", seatNumber)
		}
	}
	if err := l.store.CreateBooking(ctx, b); err != nil {
		if l.locks != nil {
			if uerr := l.locks.UnlockSeat(ctx, showtimeID, seatNumber); uerr != nil {
				l.logger.WithError(uerr).Warn("failed to release seat lock")
			}
		}
		if errors.Is(err, domain.ErrConflict) {
			observability.BookingConflicts.Inc()
			return uuid.Nil, errors.Wrapf(domain.ErrConflict, "seat %d is already booked for this showtime", seatNumber)
		}
		return uuid.Nil, err
	}
	l.logger.WithField("booking_id", b.ID.String()).Info("seat booked")
	return b.ID, nil
}
