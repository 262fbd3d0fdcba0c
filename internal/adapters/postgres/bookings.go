package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/cinema-booking/internal/domain"
)

// CreateBooking inserts the booking and a booking.created outbox event in
// one transaction. ON CONFLICT DO NOTHING plus the unique constraint on
// (showtime_id, seat_number) makes the insert the authoritative
// seat-uniqueness check: zero rows affected means the seat was taken.
func (r *Repository) CreateBooking(ctx context.Context, b domain.Booking) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			INSERT INTO bookings (id, showtime_id, seat_number, user_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (showtime_id, seat_number) DO NOTHING
		`, b.ID, b.ShowtimeID, b.SeatNumber, b.UserID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrConflict
		}
		payload, _ := json.Marshal(map[string]any{
			"booking_id":  b.ID,
			"showtime_id": b.ShowtimeID,
			"seat_number": b.SeatNumber,
		})
		return r.InsertOutbox(ctx, tx, NewOutboxRecord("booking", b.ShowtimeID, "booking.created", payload))
	})
}

// SeatTaken reports whether a booking already holds the seat on the
// showtime. Read-only; the insert above remains the final arbiter.
func (r *Repository) SeatTaken(ctx context.Context, showtimeID int64, seatNumber int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings WHERE showtime_id = $1 AND seat_number = $2
		)
	`, showtimeID, seatNumber).Scan(&exists)
	return exists, err
}
