package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/cinema-booking/internal/domain"
	"github.com/robertarktes/cinema-booking/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditLogger records schedule and booking mutations for later inspection.
// Writes are best-effort; a failed audit write never fails the request.
type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) LogEvent(ctx context.Context, action string, data map[string]interface{}) error {
	log := AuditLog{
		ID:        uuid.New(),
		Action:    action,
		Timestamp: time.Now(),
		Data:      bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, log)
	if err != nil {
		a.logger.WithError(err).Error("failed to insert audit log")
		return err
	}
	return nil
}

func (a *AuditLogger) LogBooking(ctx context.Context, b domain.Booking) error {
	return a.LogEvent(ctx, "booking.created", map[string]interface{}{
		"booking_id":  b.ID.String(),
		"showtime_id": b.ShowtimeID,
		"seat_number": b.SeatNumber,
		"user_id":     b.UserID,
	})
}

func (a *AuditLogger) LogShowtime(ctx context.Context, action string, s domain.Showtime) error {
	return a.LogEvent(ctx, action, map[string]interface{}{
		"showtime_id": s.ID,
		"movie_id":    s.MovieID,
		"theater":     s.Theater,
		"starts_at":   s.StartTime.Format(time.RFC3339),
		"ends_at":     s.EndTime.Format(time.RFC3339),
	})
}

func (a *AuditLogger) Ping(ctx context.Context) error {
	return a.coll.Database().Client().Ping(ctx, nil)
}
