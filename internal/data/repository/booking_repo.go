package repository

import (
	"context"
	"fmt"

	"service-marketplace/internal/data/entity"
	"service-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDAndProvider(ctx context.Context, id, providerID uuid.UUID) (*entity.Booking, error)
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountByRequesterID(ctx context.Context, requesterID uuid.UUID, status *entity.BookingStatus) (int64, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountByProviderID(ctx context.Context, providerID uuid.UUID, status *entity.BookingStatus) (int64, error)

	// TransitionFrom writes the booking's mutable lifecycle fields, but only
	// while the stored status still equals from. A concurrent transition
	// makes the update match nothing and ErrStaleStatus is returned: exactly
	// one of two simultaneous transitions wins.
	TransitionFrom(ctx context.Context, booking *entity.Booking, from entity.BookingStatus) error

	SetFinalAmount(ctx context.Context, id uuid.UUID, amount float64) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, requester_id, provider_id, service_category, service_description,
	       requested_date, requested_time, status, budget, final_amount,
	       address, latitude, longitude, accepted_at, completed_at, cancelled_at,
	       cancellation_reason, requester_notes, provider_notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RequesterID,
		&booking.ProviderID,
		&booking.ServiceCategory,
		&booking.ServiceDescription,
		&booking.RequestedDate,
		&booking.RequestedTime,
		&booking.Status,
		&booking.Budget,
		&booking.FinalAmount,
		&booking.Address,
		&booking.Latitude,
		&booking.Longitude,
		&booking.AcceptedAt,
		&booking.CompletedAt,
		&booking.CancelledAt,
		&booking.CancellationReason,
		&booking.RequesterNotes,
		&booking.ProviderNotes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, requester_id, provider_id, service_category, service_description,
		                      requested_date, requested_time, status, budget, final_amount,
		                      address, latitude, longitude, requester_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RequesterID,
		booking.ProviderID,
		booking.ServiceCategory,
		booking.ServiceDescription,
		booking.RequestedDate,
		booking.RequestedTime,
		booking.Status,
		booking.Budget,
		booking.FinalAmount,
		booking.Address,
		booking.Latitude,
		booking.Longitude,
		booking.RequesterNotes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("requester_id", booking.RequesterID.String()),
			zap.String("provider_id", booking.ProviderID.String()),
		)
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIDAndProvider(ctx context.Context, id, providerID uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND provider_id = $2`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, providerID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID and provider",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("provider_id", providerID.String()),
		)
		return nil, fmt.Errorf("find booking %s for provider %s: %w", id.String(), providerID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) findByParty(ctx context.Context, column string, partyID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s = $1`, bookingColumns, column)
	args := []any{partyID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings by party",
			zap.Error(err),
			zap.String("party_id", partyID.String()),
		)
		return nil, fmt.Errorf("find bookings for %s: %w", partyID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) countByParty(ctx context.Context, column string, partyID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM bookings WHERE %s = $1`, column)
	args := []any{partyID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by party",
			zap.Error(err),
			zap.String("party_id", partyID.String()),
		)
		return 0, fmt.Errorf("count bookings for %s: %w", partyID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindByRequesterID(ctx context.Context, requesterID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	return r.findByParty(ctx, "requester_id", requesterID, status, limit, offset)
}

func (r *bookingRepository) CountByRequesterID(ctx context.Context, requesterID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	return r.countByParty(ctx, "requester_id", requesterID, status)
}

func (r *bookingRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	return r.findByParty(ctx, "provider_id", providerID, status, limit, offset)
}

func (r *bookingRepository) CountByProviderID(ctx context.Context, providerID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	return r.countByParty(ctx, "provider_id", providerID, status)
}

func (r *bookingRepository) TransitionFrom(ctx context.Context, booking *entity.Booking, from entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $3, accepted_at = $4, completed_at = $5, cancelled_at = $6,
		    cancellation_reason = $7, requester_notes = $8, provider_notes = $9,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		from,
		booking.Status,
		booking.AcceptedAt,
		booking.CompletedAt,
		booking.CancelledAt,
		booking.CancellationReason,
		booking.RequesterNotes,
		booking.ProviderNotes,
	)

	if err != nil {
		r.log.Error("Failed to transition booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(booking.Status)),
		)
		return fmt.Errorf("transition booking %s to %s: %w", booking.ID.String(), string(booking.Status), err)
	}

	if result.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	return nil
}

func (r *bookingRepository) SetFinalAmount(ctx context.Context, id uuid.UUID, amount float64) error {
	query := `UPDATE bookings SET final_amount = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, amount)
	if err != nil {
		r.log.Error("Failed to set booking final amount",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.Float64("amount", amount),
		)
		return fmt.Errorf("set final amount for booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}
