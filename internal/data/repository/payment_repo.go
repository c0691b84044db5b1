package repository

import (
	"context"
	"fmt"
	"time"

	"service-marketplace/internal/data/entity"
	"service-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error)
	FindCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Payment, error)
	CountByRequesterID(ctx context.Context, requesterID uuid.UUID) (int64, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Payment, error)
	CountByProviderID(ctx context.Context, providerID uuid.UUID) (int64, error)

	// FinalizeFromPending moves a pending payment to a terminal status. The
	// update is conditional on the stored status still being pending, so
	// concurrent finalization attempts settle exactly once; the loser gets
	// the already-finalized row back with finalized=false.
	FinalizeFromPending(ctx context.Context, transactionID string, status entity.PaymentStatus, payoutDate *time.Time) (payment *entity.Payment, finalized bool, err error)

	// EarningsSummary aggregates completed payments for a provider inside
	// [start, end].
	EarningsSummary(ctx context.Context, providerID uuid.UUID, start, end time.Time) (*EarningsSummary, error)
}

// EarningsSummary totals a provider's completed settlements.
type EarningsSummary struct {
	TotalGross       float64
	TotalCommission  float64
	TotalPayout      float64
	TransactionCount int64
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, requester_id, provider_id, amount, commission,
	       provider_payout, payment_method, transaction_id, status,
	       payment_date, payout_date, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.RequesterID,
		&payment.ProviderID,
		&payment.Amount,
		&payment.Commission,
		&payment.ProviderPayout,
		&payment.PaymentMethod,
		&payment.TransactionID,
		&payment.Status,
		&payment.PaymentDate,
		&payment.PayoutDate,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, requester_id, provider_id, amount, commission,
		                      provider_payout, payment_method, transaction_id, status,
		                      payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.RequesterID,
		payment.ProviderID,
		payment.Amount,
		payment.Commission,
		payment.ProviderPayout,
		payment.PaymentMethod,
		payment.TransactionID,
		payment.Status,
		payment.PaymentDate,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
			zap.String("transaction_id", payment.TransactionID),
		)
		return fmt.Errorf("create payment %s: %w", payment.TransactionID, err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, transactionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by transaction ID",
			zap.Error(err),
			zap.String("transaction_id", transactionID),
		)
		return nil, fmt.Errorf("find payment by transaction ID %s: %w", transactionID, err)
	}

	return payment, nil
}

func (r *paymentRepository) FindCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 AND status = 'completed'`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find completed payment by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find completed payment for booking %s: %w", bookingID.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) findByParty(ctx context.Context, column string, partyID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE %s = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		paymentColumns, column)

	rows, err := r.db.Query(ctx, query, partyID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find payments by party",
			zap.Error(err),
			zap.String("party_id", partyID.String()),
		)
		return nil, fmt.Errorf("find payments for %s: %w", partyID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

func (r *paymentRepository) FindByRequesterID(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	return r.findByParty(ctx, "requester_id", requesterID, limit, offset)
}

func (r *paymentRepository) CountByRequesterID(ctx context.Context, requesterID uuid.UUID) (int64, error) {
	return r.countByParty(ctx, "requester_id", requesterID)
}

func (r *paymentRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	return r.findByParty(ctx, "provider_id", providerID, limit, offset)
}

func (r *paymentRepository) CountByProviderID(ctx context.Context, providerID uuid.UUID) (int64, error) {
	return r.countByParty(ctx, "provider_id", providerID)
}

func (r *paymentRepository) countByParty(ctx context.Context, column string, userID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM payments WHERE %s = $1`, column)

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count payments",
			zap.Error(err),
			zap.String("column", column),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count payments by %s: %w", column, err)
	}

	return count, nil
}

func (r *paymentRepository) FinalizeFromPending(ctx context.Context, transactionID string, status entity.PaymentStatus, payoutDate *time.Time) (*entity.Payment, bool, error) {
	query := `
		UPDATE payments
		SET status = $2, payment_date = NOW(), payout_date = $3, updated_at = NOW()
		WHERE transaction_id = $1 AND status = 'pending'
		RETURNING ` + paymentColumns

	payment, err := scanPayment(r.db.QueryRow(ctx, query, transactionID, status, payoutDate))
	if err == nil {
		return payment, true, nil
	}
	if err != pgx.ErrNoRows {
		r.log.Error("Failed to finalize payment",
			zap.Error(err),
			zap.String("transaction_id", transactionID),
			zap.String("status", string(status)),
		)
		return nil, false, fmt.Errorf("finalize payment %s: %w", transactionID, err)
	}

	// No pending row: either unknown transaction or already finalized.
	payment, err = r.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, false, err
	}

	return payment, false, nil
}

func (r *paymentRepository) EarningsSummary(ctx context.Context, providerID uuid.UUID, start, end time.Time) (*EarningsSummary, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(commission), 0),
		       COALESCE(SUM(provider_payout), 0), COUNT(*)
		FROM payments
		WHERE provider_id = $1 AND status = 'completed'
		  AND payment_date >= $2 AND payment_date <= $3
	`

	var summary EarningsSummary
	err := r.db.QueryRow(ctx, query, providerID, start, end).Scan(
		&summary.TotalGross,
		&summary.TotalCommission,
		&summary.TotalPayout,
		&summary.TransactionCount,
	)
	if err != nil {
		r.log.Error("Failed to aggregate earnings summary",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return nil, fmt.Errorf("earnings summary for %s: %w", providerID.String(), err)
	}

	return &summary, nil
}
