package postgres

import (
	"context"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// PaymentRepo implements ports.PaymentRepository with pgx.
type PaymentRepo struct {
	db *DB
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(db *DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO payments (id, job_id, employer_email, payee_email, amount, currency, status, provider_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	`, p.ID, p.JobID, p.EmployerEmail, p.PayeeEmail, p.Amount, p.Currency, p.Status, p.ProviderRef, p.CreatedAt)
	return translate(err, "insert payment")
}

func (r *PaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, providerRef string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE payments
		SET status = $2, provider_ref = COALESCE(NULLIF($3, ''), provider_ref), updated_at = now()
		WHERE id = $1
	`, id, status, providerRef)
	return affected(tag, err, "update payment "+id)
}

func (r *PaymentRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Payment, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, job_id, employer_email, payee_email, amount, currency, status,
		       COALESCE(provider_ref, ''), created_at
		FROM payments WHERE job_id = $1
		ORDER BY created_at
	`, jobID)
	if err != nil {
		return nil, translate(err, "query payments")
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID, &p.JobID, &p.EmployerEmail, &p.PayeeEmail, &p.Amount, &p.Currency,
			&p.Status, &p.ProviderRef, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
