package repository

import (
	"context"
	"database/sql"

	"github.com/geoproof/proof-of-attendance/internal/model"
)

// CredentialRepo mirrors minted credentials into the 'credentials' read
// table, indexed by token id and by owning account. External wallets and
// dashboards read from here; ownership truth stays in the core issuer.
type CredentialRepo struct {
	db *sql.DB
}

// NewCredentialRepo returns a new CredentialRepo bound to the database.
func NewCredentialRepo(db *sql.DB) *CredentialRepo { return &CredentialRepo{db: db} }

// Upsert writes one credential row keyed by token id.
func (r *CredentialRepo) Upsert(ctx context.Context, cr *model.Credential) error {
	const q = `INSERT INTO credentials (token_id, event_id, account, issued_at)
		VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE token_id = token_id`
	_, err := r.db.ExecContext(ctx, q, cr.TokenID, cr.EventID, cr.Account, cr.IssuedAt)
	return err
}

// GetByTokenID returns one credential row or ErrCredentialNotFound.
func (r *CredentialRepo) GetByTokenID(ctx context.Context, tokenID uint64) (*model.Credential, error) {
	const q = `SELECT token_id, event_id, account, issued_at, created_at
		FROM credentials WHERE token_id = ?`
	var cr model.Credential
	err := r.db.QueryRowContext(ctx, q, tokenID).Scan(
		&cr.TokenID, &cr.EventID, &cr.Account, &cr.IssuedAt, &cr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

// ListByAccount returns every credential minted to an account in
// issuance order.
func (r *CredentialRepo) ListByAccount(ctx context.Context, account string) ([]model.Credential, error) {
	const q = `SELECT token_id, event_id, account, issued_at, created_at
		FROM credentials WHERE account = ? ORDER BY token_id ASC`
	rows, err := r.db.QueryContext(ctx, q, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Credential{}
	for rows.Next() {
		var cr model.Credential
		if err := rows.Scan(&cr.TokenID, &cr.EventID, &cr.Account, &cr.IssuedAt, &cr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
