package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/geoproof/proof-of-attendance/internal/model"
	"github.com/geoproof/proof-of-attendance/internal/utils"
)

// AccountRepo provides access to the 'accounts' table. Accounts pair a
// protocol-level address with session credentials; the address is the
// identity all attendance operations run under.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

var ErrAddressExists = errors.New("address already registered")

// Create inserts an account and returns its row id. Addresses are
// normalized to lower case so lookups are case-insensitive.
func (r *AccountRepo) Create(ctx context.Context, address, password string, cost int) (uint64, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (address, password_hash) VALUES (?,?)",
		address, hash)
	if err != nil {
		// 1062 = duplicate entry on the unique address index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrAddressExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByAddress fetches an account by normalized address.
func (r *AccountRepo) GetByAddress(ctx context.Context, address string) (model.Account, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,address,password_hash,is_active,created_at,updated_at FROM accounts WHERE address=? LIMIT 1",
		address).Scan(&a.ID, &a.Address, &a.PasswordHash, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByID fetches an account by row id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,address,password_hash,is_active,created_at,updated_at FROM accounts WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Address, &a.PasswordHash, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
