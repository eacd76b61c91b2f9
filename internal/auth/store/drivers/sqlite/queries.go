package sqlite

import (
	"context"
	"database/sql"
)

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    int64
	UpdatedAt    int64
}

type organisationRow struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   int64
	UpdatedAt   int64
}

const getUserByEmail = `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?`

func (q *queries) GetUserByEmail(ctx context.Context, email string) (userRow, error) {
	var u userRow
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const countUsersByEmail = `SELECT COUNT(*) FROM users WHERE email = ?`

func (q *queries) CountUsersByEmail(ctx context.Context, email string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsersByEmail, email).Scan(&n)
	return n, err
}

const createUser = `INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

func (q *queries) CreateUser(ctx context.Context, u userRow) error {
	_, err := q.db.ExecContext(ctx, createUser, u.ID, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

const updateUserPasswordHash = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

func (q *queries) UpdateUserPasswordHash(ctx context.Context, id, hash string, now int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateUserPasswordHash, hash, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const createOrganisation = `INSERT INTO organisations (id, name, description, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

func (q *queries) CreateOrganisation(ctx context.Context, o organisationRow) error {
	_, err := q.db.ExecContext(ctx, createOrganisation,
		o.ID, o.Name, o.Description, o.OwnerID, o.CreatedAt, o.UpdatedAt)
	return err
}

const getOrganisationByID = `SELECT id, name, description, owner_id, created_at, updated_at FROM organisations WHERE id = ?`

func (q *queries) GetOrganisationByID(ctx context.Context, id string) (organisationRow, error) {
	var o organisationRow
	err := q.db.QueryRowContext(ctx, getOrganisationByID, id).
		Scan(&o.ID, &o.Name, &o.Description, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const listOrganisationsByOwner = `SELECT id, name, description, owner_id, created_at, updated_at
FROM organisations WHERE owner_id = ? ORDER BY created_at, id`

func (q *queries) ListOrganisationsByOwner(ctx context.Context, ownerID string) ([]organisationRow, error) {
	rows, err := q.db.QueryContext(ctx, listOrganisationsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []organisationRow
	for rows.Next() {
		var o organisationRow
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const updateOrganisationDetails = `UPDATE organisations SET name = ?, description = ?, updated_at = ? WHERE id = ?`

func (q *queries) UpdateOrganisationDetails(ctx context.Context, id, name, description string, now int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateOrganisationDetails, name, description, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
