package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db DBTX
}

const accountColumns = `id, username, email, password_hash, active, last_login_at, created_at, updated_at`

const (
	insertAccount = `INSERT INTO accounts (` + accountColumns + `, activation_sent_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectAccountByID       = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	selectAccountByUsername = `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`
	selectAccountByEmail    = `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`

	usernameTaken = `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = ? AND id <> ?)`
	emailTaken    = `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = ? AND id <> ?)`

	activateAccount = `UPDATE accounts SET active = 1, updated_at = ? WHERE id = ? AND active = 0`

	updateIdentity     = `UPDATE accounts SET username = ?, email = ?, updated_at = ? WHERE id = ?`
	touchLastLogin     = `UPDATE accounts SET last_login_at = ? WHERE id = ?`
	markActivationSent = `UPDATE accounts SET activation_sent_at = ? WHERE id = ?`
	deleteInactive     = `DELETE FROM accounts WHERE active = 0 AND activation_sent_at < ?`

	insertProfile = `INSERT INTO profiles (account_id, email_confirmed, bio, avatar_key, updated_at) VALUES (?, ?, ?, ?, ?)`
	selectProfile = `SELECT account_id, email_confirmed, bio, avatar_key, updated_at FROM profiles WHERE account_id = ?`
	confirmEmail  = `UPDATE profiles SET email_confirmed = 1, updated_at = ? WHERE account_id = ?`
	updateBio     = `UPDATE profiles SET bio = ?, updated_at = ? WHERE account_id = ?`
	updateAvatar  = `UPDATE profiles SET avatar_key = ?, updated_at = ? WHERE account_id = ?`
)

// execOne runs an update that must touch exactly one row.
func (q *queries) execOne(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
