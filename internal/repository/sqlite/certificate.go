package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Felici4no/RedeSentinela/pkg/models"
)

// UpsertCertificate keeps at most one certificate per (user, tier): a
// re-issue overwrites the previous verify code and timestamp.
func (r *SQLiteRepo) UpsertCertificate(ctx context.Context, c *models.Certificate) error {
	if c == nil {
		return fmt.Errorf("certificate is nil")
	}

	_, err := r.conn.Exec(ctx,
		`INSERT INTO certificates (user_id, tier, verify_code, issued_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, tier) DO UPDATE SET verify_code=excluded.verify_code, issued_at=excluded.issued_at`,
		c.UserID, c.Tier, c.VerifyCode, c.IssuedAt)
	return err
}

func (r *SQLiteRepo) ListCertificatesByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, tier, verify_code, issued_at FROM certificates WHERE user_id = ? ORDER BY issued_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Certificate
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(&c.ID, &c.UserID, &c.Tier, &c.VerifyCode, &c.IssuedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) GetCertificateByCode(ctx context.Context, code string) (*models.Certificate, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, tier, verify_code, issued_at FROM certificates WHERE verify_code = ?`, code)
	var c models.Certificate
	if err := row.Scan(&c.ID, &c.UserID, &c.Tier, &c.VerifyCode, &c.IssuedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
