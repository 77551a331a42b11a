package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Felici4no/RedeSentinela/pkg/models"
)

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO profiles (id, name, email, role, points, password_hash, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Role, p.Points, p.PasswordHash, ts, ts)
	return err
}

func (r *SQLiteRepo) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.getProfile(ctx, `SELECT id, name, email, role, points, password_hash, created, updated FROM profiles WHERE id = ?`, id)
}

func (r *SQLiteRepo) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getProfile(ctx, `SELECT id, name, email, role, points, password_hash, created, updated FROM profiles WHERE email = ?`, email)
}

func (r *SQLiteRepo) getProfile(ctx context.Context, query string, arg any) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, query, arg)
	var p models.Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.Points, &p.PasswordHash, &p.Created, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepo) ListProfileIDsWithReports(ctx context.Context) ([]string, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT DISTINCT user_id FROM reports ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// AddPoints credits points to a profile. Deltas are positive by contract;
// points never decrease.
func (r *SQLiteRepo) AddPoints(ctx context.Context, id string, delta int64) error {
	if delta < 0 {
		return fmt.Errorf("negative point delta %d", delta)
	}
	res, err := r.conn.Exec(ctx, `UPDATE profiles SET points = points + ?, updated = ? WHERE id = ?`, delta, now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile %s not found", id)
	}
	return nil
}
