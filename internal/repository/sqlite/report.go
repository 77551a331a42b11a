package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Felici4no/RedeSentinela/pkg/models"
	"github.com/Felici4no/RedeSentinela/pkg/repository"
)

const reportColumns = `id, user_id, type, severity, risk_score, status, lat, lng, address_text, description, photo_url, ai_classification, created_at, validated_at, validated_by`

func (r *SQLiteRepo) CreateReport(ctx context.Context, rep *models.Report) error {
	if rep == nil {
		return fmt.Errorf("report is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.UserID, rep.Type, rep.Severity, rep.RiskScore, rep.Status,
		rep.Lat, rep.Lng, nullString(rep.AddressText), rep.Description,
		nullString(rep.PhotoURL), nullString(rep.AIClassification),
		rep.CreatedAt, rep.ValidatedAt, rep.ValidatedBy)
	return err
}

func (r *SQLiteRepo) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	rep, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *SQLiteRepo) ListReports(ctx context.Context, f repository.ReportFilter) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	var args []any

	if f.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Severity != "" {
		query += ` AND severity = ?`
		args = append(args, f.Severity)
	}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	if f.OnlyLocated {
		query += ` AND lat IS NOT NULL AND lng IS NOT NULL`
	}
	if f.CreatedAfter > 0 {
		query += ` AND created_at >= ?`
		args = append(args, f.CreatedAfter)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountReportsSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM reports WHERE user_id = ? AND created_at >= ?`, userID, since.UTC().UnixMilli())
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// TransitionReport applies the terminal transition with a conditional
// UPDATE guarded on status = 'PENDING'. Two administrators racing over the
// same pending report cannot both succeed: the loser sees zero rows
// affected and gets ok=false.
func (r *SQLiteRepo) TransitionReport(ctx context.Context, id string, to models.ReportStatus, validatedBy string, validatedAt time.Time, severityOverride *models.Severity) (bool, error) {
	res, err := r.conn.Exec(ctx,
		`UPDATE reports SET status = ?, validated_at = ?, validated_by = ?, severity = COALESCE(?, severity) WHERE id = ? AND status = ?`,
		to, validatedAt.UTC().UnixMilli(), validatedBy, severityOverride, id, models.StatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (*models.Report, error) {
	var rep models.Report
	var addr, photo, classification, validatedBy sql.NullString
	var validatedAt sql.NullInt64

	if err := s.Scan(&rep.ID, &rep.UserID, &rep.Type, &rep.Severity, &rep.RiskScore, &rep.Status,
		&rep.Lat, &rep.Lng, &addr, &rep.Description, &photo, &classification,
		&rep.CreatedAt, &validatedAt, &validatedBy); err != nil {
		return nil, err
	}

	rep.AddressText = addr.String
	rep.PhotoURL = photo.String
	rep.AIClassification = classification.String
	if validatedAt.Valid {
		rep.ValidatedAt = &validatedAt.Int64
	}
	if validatedBy.Valid {
		rep.ValidatedBy = &validatedBy.String
	}
	return &rep, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
