package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pet-adoption/internal/domain/uploads"
)

type UploadsRepo struct {
	db *sql.DB
}

func NewUploadsRepo(db *sql.DB) *UploadsRepo {
	return &UploadsRepo{db: db}
}

func (r *UploadsRepo) Save(ctx context.Context, b uploads.Batch) error {
	files, err := json.Marshal(b.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO upload_batches (
			id, admin_email,
			contact_details, address,
			created_at, files
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		b.ID,
		b.AdminEmail,
		b.ContactDetails,
		b.Address,
		b.CreatedAt,
		files,
	)
	return err
}

func (r *UploadsRepo) ListRecent(ctx context.Context, limit int) ([]uploads.Batch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, admin_email,
			contact_details, address,
			created_at, files
		FROM upload_batches
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uploads.Batch, 0)
	for rows.Next() {
		var (
			b     uploads.Batch
			files []byte
		)
		if err := rows.Scan(
			&b.ID,
			&b.AdminEmail,
			&b.ContactDetails,
			&b.Address,
			&b.CreatedAt,
			&files,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(files, &b.Files); err != nil {
			return nil, fmt.Errorf("batch %s: decode files: %w", b.ID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
