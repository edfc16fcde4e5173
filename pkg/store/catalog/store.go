package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wellfit-labs/wellfit/pkg/models/store"
)

// Store holds the metadata records for uploaded video objects.
type Store interface {
	Add(ctx context.Context, record store.VideoRecord) error
	GetByID(ctx context.Context, id string) (*store.VideoRecord, error)
	List(ctx context.Context) ([]store.VideoRecord, error)
	Remove(ctx context.Context, id string) error
}

type videoStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &videoStore{db: db}, nil
}

func (s *videoStore) Add(ctx context.Context, record store.VideoRecord) error {
	query := `
		INSERT INTO videos (id, title, object_key, content_type, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.Title,
		record.ObjectKey,
		record.ContentType,
		record.Size,
		record.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert video record: %w", err)
	}
	return nil
}

func (s *videoStore) GetByID(ctx context.Context, id string) (*store.VideoRecord, error) {
	query := `
		SELECT id, title, object_key, content_type, size, uploaded_at
		FROM videos
		WHERE id = ?`

	var record store.VideoRecord
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.Title,
		&record.ObjectKey,
		&record.ContentType,
		&record.Size,
		&record.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query video record: %w", err)
	}
	return &record, nil
}

func (s *videoStore) List(ctx context.Context) ([]store.VideoRecord, error) {
	query := `
		SELECT id, title, object_key, content_type, size, uploaded_at
		FROM videos
		ORDER BY uploaded_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query video records: %w", err)
	}
	defer rows.Close()

	var records []store.VideoRecord
	for rows.Next() {
		var record store.VideoRecord
		err := rows.Scan(
			&record.ID,
			&record.Title,
			&record.ObjectKey,
			&record.ContentType,
			&record.Size,
			&record.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video records: %w", err)
	}
	return records, nil
}

func (s *videoStore) Remove(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete video record: %w", err)
	}
	return nil
}
