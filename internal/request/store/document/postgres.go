package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crossclass/internal/platform/fieldcodec"
	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// Postgres persists documents with title and description encrypted at rest.
// The codec is injected at construction so key material never lives in
// package state.
type Postgres struct {
	pool  *pgxpool.Pool
	codec *fieldcodec.Codec
}

func NewPostgres(pool *pgxpool.Pool, codec *fieldcodec.Codec) *Postgres {
	return &Postgres{pool: pool, codec: codec}
}

func (s *Postgres) Create(ctx context.Context, document *models.Document) error {
	title, err := s.codec.Encrypt(document.Title)
	if err != nil {
		return fmt.Errorf("encrypt document title: %w", err)
	}
	description, err := s.codec.Encrypt(document.Description)
	if err != nil {
		return fmt.Errorf("encrypt document description: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (id, creator_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		document.ID, document.CreatorID, title, description,
		document.CreatedAt, document.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, documentID id.DocumentID) (*models.Document, error) {
	var document models.Document
	err := s.pool.QueryRow(ctx, `
		SELECT id, creator_id, title, description, created_at, updated_at
		FROM documents WHERE id = $1`, documentID,
	).Scan(&document.ID, &document.CreatorID, &document.Title, &document.Description,
		&document.CreatedAt, &document.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}

	if document.Title, err = s.codec.Decrypt(document.Title); err != nil {
		return nil, fmt.Errorf("decrypt document title: %w", err)
	}
	if document.Description, err = s.codec.Decrypt(document.Description); err != nil {
		return nil, fmt.Errorf("decrypt document description: %w", err)
	}
	return &document, nil
}
