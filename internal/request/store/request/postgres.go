package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// Postgres persists requests in the conversion_requests table. Target codes
// are stored as a text array.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const requestColumns = `id, creator_id, authority_id, document_id, source_nation_code,
	source_classification, target_nation_codes, created_at, updated_at, completed_at`

func (s *Postgres) Create(ctx context.Context, request *models.ConversionRequest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversion_requests
			(id, creator_id, authority_id, document_id, source_nation_code,
			 source_classification, target_nation_codes, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		request.ID, request.CreatorID, request.AuthorityID, request.DocumentID,
		string(request.SourceCode), request.SourceClassification,
		codesToStrings(request.TargetCodes),
		request.CreatedAt, request.UpdatedAt, request.CompletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert conversion request: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, requestID id.RequestID) (*models.ConversionRequest, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM conversion_requests WHERE id = $1`, requestID)
	return scanRequest(row)
}

func (s *Postgres) FindByDocumentID(ctx context.Context, documentID id.DocumentID) (*models.ConversionRequest, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM conversion_requests WHERE document_id = $1`, documentID)
	return scanRequest(row)
}

func (s *Postgres) Update(ctx context.Context, request *models.ConversionRequest) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE conversion_requests
		SET completed_at = $2, updated_at = $3
		WHERE id = $1`,
		request.ID, request.CompletedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update conversion request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) ListByCreator(ctx context.Context, creator id.UserID) ([]*models.ConversionRequest, error) {
	return s.list(ctx, `creator_id = $1`, creator)
}

func (s *Postgres) ListByAuthority(ctx context.Context, authorityID id.AuthorityID) ([]*models.ConversionRequest, error) {
	return s.list(ctx, `authority_id = $1`, authorityID)
}

func (s *Postgres) ListBySourceNation(ctx context.Context, code id.NationCode) ([]*models.ConversionRequest, error) {
	return s.list(ctx, `source_nation_code = $1`, string(code))
}

func (s *Postgres) ListByTargetNation(ctx context.Context, code id.NationCode) ([]*models.ConversionRequest, error) {
	return s.list(ctx, `$1 = ANY(target_nation_codes)`, string(code))
}

func (s *Postgres) ListPending(ctx context.Context) ([]*models.ConversionRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM conversion_requests
		 WHERE completed_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return collectRequests(rows)
}

func (s *Postgres) ListCompleted(ctx context.Context) ([]*models.ConversionRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM conversion_requests
		 WHERE completed_at IS NOT NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list completed requests: %w", err)
	}
	return collectRequests(rows)
}

func (s *Postgres) list(ctx context.Context, where string, arg any) ([]*models.ConversionRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM conversion_requests
		 WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list conversion requests: %w", err)
	}
	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]*models.ConversionRequest, error) {
	defer rows.Close()
	var requests []*models.ConversionRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func scanRequest(row pgx.Row) (*models.ConversionRequest, error) {
	var request models.ConversionRequest
	var source string
	var targets []string
	err := row.Scan(&request.ID, &request.CreatorID, &request.AuthorityID,
		&request.DocumentID, &source, &request.SourceClassification, &targets,
		&request.CreatedAt, &request.UpdatedAt, &request.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversion request: %w", err)
	}
	request.SourceCode = id.NationCode(source)
	request.TargetCodes = make([]id.NationCode, len(targets))
	for i, t := range targets {
		request.TargetCodes[i] = id.NationCode(t)
	}
	return &request, nil
}

func codesToStrings(codes []id.NationCode) []string {
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = string(code)
	}
	return out
}
