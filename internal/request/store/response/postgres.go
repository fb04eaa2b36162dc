package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// Postgres persists responses in the conversion_responses table. The target
// classification map is stored as jsonb; a UNIQUE constraint on request_id
// backs the one-response-per-request invariant.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const responseColumns = `id, request_id, document_id, reference_classification,
	target_classifications, created_at, expires_at`

func (s *Postgres) Create(ctx context.Context, response *models.ConversionResponse) error {
	targets, err := json.Marshal(response.TargetClassifications)
	if err != nil {
		return fmt.Errorf("encode target classifications: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO conversion_responses
			(id, request_id, document_id, reference_classification,
			 target_classifications, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		response.ID, response.RequestID, response.DocumentID,
		string(response.ReferenceClassification), targets,
		response.CreatedAt, response.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert conversion response: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, responseID id.ResponseID) (*models.ConversionResponse, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM conversion_responses WHERE id = $1`, responseID)
	return scanResponse(row)
}

func (s *Postgres) FindByRequestID(ctx context.Context, requestID id.RequestID) (*models.ConversionResponse, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM conversion_responses WHERE request_id = $1`, requestID)
	return scanResponse(row)
}

func (s *Postgres) FindByDocumentID(ctx context.Context, documentID id.DocumentID) (*models.ConversionResponse, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM conversion_responses WHERE document_id = $1`, documentID)
	return scanResponse(row)
}

func scanResponse(row pgx.Row) (*models.ConversionResponse, error) {
	var response models.ConversionResponse
	var reference string
	var targets []byte
	err := row.Scan(&response.ID, &response.RequestID, &response.DocumentID,
		&reference, &targets, &response.CreatedAt, &response.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversion response: %w", err)
	}
	response.ReferenceClassification = id.ReferenceLevel(reference)
	if err := json.Unmarshal(targets, &response.TargetClassifications); err != nil {
		return nil, fmt.Errorf("decode target classifications: %w", err)
	}
	return &response, nil
}
