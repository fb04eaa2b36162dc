package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crossclass/internal/schema/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// Postgres persists schema versions in the classification_schemas table.
// The (nation_code, version) unique constraint backs the append-only model.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schemaColumns = `id, nation_code, creator_id, authority_id,
	to_nato_unclassified, to_nato_restricted, to_nato_confidential, to_nato_secret, to_nato_top_secret,
	from_nato_unclassified, from_nato_restricted, from_nato_confidential, from_nato_secret, from_nato_top_secret,
	caveats, version, created_at, updated_at, expires_at`

func (s *Postgres) Create(ctx context.Context, schema *models.ClassificationSchema) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO classification_schemas (`+schemaColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		schema.ID, string(schema.NationCode), schema.CreatorID, schema.AuthorityID,
		schema.ToUnclassified, schema.ToRestricted, schema.ToConfidential, schema.ToSecret, schema.ToTopSecret,
		schema.FromUnclassified, schema.FromRestricted, schema.FromConfidential, schema.FromSecret, schema.FromTopSecret,
		schema.Caveats, schema.Version, schema.CreatedAt, schema.UpdatedAt, schema.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert classification schema: %w", err)
	}
	return nil
}

func (s *Postgres) Latest(ctx context.Context, code id.NationCode) (*models.ClassificationSchema, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+schemaColumns+` FROM classification_schemas
		WHERE nation_code = $1
		ORDER BY created_at DESC
		LIMIT 1`, string(code))
	return scanSchema(row)
}

func (s *Postgres) LatestMany(ctx context.Context, codes []id.NationCode) (map[id.NationCode]*models.ClassificationSchema, error) {
	raw := make([]string, len(codes))
	for i, code := range codes {
		raw[i] = string(code)
	}
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (nation_code) `+schemaColumns+`
		FROM classification_schemas
		WHERE nation_code = ANY($1)
		ORDER BY nation_code, created_at DESC`, raw)
	if err != nil {
		return nil, fmt.Errorf("query latest schemas: %w", err)
	}
	defer rows.Close()

	result := make(map[id.NationCode]*models.ClassificationSchema, len(codes))
	for rows.Next() {
		schema, err := scanSchema(rows)
		if err != nil {
			return nil, err
		}
		result[schema.NationCode] = schema
	}
	return result, rows.Err()
}

func (s *Postgres) ByNationAndVersion(ctx context.Context, code id.NationCode, version string) (*models.ClassificationSchema, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+schemaColumns+` FROM classification_schemas
		WHERE nation_code = $1 AND version = $2`, string(code), version)
	return scanSchema(row)
}

func (s *Postgres) ListByNation(ctx context.Context, code id.NationCode) ([]*models.ClassificationSchema, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+schemaColumns+` FROM classification_schemas
		WHERE nation_code = $1
		ORDER BY created_at DESC`, string(code))
	if err != nil {
		return nil, fmt.Errorf("list schema versions: %w", err)
	}
	defer rows.Close()

	var versions []*models.ClassificationSchema
	for rows.Next() {
		schema, err := scanSchema(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, schema)
	}
	return versions, rows.Err()
}

func scanSchema(row pgx.Row) (*models.ClassificationSchema, error) {
	var schema models.ClassificationSchema
	var code string
	err := row.Scan(&schema.ID, &code, &schema.CreatorID, &schema.AuthorityID,
		&schema.ToUnclassified, &schema.ToRestricted, &schema.ToConfidential, &schema.ToSecret, &schema.ToTopSecret,
		&schema.FromUnclassified, &schema.FromRestricted, &schema.FromConfidential, &schema.FromSecret, &schema.FromTopSecret,
		&schema.Caveats, &schema.Version, &schema.CreatedAt, &schema.UpdatedAt, &schema.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan classification schema: %w", err)
	}
	schema.NationCode = id.NationCode(code)
	return &schema, nil
}
