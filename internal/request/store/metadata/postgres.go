package metadata

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

// Postgres persists metadata with the authorization reference encrypted at
// rest.
type Postgres struct {
	pool  *pgxpool.Pool
	codec *fieldcodec.Codec
}

func NewPostgres(pool *pgxpool.Pool, codec *fieldcodec.Codec) *Postgres {
	return &Postgres{pool: pool, codec: codec}
}

const metadataColumns = `id, document_id, creator_id, identifier,
	originator_authority_id, custodian_authority_id, format, format_size,
	security_classification, releasable_to, releasable_to_organizations,
	releasable_to_categories, disclosure_category, handling_restrictions,
	handling_authority, no_handling_restrictions, authorization_reference,
	authorization_reference_date, domain, tags, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, meta *models.Metadata) error {
	authRef, err := s.codec.EncryptPtr(meta.AuthorizationReference)
	if err != nil {
		return fmt.Errorf("encrypt authorization reference: %w", err)
	}

	releasable := make([]string, len(meta.ReleasableTo))
	for i, code := range meta.ReleasableTo {
		releasable[i] = string(code)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO metadata (`+metadataColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22)`,
		meta.ID, meta.DocumentID, meta.CreatorID, meta.Identifier,
		meta.OriginatorAuthorityID, meta.CustodianAuthorityID,
		meta.Format, meta.FormatSize, meta.SecurityClassification,
		releasable, orEmpty(meta.ReleasableToOrgs), orEmpty(meta.ReleasableToCategories),
		meta.DisclosureCategory, meta.HandlingRestrictions,
		meta.HandlingAuthority, meta.NoHandlingRestrictions, authRef,
		meta.AuthorizationReferenceDate, meta.Domain, orEmpty(meta.Tags),
		meta.CreatedAt, meta.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert metadata: %w", err)
	}
	return nil
}

// orEmpty keeps nil slices out of NOT NULL array columns.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (s *Postgres) FindByID(ctx context.Context, metadataID id.MetadataID) (*models.Metadata, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+metadataColumns+` FROM metadata WHERE id = $1`, metadataID)
	return s.scanMetadata(row)
}

func (s *Postgres) FindByDocumentID(ctx context.Context, documentID id.DocumentID) (*models.Metadata, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+metadataColumns+` FROM metadata WHERE document_id = $1`, documentID)
	return s.scanMetadata(row)
}

func (s *Postgres) scanMetadata(row pgx.Row) (*models.Metadata, error) {
	var meta models.Metadata
	var releasable []string
	err := row.Scan(&meta.ID, &meta.DocumentID, &meta.CreatorID, &meta.Identifier,
		&meta.OriginatorAuthorityID, &meta.CustodianAuthorityID,
		&meta.Format, &meta.FormatSize, &meta.SecurityClassification,
		&releasable, &meta.ReleasableToOrgs, &meta.ReleasableToCategories,
		&meta.DisclosureCategory, &meta.HandlingRestrictions,
		&meta.HandlingAuthority, &meta.NoHandlingRestrictions,
		&meta.AuthorizationReference, &meta.AuthorizationReferenceDate,
		&meta.Domain, &meta.Tags, &meta.CreatedAt, &meta.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan metadata: %w", err)
	}

	meta.ReleasableTo = make([]id.NationCode, len(releasable))
	for i, code := range releasable {
		meta.ReleasableTo[i] = id.NationCode(code)
	}
	if meta.AuthorizationReference, err = s.codec.DecryptPtr(meta.AuthorizationReference); err != nil {
		return nil, fmt.Errorf("decrypt authorization reference: %w", err)
	}
	return &meta, nil
}
