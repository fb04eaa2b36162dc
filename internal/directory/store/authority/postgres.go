package authority

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crossclass/internal/directory/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// Postgres persists authorities in the authorities table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const authorityColumns = `id, nation_id, name, email, phone, creator_id, created_at, updated_at, expires_at`

func (s *Postgres) Create(ctx context.Context, authority *models.Authority) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO authorities (id, nation_id, name, email, phone, creator_id, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		authority.ID, authority.NationID, authority.Name, authority.Email, authority.Phone,
		authority.CreatorID, authority.CreatedAt, authority.UpdatedAt, authority.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert authority: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, authorityID id.AuthorityID) (*models.Authority, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE id = $1`, authorityID)
	return scanAuthority(row)
}

func (s *Postgres) ListByNation(ctx context.Context, nationID id.NationID) ([]*models.Authority, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE nation_id = $1 ORDER BY name`, nationID)
	if err != nil {
		return nil, fmt.Errorf("list authorities: %w", err)
	}
	defer rows.Close()

	var authorities []*models.Authority
	for rows.Next() {
		authority, err := scanAuthority(rows)
		if err != nil {
			return nil, err
		}
		authorities = append(authorities, authority)
	}
	return authorities, rows.Err()
}

func scanAuthority(row pgx.Row) (*models.Authority, error) {
	var authority models.Authority
	err := row.Scan(&authority.ID, &authority.NationID, &authority.Name, &authority.Email,
		&authority.Phone, &authority.CreatorID, &authority.CreatedAt, &authority.UpdatedAt,
		&authority.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan authority: %w", err)
	}
	return &authority, nil
}
