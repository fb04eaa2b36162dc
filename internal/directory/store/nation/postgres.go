package nation

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

// Postgres persists nations in the nations table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const nationColumns = `id, code, name, creator_id, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, nation *models.Nation) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO nations (id, code, name, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		nation.ID, string(nation.Code), nation.Name, nation.CreatorID,
		nation.CreatedAt, nation.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert nation: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, nationID id.NationID) (*models.Nation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+nationColumns+` FROM nations WHERE id = $1`, nationID)
	return scanNation(row)
}

func (s *Postgres) FindByCode(ctx context.Context, code id.NationCode) (*models.Nation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+nationColumns+` FROM nations WHERE code = $1`, string(code))
	return scanNation(row)
}

func (s *Postgres) List(ctx context.Context) ([]*models.Nation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+nationColumns+` FROM nations ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list nations: %w", err)
	}
	defer rows.Close()

	var nations []*models.Nation
	for rows.Next() {
		nation, err := scanNation(rows)
		if err != nil {
			return nil, err
		}
		nations = append(nations, nation)
	}
	return nations, rows.Err()
}

func scanNation(row pgx.Row) (*models.Nation, error) {
	var nation models.Nation
	var code string
	err := row.Scan(&nation.ID, &code, &nation.Name, &nation.CreatorID,
		&nation.CreatedAt, &nation.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan nation: %w", err)
	}
	nation.Code = id.NationCode(code)
	return &nation, nil
}
