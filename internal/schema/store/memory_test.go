package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crossclass/internal/schema/models"
	"crossclass/internal/schema/store"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

func newSchema(t *testing.T, code id.NationCode, version string, createdAt time.Time) *models.ClassificationSchema {
	t.Helper()
	schema, err := models.NewSchema(code, models.Mappings{
		ToUnclassified: "U", ToRestricted: "R", ToConfidential: "C",
		ToSecret: "S", ToTopSecret: "TS",
		FromUnclassified: "U", FromRestricted: "R", FromConfidential: "C",
		FromSecret: "S", FromTopSecret: "TS",
	}, "", version, id.NewAuthorityID(), id.NewUserID(), nil, createdAt)
	require.NoError(t, err)
	return schema
}

func TestInMemoryVersioning(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, newSchema(t, "USA", "1.0", base)))
	require.NoError(t, s.Create(ctx, newSchema(t, "USA", "2.0", base.Add(time.Hour))))

	t.Run("duplicate version conflicts", func(t *testing.T) {
		err := s.Create(ctx, newSchema(t, "USA", "2.0", base.Add(2*time.Hour)))
		require.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("latest is greatest created_at", func(t *testing.T) {
		latest, err := s.Latest(ctx, "USA")
		require.NoError(t, err)
		require.Equal(t, "2.0", latest.Version)
	})

	t.Run("absent nation is not found", func(t *testing.T) {
		_, err := s.Latest(ctx, "XYZ")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("latest many omits absent codes", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, newSchema(t, "GBR", "1.0", base)))
		latest, err := s.LatestMany(ctx, []id.NationCode{"USA", "GBR", "XYZ"})
		require.NoError(t, err)
		require.Len(t, latest, 2)
		require.Contains(t, latest, id.NationCode("USA"))
		require.Contains(t, latest, id.NationCode("GBR"))
	})

	t.Run("history is newest first", func(t *testing.T) {
		history, err := s.ListByNation(ctx, "USA")
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.Equal(t, "2.0", history[0].Version)
	})

	t.Run("lookup by version", func(t *testing.T) {
		schema, err := s.ByNationAndVersion(ctx, "USA", "1.0")
		require.NoError(t, err)
		require.Equal(t, "1.0", schema.Version)

		_, err = s.ByNationAndVersion(ctx, "USA", "3.0")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("stored rows are isolated from caller mutation", func(t *testing.T) {
		latest, err := s.Latest(ctx, "USA")
		require.NoError(t, err)
		latest.ToSecret = "TAMPERED"

		again, err := s.Latest(ctx, "USA")
		require.NoError(t, err)
		require.Equal(t, "S", again.ToSecret)
	})
}
