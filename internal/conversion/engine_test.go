package conversion_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"crossclass/internal/conversion"
	"crossclass/internal/schema/models"
	"crossclass/internal/schema/store"
	id "crossclass/pkg/domain"
	"crossclass/pkg/requestcontext"
)

type EngineSuite struct {
	suite.Suite

	schemas   *store.InMemory
	converter *conversion.Strict
	ctx       context.Context
	now       time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.schemas = store.NewInMemory()
	s.converter = conversion.NewStrict(s.schemas)
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.registerSchema("USA", models.Mappings{
		ToUnclassified: "UNCLASSIFIED", ToRestricted: "RESTRICTED",
		ToConfidential: "CONFIDENTIAL", ToSecret: "SECRET", ToTopSecret: "TOP SECRET",
		FromUnclassified: "UNCLASSIFIED", FromRestricted: "RESTRICTED",
		FromConfidential: "CONFIDENTIAL", FromSecret: "SECRET", FromTopSecret: "TOP SECRET",
	}, "1.0", nil)
	s.registerSchema("FRA", models.Mappings{
		ToUnclassified: "Non Protégé", ToRestricted: "Diffusion Restreinte",
		ToConfidential: "Confidentiel Défense", ToSecret: "Secret Défense", ToTopSecret: "Très Secret Défense",
		FromUnclassified: "Non Protégé", FromRestricted: "Diffusion Restreinte",
		FromConfidential: "Confidentiel Défense", FromSecret: "Secret Défense", FromTopSecret: "Très Secret Défense",
	}, "1.0", nil)
	s.registerSchema("DEU", models.Mappings{
		ToUnclassified: "Offen", ToRestricted: "VS-NfD",
		ToConfidential: "VS-Vertraulich", ToSecret: "Geheim", ToTopSecret: "Streng Geheim",
		FromUnclassified: "Offen", FromRestricted: "VS-NfD",
		FromConfidential: "VS-Vertraulich", FromSecret: "Geheim", FromTopSecret: "Streng Geheim",
	}, "1.0", nil)
}

func (s *EngineSuite) registerSchema(code id.NationCode, mappings models.Mappings, version string, expiresAt *time.Time) {
	schema, err := models.NewSchema(code, mappings, "", version,
		id.NewAuthorityID(), id.NewUserID(), expiresAt, s.now.Add(-time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.schemas.Create(s.ctx, schema))
}

func (s *EngineSuite) usa() *models.ClassificationSchema {
	schema, err := s.schemas.Latest(s.ctx, "USA")
	s.Require().NoError(err)
	return schema
}

func (s *EngineSuite) fra() *models.ClassificationSchema {
	schema, err := s.schemas.Latest(s.ctx, "FRA")
	s.Require().NoError(err)
	return schema
}

func (s *EngineSuite) TestToReference() {
	s.Run("maps each national term to its reference level", func() {
		cases := map[string]id.ReferenceLevel{
			"UNCLASSIFIED": id.ReferenceUnclassified,
			"RESTRICTED":   id.ReferenceRestricted,
			"CONFIDENTIAL": id.ReferenceConfidential,
			"SECRET":       id.ReferenceSecret,
			"TOP SECRET":   id.ReferenceTopSecret,
		}
		for input, want := range cases {
			level, err := conversion.ToReference(s.usa(), input)
			s.NoError(err)
			s.Equal(want, level)
		}
	})

	s.Run("trims and uppercases input", func() {
		level, err := conversion.ToReference(s.fra(), "  secret défense \t")
		s.NoError(err)
		s.Equal(id.ReferenceSecret, level)
	})

	s.Run("unknown term enumerates the valid options", func() {
		_, err := conversion.ToReference(s.fra(), "Ultra Secret")
		var unknown *conversion.UnknownClassificationError
		s.ErrorAs(err, &unknown)
		s.Equal(id.NationCode("FRA"), unknown.NationCode)
		s.Equal("Ultra Secret", unknown.Input)
		s.Contains(unknown.ValidOptions, "Très Secret Défense")
		s.Len(unknown.ValidOptions, 5)
	})

	s.Run("first match wins when two levels share a term", func() {
		degenerate, err := models.NewSchema("XXA", models.Mappings{
			ToUnclassified: "GENERAL", ToRestricted: "GENERAL",
			ToConfidential: "CONFIDENTIAL", ToSecret: "SECRET", ToTopSecret: "TOP SECRET",
			FromUnclassified: "GENERAL", FromRestricted: "GENERAL",
			FromConfidential: "CONFIDENTIAL", FromSecret: "SECRET", FromTopSecret: "TOP SECRET",
		}, "", "1.0", id.NewAuthorityID(), id.NewUserID(), nil, s.now)
		s.Require().NoError(err)

		level, err := conversion.ToReference(degenerate, "general")
		s.NoError(err)
		s.Equal(id.ReferenceUnclassified, level, "ambiguity resolves to the lowest level")
	})
}

func (s *EngineSuite) TestFromReference() {
	s.Run("canonical literals", func() {
		term, err := conversion.FromReference(s.fra(), "COSMIC TOP SECRET")
		s.NoError(err)
		s.Equal("Très Secret Défense", term)
	})

	s.Run("accepts bare synonyms", func() {
		term, err := conversion.FromReference(s.fra(), "secret")
		s.NoError(err)
		s.Equal("Secret Défense", term)
	})

	s.Run("accepts NATO TOP SECRET for the top level", func() {
		term, err := conversion.FromReference(s.fra(), "NATO TOP SECRET")
		s.NoError(err)
		s.Equal("Très Secret Défense", term)
	})

	s.Run("unknown reference text", func() {
		_, err := conversion.FromReference(s.fra(), "ATOMAL")
		var unknown *conversion.UnknownReferenceLevelError
		s.ErrorAs(err, &unknown)
		s.Equal("ATOMAL", unknown.Input)
		s.Len(unknown.ValidOptions, 5)
	})
}

func (s *EngineSuite) TestConvert() {
	s.Run("fans a source classification out to every target", func() {
		result, err := s.converter.Convert(s.ctx, "USA", "SECRET",
			[]id.NationCode{"FRA", "DEU"})
		s.Require().NoError(err)

		s.Equal(id.ReferenceSecret, result.Reference)
		s.Equal("Secret Défense", result.Targets["FRA"])
		s.Equal("Geheim", result.Targets["DEU"])
		s.Len(result.Targets, 2)
		s.Nil(result.ExpiresAt)
	})

	s.Run("input casing and whitespace do not matter", func() {
		result, err := s.converter.Convert(s.ctx, "FRA", "  confidentiel défense ",
			[]id.NationCode{"USA"})
		s.Require().NoError(err)
		s.Equal("CONFIDENTIAL", result.Targets["USA"])
	})

	s.Run("empty target list is rejected", func() {
		_, err := s.converter.Convert(s.ctx, "USA", "SECRET", nil)
		s.ErrorIs(err, conversion.ErrAtLeastOneTarget)
	})

	s.Run("missing source schema", func() {
		_, err := s.converter.Convert(s.ctx, "ZZZ", "SECRET", []id.NationCode{"FRA"})
		var notFound *conversion.SchemaNotFoundError
		s.ErrorAs(err, &notFound)
		s.Equal(id.NationCode("ZZZ"), notFound.NationCode)
	})

	s.Run("one missing target aborts the whole conversion", func() {
		_, err := s.converter.Convert(s.ctx, "USA", "SECRET",
			[]id.NationCode{"FRA", "ZZZ"})
		var notFound *conversion.SchemaNotFoundError
		s.ErrorAs(err, &notFound)
		s.Equal(id.NationCode("ZZZ"), notFound.NationCode)
	})

	s.Run("one expired target aborts the whole conversion", func() {
		expired := s.now.Add(-time.Minute)
		s.registerSchema("ITA", models.Mappings{
			ToUnclassified: "Non Classificato", ToRestricted: "Riservato",
			ToConfidential: "Riservatissimo", ToSecret: "Segreto", ToTopSecret: "Segretissimo",
			FromUnclassified: "Non Classificato", FromRestricted: "Riservato",
			FromConfidential: "Riservatissimo", FromSecret: "Segreto", FromTopSecret: "Segretissimo",
		}, "1.0", &expired)

		_, err := s.converter.Convert(s.ctx, "USA", "SECRET",
			[]id.NationCode{"FRA", "ITA"})
		var exp *conversion.SchemaExpiredError
		s.ErrorAs(err, &exp)
		s.Equal(id.NationCode("ITA"), exp.NationCode)
		s.Equal(expired, exp.ExpiredAt)
	})

	s.Run("expired source schema has no fallback to older versions", func() {
		expired := s.now.Add(-time.Hour)
		s.registerSchema("NLD", models.Mappings{
			ToUnclassified: "Ongerubriceerd", ToRestricted: "Departementaal Vertrouwelijk",
			ToConfidential: "Stg. Confidentieel", ToSecret: "Stg. Geheim", ToTopSecret: "Stg. Zeer Geheim",
			FromUnclassified: "Ongerubriceerd", FromRestricted: "Departementaal Vertrouwelijk",
			FromConfidential: "Stg. Confidentieel", FromSecret: "Stg. Geheim", FromTopSecret: "Stg. Zeer Geheim",
		}, "1.0", &expired)

		_, err := s.converter.Convert(s.ctx, "NLD", "Stg. Geheim", []id.NationCode{"USA"})
		var exp *conversion.SchemaExpiredError
		s.ErrorAs(err, &exp)
		s.Equal(id.NationCode("NLD"), exp.NationCode)
	})

	s.Run("result carries the earliest schema expiry", func() {
		soonest := s.now.Add(time.Hour)
		later := s.now.Add(48 * time.Hour)
		s.registerSchema("CAN", models.Mappings{
			ToUnclassified: "UNCLASSIFIED", ToRestricted: "PROTECTED A",
			ToConfidential: "CONFIDENTIAL", ToSecret: "SECRET", ToTopSecret: "TOP SECRET",
			FromUnclassified: "UNCLASSIFIED", FromRestricted: "PROTECTED A",
			FromConfidential: "CONFIDENTIAL", FromSecret: "SECRET", FromTopSecret: "TOP SECRET",
		}, "1.0", &soonest)
		s.registerSchema("ESP", models.Mappings{
			ToUnclassified: "Sin Clasificar", ToRestricted: "Difusión Limitada",
			ToConfidential: "Confidencial", ToSecret: "Reservado", ToTopSecret: "Secreto",
			FromUnclassified: "Sin Clasificar", FromRestricted: "Difusión Limitada",
			FromConfidential: "Confidencial", FromSecret: "Reservado", FromTopSecret: "Secreto",
		}, "1.0", &later)

		result, err := s.converter.Convert(s.ctx, "USA", "SECRET",
			[]id.NationCode{"CAN", "ESP"})
		s.Require().NoError(err)
		s.Require().NotNil(result.ExpiresAt)
		s.Equal(soonest, *result.ExpiresAt)
	})

	s.Run("newest schema version wins", func() {
		newer, err := models.NewSchema("DEU", models.Mappings{
			ToUnclassified: "Offen", ToRestricted: "VS-Nur für den Dienstgebrauch",
			ToConfidential: "VS-Vertraulich", ToSecret: "VS-Geheim", ToTopSecret: "VS-Streng Geheim",
			FromUnclassified: "Offen", FromRestricted: "VS-Nur für den Dienstgebrauch",
			FromConfidential: "VS-Vertraulich", FromSecret: "VS-Geheim", FromTopSecret: "VS-Streng Geheim",
		}, "", "2.0", id.NewAuthorityID(), id.NewUserID(), nil, s.now.Add(-time.Minute))
		s.Require().NoError(err)
		s.Require().NoError(s.schemas.Create(s.ctx, newer))

		result, err := s.converter.Convert(s.ctx, "USA", "SECRET", []id.NationCode{"DEU"})
		s.Require().NoError(err)
		s.Equal("VS-Geheim", result.Targets["DEU"])
	})
}

func TestRoundTripPreservesLevel(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	schema, err := models.NewSchema("FRA", models.Mappings{
		ToUnclassified: "Non Protégé", ToRestricted: "Diffusion Restreinte",
		ToConfidential: "Confidentiel Défense", ToSecret: "Secret Défense", ToTopSecret: "Très Secret Défense",
		FromUnclassified: "Non Protégé", FromRestricted: "Diffusion Restreinte",
		FromConfidential: "Confidentiel Défense", FromSecret: "Secret Défense", FromTopSecret: "Très Secret Défense",
	}, "", "1.0", id.NewAuthorityID(), id.NewUserID(), nil, now)
	require.NoError(t, err)

	for _, level := range id.ReferenceLevels {
		national, err := conversion.FromReference(schema, level.String())
		require.NoError(t, err)

		back, err := conversion.ToReference(schema, national)
		require.NoError(t, err)
		require.Equal(t, level, back)
	}
}
