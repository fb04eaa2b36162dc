// Package seed loads demonstration directory entries and classification
// schemas. It runs only against the in-memory stores, giving a fresh process
// a working set of nations to convert between.
package seed

import (
	"context"
	"log/slog"

	directoryservice "crossclass/internal/directory/service"
	schemamodels "crossclass/internal/schema/models"
	schemaservice "crossclass/internal/schema/service"
	"crossclass/pkg/requestcontext"

	id "crossclass/pkg/domain"
)

type nationSeed struct {
	code      string
	name      string
	authority string
	email     string
	levels    [5]string
	caveats   string
}

var nations = []nationSeed{
	{
		code: "USA", name: "United States of America",
		authority: "Defense Counterintelligence and Security Agency", email: "dcsa@example.mil",
		levels:  [5]string{"UNCLASSIFIED", "RESTRICTED", "CONFIDENTIAL", "SECRET", "TOP SECRET"},
		caveats: "NOFORN",
	},
	{
		code: "GBR", name: "United Kingdom",
		authority: "UK Security Vetting", email: "uksv@example.gov.uk",
		levels: [5]string{"OFFICIAL", "OFFICIAL-SENSITIVE", "CONFIDENTIAL", "SECRET", "TOP SECRET"},
	},
	{
		code: "FRA", name: "France",
		authority: "Secrétariat Général de la Défense et de la Sécurité Nationale", email: "sgdsn@example.fr",
		levels:  [5]string{"Non Protégé", "Diffusion Restreinte", "Confidentiel Défense", "Secret Défense", "Très Secret Défense"},
		caveats: "Spécial France",
	},
	{
		code: "DEU", name: "Germany",
		authority: "Bundesamt für Sicherheit in der Informationstechnik", email: "bsi@example.de",
		levels: [5]string{"Offen", "VS-NfD", "VS-Vertraulich", "Geheim", "Streng Geheim"},
	},
	{
		code: "ITA", name: "Italy",
		authority: "Presidenza del Consiglio dei Ministri", email: "pcm@example.it",
		levels: [5]string{"Non Classificato", "Riservato", "Riservatissimo", "Segreto", "Segretissimo"},
	},
	{
		code: "CAN", name: "Canada",
		authority: "Canadian Security Intelligence Service", email: "csis@example.ca",
		levels: [5]string{"UNCLASSIFIED", "PROTECTED A", "CONFIDENTIAL", "SECRET", "TOP SECRET"},
	},
	{
		code: "ESP", name: "Spain",
		authority: "Centro Nacional de Inteligencia", email: "cni@example.es",
		levels: [5]string{"Sin Clasificar", "Difusión Limitada", "Confidencial", "Reservado", "Secreto"},
	},
	{
		code: "NLD", name: "Netherlands",
		authority: "Algemene Inlichtingen- en Veiligheidsdienst", email: "aivd@example.nl",
		levels: [5]string{"Ongerubriceerd", "Departementaal Vertrouwelijk", "Stg. Confidentieel", "Stg. Geheim", "Stg. Zeer Geheim"},
	},
}

// Demo populates the directory and schema registry with a working set of
// nations, one authority per nation, and one schema version per nation.
func Demo(ctx context.Context, directory *directoryservice.Service,
	registry *schemaservice.Service, logger *slog.Logger) error {

	// Seeded rows are attributed to a synthetic system user.
	ctx = requestcontext.WithUserID(ctx, id.NewUserID())

	for _, n := range nations {
		nation, err := directory.CreateNation(ctx, n.code, n.name)
		if err != nil {
			return err
		}
		authority, err := directory.CreateAuthority(ctx, nation.ID, n.authority, n.email, "", nil)
		if err != nil {
			return err
		}

		mappings := schemamodels.Mappings{
			ToUnclassified: n.levels[0], ToRestricted: n.levels[1],
			ToConfidential: n.levels[2], ToSecret: n.levels[3], ToTopSecret: n.levels[4],
			FromUnclassified: n.levels[0], FromRestricted: n.levels[1],
			FromConfidential: n.levels[2], FromSecret: n.levels[3], FromTopSecret: n.levels[4],
		}
		if _, err := registry.RegisterVersion(ctx, n.code, mappings, n.caveats, "1.0", authority.ID, nil); err != nil {
			return err
		}
	}

	logger.Info("seeded demo data", "nations", len(nations))
	return nil
}
