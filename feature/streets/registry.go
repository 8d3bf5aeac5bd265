package streets

import (
	"context"
	"fmt"
	"strings"

	"street-sync/core/database"
	"street-sync/core/feed"
	"street-sync/core/reconcile"
	"street-sync/core/utils"
	"street-sync/feature/streets/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReferenceLanguage is the language of canonical street names.
const ReferenceLanguage = "fi"

// RegistryLoader loads the canonical registry for one run.
type RegistryLoader interface {
	Load(ctx context.Context) ([]reconcile.CanonicalStreet, error)
}

// Registry reads the canonical registry from the database.
type Registry struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRegistry creates a registry reader.
func NewRegistry(db *gorm.DB, logger *zap.Logger) *Registry {
	return &Registry{db: db, logger: logger}
}

// expectedColumns are the columns Load reads, per table.
var expectedColumns = map[string][]string{
	"municipalities":       {"id", "code"},
	"postal_codes":         {"id", "code"},
	"streets":              {"id", "municipality_id", "is_valid", "is_non_canonical"},
	"street_names":         {"street_id", "language", "name"},
	"street_number_ranges": {"id", "street_id", "start_number", "end_number", "parity", "postal_code_id", "is_valid"},
}

// CheckSchema reports missing tables or columns, e.g. "streets.is_valid".
func (r *Registry) CheckSchema() ([]string, error) {
	if r.db == nil {
		return nil, fmt.Errorf("registry database not connected")
	}
	var missing []string
	for _, table := range []string{"municipalities", "postal_codes", "streets", "street_names", "street_number_ranges"} {
		cols, err := database.MissingColumns(r.db, table, expectedColumns[table])
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			missing = append(missing, table+"."+c)
		}
	}
	return missing, nil
}

// rangeQuery joins ranges with their postal code so matching gets the code string.
const rangeQuery = `SELECT r.id, r.street_id, r.start_number, r.end_number, r.parity, r.is_valid, p.code AS postal_code
FROM street_number_ranges r
LEFT JOIN postal_codes p ON p.id = r.postal_code_id
ORDER BY r.street_id, r.id`

// Load reads and joins the registry.
// Streets without a municipality code or reference name, and ranges without a
// postal code or parity, are skipped: they cannot match anything.
func (r *Registry) Load(ctx context.Context) ([]reconcile.CanonicalStreet, error) {
	if r.db == nil {
		return nil, fmt.Errorf("registry database not connected")
	}
	db := r.db.WithContext(ctx)

	// Municipalities: id -> code
	var municipalities []models.Municipality
	if err := db.Find(&municipalities).Error; err != nil {
		return nil, fmt.Errorf("failed to load municipalities: %w", err)
	}
	codes := make(map[int]string, len(municipalities))
	for _, m := range municipalities {
		codes[m.ID] = strings.TrimSpace(m.Code)
	}

	// Reference names: street id -> name
	var names []models.StreetName
	if err := db.Where("language = ?", ReferenceLanguage).Order("id").Find(&names).Error; err != nil {
		return nil, fmt.Errorf("failed to load street names: %w", err)
	}
	nameOf := make(map[string]string, len(names))
	for _, n := range names {
		if _, seen := nameOf[n.StreetID]; !seen {
			nameOf[n.StreetID] = n.Name
		}
	}

	// Ranges with resolved postal codes
	ranges, skippedRanges, err := r.loadRanges(db)
	if err != nil {
		return nil, err
	}

	var streets []models.Street
	if err := db.Order("id").Find(&streets).Error; err != nil {
		return nil, fmt.Errorf("failed to load streets: %w", err)
	}

	result := make([]reconcile.CanonicalStreet, 0, len(streets))
	skippedStreets := 0
	for _, s := range streets {
		code, ok := codes[s.MunicipalityID]
		name := nameOf[s.ID]
		if !ok || code == "" || name == "" {
			skippedStreets++
			continue
		}
		result = append(result, reconcile.CanonicalStreet{
			ID:               s.ID,
			Name:             name,
			MunicipalityCode: code,
			IsValid:          s.IsValid,
			IsNonCanonical:   s.IsNonCanonical,
			Ranges:           ranges[s.ID],
		})
	}

	r.logger.Info("Loaded canonical registry",
		zap.Int("streets", len(result)),
		zap.Int("skipped_streets", skippedStreets),
		zap.Int("skipped_ranges", skippedRanges),
	)
	return result, nil
}

func (r *Registry) loadRanges(db *gorm.DB) (map[string][]reconcile.CanonicalRange, int, error) {
	rows, err := db.Raw(rangeQuery).Rows()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query street number ranges: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get columns: %w", err)
	}

	byStreet := make(map[string][]reconcile.CanonicalRange)
	skipped := 0
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan range row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}

		postal := strings.TrimSpace(utils.ToString(row["postal_code"]))
		parity := parseParity(row["parity"])
		if postal == "" || parity == feed.ParityUndefined {
			skipped++
			continue
		}

		streetID := utils.ToString(row["street_id"])
		byStreet[streetID] = append(byStreet[streetID], reconcile.CanonicalRange{
			ID:         utils.ToString(row["id"]),
			Start:      utils.ToInt(row["start_number"]),
			End:        utils.ToInt(row["end_number"]),
			Parity:     parity,
			PostalCode: postal,
			IsValid:    utils.ToBool(row["is_valid"]),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate range rows: %w", err)
	}
	return byStreet, skipped, nil
}

// parseParity accepts both the numeric (1 odd, 2 even) and the textual encoding.
func parseParity(v any) feed.Parity {
	switch strings.ToLower(strings.TrimSpace(utils.ToString(v))) {
	case "1", "odd", "o":
		return feed.ParityOdd
	case "2", "even", "e":
		return feed.ParityEven
	default:
		return feed.ParityUndefined
	}
}
