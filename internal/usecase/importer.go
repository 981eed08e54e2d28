package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
)

// SourceMapping describes how one vendor's field names map onto the canonical
// schema. Mappings are plain data so a new source is a configuration change,
// not a code change.
type SourceMapping struct {
	// DataSource tags every record produced from this mapping.
	DataSource domain.DataSource
	// NameField is the vendor field holding the canonical display name.
	NameField string
	// SourceIDField is the vendor field holding the external identifier.
	SourceIDField string
	// CategoryField is the vendor field holding the category, if any.
	CategoryField string
	// Nutrients maps vendor field names to canonical nutrient field names
	// (the keys of the nutrient registry, e.g. "calories_per_100g").
	Nutrients map[string]string
	// Categories normalizes vendor category strings. Unmapped categories
	// pass through unchanged.
	Categories map[string]string
}

// Record is one raw vendor row: vendor field name to raw value.
type Record map[string]string

// RowError describes a single rejected row. Row errors never abort a batch.
type RowError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Index, e.Reason)
}

// ImportResult summarizes one batch.
type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Rejected []RowError `json:"rejected"`
}

// Importer bulk-loads vendor records into FoodItem + NutritionData pairs.
// Each batch is atomic: a storage failure rolls the whole batch back, while
// malformed rows are merely counted and skipped.
type Importer struct {
	store    domain.Store
	mappings map[domain.DataSource]SourceMapping
	log      *logger.Logger
}

// NewImporter creates an importer recognizing the given source mappings.
func NewImporter(store domain.Store, log *logger.Logger, mappings ...SourceMapping) *Importer {
	m := make(map[domain.DataSource]SourceMapping, len(mappings))
	for _, mapping := range mappings {
		m[mapping.DataSource] = mapping
	}
	return &Importer{store: store, mappings: m, log: log}
}

// Import loads one batch of records attributed to the given source.
//
// Rows missing the canonical name or source id, or carrying invalid nutrient
// values, are rejected individually. Rows whose (data_source, source_id) pair
// already exists, or whose food item already carries nutrition data, are
// counted as skipped. Unparseable numerics become absent values, never zero.
func (im *Importer) Import(ctx context.Context, source domain.DataSource, records []Record) (*ImportResult, error) {
	mapping, ok := im.mappings[source]
	if !ok {
		return nil, fmt.Errorf("%w: no mapping registered for source %q", domain.ErrValidation, source)
	}

	result := &ImportResult{}
	err := im.store.WithinTransaction(ctx, func(tx domain.Store) error {
		for i, record := range records {
			if err := im.importRow(ctx, tx, mapping, i, record, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.log.Info("import batch committed",
		"source", source,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"rejected", len(result.Rejected))
	return result, nil
}

// importRow processes one record. A non-nil return aborts the batch; row
// problems are recorded on result instead.
func (im *Importer) importRow(
	ctx context.Context,
	tx domain.Store,
	mapping SourceMapping,
	index int,
	record Record,
	result *ImportResult,
) error {
	name := strings.TrimSpace(record[mapping.NameField])
	sourceID := strings.TrimSpace(record[mapping.SourceIDField])
	if name == "" {
		result.Rejected = append(result.Rejected, RowError{Index: index, Reason: "missing canonical name"})
		return nil
	}
	if sourceID == "" {
		result.Rejected = append(result.Rejected, RowError{Index: index, Reason: "missing source id"})
		return nil
	}

	// Dedup by (data_source, source_id): re-importing the same batch must
	// not duplicate entities.
	if _, err := tx.Nutrition().GetBySourceID(ctx, mapping.DataSource, sourceID); err == nil {
		result.Skipped++
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	category := normalizeCategory(mapping, record)

	data := &domain.NutritionData{
		DataSource: mapping.DataSource,
		SourceID:   sourceID,
	}

	slots := nutrientPointers(data)
	for vendorField, canonical := range mapping.Nutrients {
		raw, ok := record[vendorField]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		value, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if perr != nil {
			// Unparseable values stay absent rather than becoming zero.
			continue
		}
		slot, known := slots[canonical]
		if !known {
			continue
		}
		v := value
		*slot = &v
	}

	fillPreservationDefaults(data, category)

	// Validate before touching the catalog so a rejected row leaves no
	// partial state behind.
	if verr := ValidateNutrition(data); verr != nil {
		result.Rejected = append(result.Rejected, RowError{Index: index, Reason: verr.Error()})
		return nil
	}

	food, err := tx.Foods().GetByName(ctx, name)
	switch {
	case err == nil:
		// Existing item: keep it, but a second nutrition record is a skip.
		if _, nerr := tx.Nutrition().GetByFoodID(ctx, food.ID); nerr == nil {
			result.Skipped++
			return nil
		} else if !errors.Is(nerr, domain.ErrNotFound) {
			return nerr
		}
	case errors.Is(err, domain.ErrNotFound):
		food = &domain.FoodItem{CanonicalName: name, Category: category}
		if cerr := tx.Foods().Create(ctx, food); cerr != nil {
			return cerr
		}
	default:
		return err
	}

	data.FoodItemID = food.ID
	if cerr := tx.Nutrition().Create(ctx, data); cerr != nil {
		return cerr
	}
	result.Imported++
	return nil
}

// normalizeCategory maps the vendor category through the mapping table;
// unmapped categories pass through unchanged.
func normalizeCategory(mapping SourceMapping, record Record) string {
	raw := strings.TrimSpace(record[mapping.CategoryField])
	if raw == "" {
		return ""
	}
	for vendor, canonical := range mapping.Categories {
		if strings.EqualFold(vendor, raw) || strings.Contains(strings.ToLower(raw), strings.ToLower(vendor)) {
			return canonical
		}
	}
	return raw
}

// fillPreservationDefaults estimates spoilage risk, storage recommendation
// and shelf life from the category and water content when the source did not
// provide them.
func fillPreservationDefaults(data *domain.NutritionData, category string) {
	if data.SpoilageRiskLevel != "" {
		return
	}

	risk, storage, shelfLife := estimateSpoilage(category, data.WaterContentPercent)
	data.SpoilageRiskLevel = risk
	if data.RecommendedStorage == "" {
		data.RecommendedStorage = storage
	}
	if data.ShelfLifeDays == nil {
		data.ShelfLifeDays = &shelfLife
	}
}

func estimateSpoilage(category string, waterContent *float64) (domain.SpoilageRisk, string, int) {
	switch category {
	case "Fish & Seafood", "Meat & Poultry", "Dairy":
		return domain.SpoilageHigh, "refrigerate", 2
	case "Vegetables", "Fruits":
		if waterContent != nil && *waterContent > 85 {
			return domain.SpoilageHigh, "refrigerate", 5
		}
		return domain.SpoilageMedium, "refrigerate", 7
	default:
		return domain.SpoilageLow, "room_temp", 30
	}
}

// ReadCSVRecords parses vendor rows from CSV. The header row supplies the
// vendor field names.
func ReadCSVRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		record := make(Record, len(header))
		for i, field := range header {
			if i < len(row) {
				record[field] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// ReadJSONRecords parses vendor rows from a JSON array of flat objects.
// Numbers are carried as their decimal representation.
func ReadJSONRecords(r io.Reader) ([]Record, error) {
	var raw []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding json records: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, obj := range raw {
		record := make(Record, len(obj))
		for field, value := range obj {
			switch v := value.(type) {
			case string:
				record[field] = v
			case float64:
				record[field] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				record[field] = strconv.FormatBool(v)
			case nil:
				// absent
			default:
				record[field] = fmt.Sprintf("%v", v)
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// DefaultMappings returns the shipped USDA and FAO mapping tables. The FAO
// table uses INFOODS tagnames; the USDA one uses FoodData Central report
// column names.
func DefaultMappings() []SourceMapping {
	sharedCategories := map[string]string{
		"vegetables": "Vegetables",
		"fruits":     "Fruits",
		"dairy":      "Dairy",
		"meat":       "Meat & Poultry",
		"poultry":    "Meat & Poultry",
		"fish":       "Fish & Seafood",
		"seafood":    "Fish & Seafood",
		"grains":     "Grains",
		"cereals":    "Grains",
		"legumes":    "Legumes",
		"nuts":       "Nuts & Seeds",
	}

	return []SourceMapping{
		{
			DataSource:    domain.SourceUSDA,
			NameField:     "Description",
			SourceIDField: "FDC ID",
			CategoryField: "Food Category",
			Nutrients: map[string]string{
				"Energy (kcal)":       "calories_per_100g",
				"Protein (g)":         "protein_per_100g",
				"Carbohydrate (g)":    "carbs_per_100g",
				"Total lipid (g)":     "fat_per_100g",
				"Fiber (g)":           "fiber_per_100g",
				"Sugars (g)":          "sugar_per_100g",
				"Vitamin A, RAE (ug)": "vitamin_a_mcg",
				"Vitamin C (mg)":      "vitamin_c_mg",
				"Vitamin D (ug)":      "vitamin_d_mcg",
				"Vitamin E (mg)":      "vitamin_e_mg",
				"Vitamin K (ug)":      "vitamin_k_mcg",
				"Thiamin (mg)":        "vitamin_b1_mg",
				"Riboflavin (mg)":     "vitamin_b2_mg",
				"Niacin (mg)":         "vitamin_b3_mg",
				"Vitamin B-6 (mg)":    "vitamin_b6_mg",
				"Vitamin B-12 (ug)":   "vitamin_b12_mcg",
				"Folate, total (ug)":  "folate_mcg",
				"Calcium (mg)":        "calcium_mg",
				"Iron (mg)":           "iron_mg",
				"Magnesium (mg)":      "magnesium_mg",
				"Phosphorus (mg)":     "phosphorus_mg",
				"Potassium (mg)":      "potassium_mg",
				"Sodium (mg)":         "sodium_mg",
				"Zinc (mg)":           "zinc_mg",
				"Water (g)":           "water_content_percent",
			},
			Categories: sharedCategories,
		},
		{
			DataSource:    domain.SourceFAO,
			NameField:     "FOODNAME",
			SourceIDField: "FOODID",
			CategoryField: "FOODGROUP",
			Nutrients: map[string]string{
				"ENERC":   "calories_per_100g",
				"PROCNT":  "protein_per_100g",
				"CHOAVL":  "carbs_per_100g",
				"FAT":     "fat_per_100g",
				"FIBTG":   "fiber_per_100g",
				"SUGAR":   "sugar_per_100g",
				"VITA":    "vitamin_a_mcg",
				"VITC":    "vitamin_c_mg",
				"VITD":    "vitamin_d_mcg",
				"VITE":    "vitamin_e_mg",
				"VITK":    "vitamin_k_mcg",
				"THIA":    "vitamin_b1_mg",
				"RIBF":    "vitamin_b2_mg",
				"NIA":     "vitamin_b3_mg",
				"VITB6":   "vitamin_b6_mg",
				"VITB12":  "vitamin_b12_mcg",
				"FOL":     "folate_mcg",
				"CA":      "calcium_mg",
				"FE":      "iron_mg",
				"MG":      "magnesium_mg",
				"P":       "phosphorus_mg",
				"K":       "potassium_mg",
				"NA":      "sodium_mg",
				"ZN":      "zinc_mg",
				"WATER":   "water_content_percent",
			},
			Categories: sharedCategories,
		},
	}
}
