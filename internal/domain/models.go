package domain

import "time"

// UserRole distinguishes ordinary consumers from platform administrators.
type UserRole string

const (
	RoleConsumer UserRole = "consumer"
	RoleAdmin    UserRole = "admin"
)

// DataSource is the provenance tag for a nutrition record.
type DataSource string

const (
	SourceUSDA   DataSource = "USDA"
	SourceFAO    DataSource = "FAO"
	SourceWHO    DataSource = "WHO"
	SourceManual DataSource = "Manual"
)

// Valid reports whether the tag is one of the recognized authorities.
func (s DataSource) Valid() bool {
	switch s {
	case SourceUSDA, SourceFAO, SourceWHO, SourceManual:
		return true
	}
	return false
}

// SpoilageRisk is a coarse storage-display property, independent of any
// ML-derived freshness score.
type SpoilageRisk string

const (
	SpoilageLow    SpoilageRisk = "low"
	SpoilageMedium SpoilageRisk = "medium"
	SpoilageHigh   SpoilageRisk = "high"
)

func (r SpoilageRisk) Valid() bool {
	switch r {
	case SpoilageLow, SpoilageMedium, SpoilageHigh:
		return true
	}
	return false
}

// User is a platform account. Passwords are stored bcrypt-hashed.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	FullName       string    `json:"full_name"`
	Role           UserRole  `gorm:"size:16;default:consumer" json:"role"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FoodItem is a catalog entry keyed by its canonical display name. The
// canonical name doubles as the join key for free-text label matching.
type FoodItem struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CanonicalName   string         `gorm:"uniqueIndex;not null" json:"canonical_name"`
	Category        string         `json:"category"`
	ExampleImageURL string         `json:"example_image_url,omitempty"`
	Nutrition       *NutritionData `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NutritionData holds the per-100g nutrient profile for exactly one FoodItem.
// Nutrient fields are pointers: nil means the source did not report the value,
// which is not the same as zero.
type NutritionData struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	FoodItemID uint       `gorm:"uniqueIndex;not null" json:"food_item_id"`
	DataSource DataSource `gorm:"size:16" json:"data_source"`
	SourceID   string     `gorm:"index" json:"source_id"`

	// Macronutrients (per 100g)
	CaloriesPer100g *float64 `json:"calories_per_100g"`
	ProteinPer100g  *float64 `json:"protein_per_100g"`
	CarbsPer100g    *float64 `json:"carbs_per_100g"`
	FatPer100g      *float64 `json:"fat_per_100g"`
	FiberPer100g    *float64 `json:"fiber_per_100g"`
	SugarPer100g    *float64 `json:"sugar_per_100g"`

	// Vitamins (per 100g)
	VitaminAMcg   *float64 `json:"vitamin_a_mcg"`
	VitaminCMg    *float64 `json:"vitamin_c_mg"`
	VitaminDMcg   *float64 `json:"vitamin_d_mcg"`
	VitaminEMg    *float64 `json:"vitamin_e_mg"`
	VitaminKMcg   *float64 `json:"vitamin_k_mcg"`
	VitaminB1Mg   *float64 `json:"vitamin_b1_mg"`
	VitaminB2Mg   *float64 `json:"vitamin_b2_mg"`
	VitaminB3Mg   *float64 `json:"vitamin_b3_mg"`
	VitaminB6Mg   *float64 `json:"vitamin_b6_mg"`
	VitaminB12Mcg *float64 `json:"vitamin_b12_mcg"`
	FolateMcg     *float64 `json:"folate_mcg"`

	// Minerals (per 100g)
	CalciumMg    *float64 `json:"calcium_mg"`
	IronMg       *float64 `json:"iron_mg"`
	MagnesiumMg  *float64 `json:"magnesium_mg"`
	PhosphorusMg *float64 `json:"phosphorus_mg"`
	PotassiumMg  *float64 `json:"potassium_mg"`
	SodiumMg     *float64 `json:"sodium_mg"`
	ZincMg       *float64 `json:"zinc_mg"`

	// Preservation properties
	WaterContentPercent *float64     `json:"water_content_percent"`
	SpoilageRiskLevel   SpoilageRisk `gorm:"size:8" json:"spoilage_risk_level"`
	RecommendedStorage  string       `json:"recommended_storage"`
	ShelfLifeDays       *int         `json:"shelf_life_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Inference is one stored prediction round-trip: the uploaded image, the
// predictor's label and scores, and the food item the label resolved to
// (nil when no catalog entry matched).
type Inference struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"index;not null" json:"user_id"`
	FoodItemID         *uint     `gorm:"index" json:"food_item_id"`
	ImagePath          string    `gorm:"not null" json:"image_path"`
	Label              string    `json:"label"`
	Confidence         float64   `json:"confidence"`
	ContaminationScore float64   `json:"contamination_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// OTPCode is a single-use admin login code, bcrypt-hashed at rest.
type OTPCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index;not null" json:"email"`
	CodeHash  string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// RefreshToken is a persisted, revocable refresh credential.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
