package domain

// NutritionReport is the shaped lookup document: every stored nutrient field
// appears in exactly one of the four groups. JSON keys follow the per-100g
// convention used by the import sources.
type NutritionReport struct {
	FoodName       string         `json:"food_name"`
	Category       string         `json:"category"`
	DataSource     DataSource     `json:"data_source"`
	Macronutrients Macronutrients `json:"macronutrients"`
	Vitamins       Vitamins       `json:"vitamins"`
	Minerals       Minerals       `json:"minerals"`
	Properties     Properties     `json:"properties"`
}

type Macronutrients struct {
	CaloriesPer100g *float64 `json:"calories_per_100g"`
	ProteinPer100g  *float64 `json:"protein_per_100g"`
	CarbsPer100g    *float64 `json:"carbs_per_100g"`
	FatPer100g      *float64 `json:"fat_per_100g"`
	FiberPer100g    *float64 `json:"fiber_per_100g"`
	SugarPer100g    *float64 `json:"sugar_per_100g"`
}

type Vitamins struct {
	VitaminAMcg   *float64 `json:"vitamin_a_mcg"`
	VitaminCMg    *float64 `json:"vitamin_c_mg"`
	VitaminDMcg   *float64 `json:"vitamin_d_mcg"`
	VitaminEMg    *float64 `json:"vitamin_e_mg"`
	VitaminKMcg   *float64 `json:"vitamin_k_mcg"`
	VitaminB1Mg   *float64 `json:"vitamin_b1_thiamine_mg"`
	VitaminB2Mg   *float64 `json:"vitamin_b2_riboflavin_mg"`
	VitaminB3Mg   *float64 `json:"vitamin_b3_niacin_mg"`
	VitaminB6Mg   *float64 `json:"vitamin_b6_mg"`
	VitaminB12Mcg *float64 `json:"vitamin_b12_mcg"`
	FolateMcg     *float64 `json:"folate_mcg"`
}

type Minerals struct {
	CalciumMg    *float64 `json:"calcium_mg"`
	IronMg       *float64 `json:"iron_mg"`
	MagnesiumMg  *float64 `json:"magnesium_mg"`
	PhosphorusMg *float64 `json:"phosphorus_mg"`
	PotassiumMg  *float64 `json:"potassium_mg"`
	SodiumMg     *float64 `json:"sodium_mg"`
	ZincMg       *float64 `json:"zinc_mg"`
}

type Properties struct {
	WaterContentPercent *float64     `json:"water_content_percent"`
	SpoilageRiskLevel   SpoilageRisk `json:"spoilage_risk_level"`
	RecommendedStorage  string       `json:"recommended_storage"`
	ShelfLifeDays       *int         `json:"shelf_life_days"`
}

// FoodSummary is the shape returned by catalog search.
type FoodSummary struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	HasNutritionData bool   `json:"has_nutrition_data"`
}

// Prediction is what the external image predictor returns.
type Prediction struct {
	Label              string  `json:"label"`
	Confidence         float64 `json:"confidence"`
	ContaminationScore float64 `json:"contamination_score"`
}

// InferenceResult folds the stored inference row together with the nutrition
// document of the matched food item, when one exists.
type InferenceResult struct {
	Inference
	MatchedFood   *FoodItem        `json:"matched_food,omitempty"`
	NutritionInfo *NutritionReport `json:"nutrition_info,omitempty"`
}
