package http

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/usecase"
)

// maxImageBytes caps uploaded image size at 10 MiB.
const maxImageBytes = 10 << 20

// Handler exposes the catalog, nutrition and inference endpoints.
type Handler struct {
	nutrition *usecase.NutritionService
	inference *usecase.InferenceService
	uploadDir string
}

func NewHandler(nutrition *usecase.NutritionService, inference *usecase.InferenceService, uploadDir string) *Handler {
	return &Handler{nutrition: nutrition, inference: inference, uploadDir: uploadDir}
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "safebite-backend",
		"version": "1.0.0",
	})
}

// ListFoodItems returns a page of the catalog, optionally filtered by
// category.
func (h *Handler) ListFoodItems(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.nutrition.ListFoods(c.Request.Context(), c.Query("category"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []domain.FoodItem{}
	}
	respondOK(c, items)
}

// SearchFoodItems finds catalog entries by name fragment.
func (h *Handler) SearchFoodItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	summaries, err := h.nutrition.SearchFoods(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summaries)
}

// GetFoodItem returns one catalog entry.
func (h *Handler) GetFoodItem(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondBadRequest(c, "invalid food item id")
		return
	}

	item, err := h.nutrition.GetFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, item)
}

type createFoodRequest struct {
	CanonicalName   string `json:"canonical_name" binding:"required"`
	Category        string `json:"category"`
	ExampleImageURL string `json:"example_image_url"`
}

// CreateFoodItem adds a catalog entry. Admin only.
func (h *Handler) CreateFoodItem(c *gin.Context) {
	var req createFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "canonical_name is required")
		return
	}

	item, err := h.nutrition.CreateFood(c.Request.Context(), req.CanonicalName, req.Category, req.ExampleImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, item)
}

// GetNutrition returns the grouped nutrition document for a food item.
//
// A missing food item is a 404; a known food item without nutrition data is
// a 200 with has_nutrition_data false, so clients can tell the cases apart.
func (h *Handler) GetNutrition(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondBadRequest(c, "invalid food item id")
		return
	}

	report, err := h.nutrition.GetByFoodID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"food_item_id":       id,
		"has_nutrition_data": report != nil,
		"nutrition":          report,
	})
}

// AddNutrition attaches a nutrition record to a food item. Admin only.
func (h *Handler) AddNutrition(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondBadRequest(c, "invalid food item id")
		return
	}

	var data domain.NutritionData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "malformed nutrition payload")
		return
	}

	if err := h.nutrition.AddNutrition(c.Request.Context(), id, &data); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, data)
}

// UpdateNutrition applies a partial update to an existing record. Admin only.
func (h *Handler) UpdateNutrition(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondBadRequest(c, "invalid food item id")
		return
	}

	var updates domain.NutritionData
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "malformed nutrition payload")
		return
	}

	if err := h.nutrition.UpdateNutrition(c.Request.Context(), id, &updates); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "nutrition data updated")
}

// CreateInference accepts a multipart image upload, runs the prediction
// round-trip and returns the stored result.
func (h *Handler) CreateInference(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "image file is required")
		return
	}
	if fileHeader.Size > maxImageBytes {
		respondBadRequest(c, "image exceeds the 10MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "unreadable image file")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		respondBadRequest(c, "unreadable image file")
		return
	}

	imagePath, err := h.saveUpload(fileHeader.Filename, image)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, _ := callerIdentity(c)
	result, err := h.inference.Classify(c.Request.Context(), userID, imagePath, fileHeader.Filename, image)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

// GetInference returns a stored inference. Consumers only see their own.
func (h *Handler) GetInference(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondBadRequest(c, "invalid inference id")
		return
	}

	userID, role := callerIdentity(c)
	inference, err := h.inference.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, inference)
}

// saveUpload stores the image under a random name, keeping the original
// extension for content-type sniffing later.
func (h *Handler) saveUpload(originalName string, image []byte) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(h.uploadDir, name)
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
