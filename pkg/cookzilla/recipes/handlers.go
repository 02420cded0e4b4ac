package recipes

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/activity"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/images"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/logger"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/search"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles recipe-related requests
type Handler struct {
	db    *gorm.DB
	log   logger.Logger
	index search.Index
	store images.Store
}

// NewHandler creates a new recipes handler
func NewHandler(db *gorm.DB, log logger.Logger, index search.Index, store images.Store) *Handler {
	return &Handler{db: db, log: log, index: index, store: store}
}

// CreateRecipeRequest represents the request to create a recipe.
// Quantities arrive as strings because the form is lenient about them:
// a malformed quantity drops that ingredient instead of failing the
// whole submission.
type CreateRecipeRequest struct {
	Title       string            `json:"title" binding:"required,max=64"`
	Serving     int               `json:"serving" binding:"omitempty,min=1,max=10"`
	Body        string            `json:"body" binding:"required"`
	Ingredients []IngredientInput `json:"ingredients" binding:"required,min=1"`
	Links       []string          `json:"links"`
	Tags        []uint            `json:"tags"`
}

// UpdateRecipeRequest represents the request to edit a recipe
type UpdateRecipeRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=64"`
	Serving *int    `json:"serving" binding:"omitempty,min=1,max=10"`
	Body    *string `json:"body"`
}

// RecipeResponse represents a recipe in API responses
type RecipeResponse struct {
	ID          uint                `json:"id"`
	AuthorID    uint                `json:"author_id"`
	Title       string              `json:"title"`
	Serving     int                 `json:"serving"`
	Body        string              `json:"body"`
	Photos      string              `json:"photos"`
	Timestamp   string              `json:"timestamp"`
	Ingredients []models.Ingredient `json:"ingredients"`
	Tags        []models.Tag        `json:"tags"`
	LinkedIDs   []uint              `json:"linked_ids"`
}

func (h *Handler) recipeToResponse(recipe *models.Recipe) RecipeResponse {
	linked, _ := models.LinkedRecipeIDs(h.db, recipe.ID)
	if linked == nil {
		linked = []uint{}
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []models.Ingredient{}
	}
	if recipe.Tags == nil {
		recipe.Tags = []models.Tag{}
	}
	return RecipeResponse{
		ID:          recipe.ID,
		AuthorID:    recipe.AuthorID,
		Title:       recipe.Title,
		Serving:     recipe.Serving,
		Body:        recipe.Body,
		Photos:      recipe.Photos,
		Timestamp:   recipe.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Ingredients: recipe.Ingredients,
		Tags:        recipe.Tags,
		LinkedIDs:   linked,
	}
}

// Create publishes a recipe with its ingredients, links, and tags in
// one transaction. Incomplete optional ingredients, unparseable link
// URLs, and unknown tag ids are dropped, not errors.
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body CreateRecipeRequest true "Recipe"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Missing write permission"
// @Security BearerAuth
// @Router /recipes [post]
func (h *Handler) Create(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Serving == 0 {
		req.Serving = 1
	}

	recipe := models.Recipe{
		AuthorID: user.ID,
		Title:    req.Title,
		Serving:  req.Serving,
		Body:     req.Body,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}

		ingredients := h.parseIngredients(recipe.ID, req.Ingredients)
		for i := range ingredients {
			if err := tx.Create(&ingredients[i]).Error; err != nil {
				return err
			}
		}

		for _, raw := range req.Links {
			targetID, ok := h.resolveLinkTarget(tx, raw)
			if !ok {
				continue
			}
			if err := models.LinkRecipes(tx, recipe.ID, targetID); err != nil {
				return err
			}
		}

		for _, tagID := range req.Tags {
			var tag models.Tag
			if err := tx.First(&tag, tagID).Error; err != nil {
				// unknown tag ids are ignored, same as dead links
				continue
			}
			if err := models.TagRecipe(tx, recipe.ID, tag.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	if err := h.index.Index(c.Request.Context(), &recipe); err != nil {
		h.log.Warn("recipe indexing failed", "recipe_id", recipe.ID, "err", err)
	}

	h.db.Preload("Ingredients").Preload("Tags").First(&recipe, recipe.ID)
	c.JSON(http.StatusCreated, h.recipeToResponse(&recipe))
}

// Get returns a recipe with ingredients, tags, and linked recipe ids.
// Authenticated views are recorded to the activity log.
// @Summary Get recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} RecipeResponse
// @Failure 404 {object} map[string]string "Recipe not found"
// @Router /recipes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	var recipe models.Recipe
	if err := h.db.Preload("Ingredients").Preload("Tags").First(&recipe, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	if user, authed := auth.CurrentUser(c); authed {
		if err := activity.Record(h.db, user.ID, recipe.ID, activity.OpView); err != nil {
			h.log.Warn("failed to record view", "recipe_id", recipe.ID, "err", err)
		}
	}

	c.JSON(http.StatusOK, h.recipeToResponse(&recipe))
}

// Update edits a recipe. Only the author or an administrator may edit.
// @Summary Edit recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body UpdateRecipeRequest true "Fields to change"
// @Success 200 {object} RecipeResponse
// @Failure 403 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Recipe not found"
// @Security BearerAuth
// @Router /recipes/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	recipe, ok := h.recipeByID(c)
	if !ok {
		return
	}
	if recipe.AuthorID != user.ID && !user.IsAdministrator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can edit this recipe"})
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Serving != nil {
		updates["serving"] = *req.Serving
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if len(updates) > 0 {
		if err := h.db.Model(recipe).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
			return
		}
		if err := h.index.Index(c.Request.Context(), recipe); err != nil {
			h.log.Warn("recipe indexing failed", "recipe_id", recipe.ID, "err", err)
		}
	}

	h.db.Preload("Ingredients").Preload("Tags").First(recipe, recipe.ID)
	c.JSON(http.StatusOK, h.recipeToResponse(recipe))
}

// Delete removes a recipe and everything attached to it
// @Summary Delete recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Not the author"
// @Security BearerAuth
// @Router /recipes/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	recipe, ok := h.recipeByID(c)
	if !ok {
		return
	}
	if recipe.AuthorID != user.ID && !user.IsAdministrator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete this recipe"})
		return
	}

	if err := models.DeleteRecipe(h.db, recipe.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "The recipe has been deleted"})
}

// Search runs a full-text query over recipe titles and bodies. Hits
// are recorded to the activity log for authenticated searchers.
// @Summary Search recipes
// @Tags recipes
// @Produce json
// @Param q query string true "Query text"
// @Param limit query int false "Maximum results"
// @Success 200 {array} RecipeResponse
// @Router /search [get]
func (h *Handler) Search(c *gin.Context) {
	text := c.Query("q")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query text required"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	ids, err := h.index.Query(c.Request.Context(), text, limit)
	if err != nil {
		h.log.Error("search query failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search is unavailable"})
		return
	}

	results := make([]RecipeResponse, 0, len(ids))
	user, authed := auth.CurrentUser(c)
	for _, id := range ids {
		var recipe models.Recipe
		if err := h.db.Preload("Ingredients").Preload("Tags").First(&recipe, id).Error; err != nil {
			continue
		}
		if authed {
			if err := activity.Record(h.db, user.ID, recipe.ID, activity.OpSearch); err != nil {
				h.log.Warn("failed to record search hit", "recipe_id", recipe.ID, "err", err)
			}
		}
		results = append(results, h.recipeToResponse(&recipe))
	}

	c.JSON(http.StatusOK, results)
}

// RegisterRoutes registers recipe routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("", auth.OptionalAuth(h.db))
	public.GET("/recipes/:id", h.Get)
	public.GET("/search", h.Search)
	rg.GET("/units", h.Units)

	authed := rg.Group("", auth.RequireAuth(h.db))
	authed.POST("/recipes", auth.RequirePermission(models.PermissionWriteRecipes), h.Create)
	authed.PUT("/recipes/:id", h.Update)
	authed.DELETE("/recipes/:id", h.Delete)

	h.registerLinkRoutes(authed)
	h.registerTagRoutes(authed)
	h.registerPhotoRoutes(authed)
}

func (h *Handler) recipeByID(c *gin.Context) (*models.Recipe, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return nil, false
	}

	var recipe models.Recipe
	if err := h.db.First(&recipe, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return nil, false
	}
	return &recipe, true
}
