package recipes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/gin-gonic/gin"
)

// Units returns the known measurement units and their conversion
// factors relative to a kilogram.
// @Summary List measurement units
// @Tags recipes
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /units [get]
func (h *Handler) Units(c *gin.Context) {
	c.JSON(http.StatusOK, models.UnitConversions)
}

// IngredientInput is one ingredient slot of a recipe submission
type IngredientInput struct {
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// parseIngredients turns submitted ingredient slots into rows. Slots
// with a blank name are treated as unused and skipped. A quantity that
// does not parse as a positive integer, or an unknown unit, drops the
// slot; the recipe itself still goes through.
func (h *Handler) parseIngredients(recipeID uint, inputs []IngredientInput) []models.Ingredient {
	ingredients := make([]models.Ingredient, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		if seen[name] {
			h.log.Warn("duplicate ingredient dropped", "recipe_id", recipeID, "name", name)
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
		if err != nil || quantity < 1 {
			h.log.Warn("ingredient dropped, bad quantity", "recipe_id", recipeID, "name", name, "quantity", in.Quantity)
			continue
		}
		if !models.ValidUnit(in.Unit) {
			h.log.Warn("ingredient dropped, unknown unit", "recipe_id", recipeID, "name", name, "unit", in.Unit)
			continue
		}
		seen[name] = true
		ingredients = append(ingredients, models.Ingredient{
			Name:     name,
			RecipeID: recipeID,
			Unit:     in.Unit,
			Quantity: quantity,
		})
	}
	return ingredients
}
