package models

// Ingredient belongs to exactly one recipe; the name is only unique
// within that recipe.
type Ingredient struct {
	Name     string `gorm:"primaryKey;size:64" json:"name"`
	RecipeID uint   `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
}

// UnitConversions is the fixed unit vocabulary, expressed as how many
// of each unit make up one kilogram.
var UnitConversions = map[string]float64{
	"pound(lb)":          2.205,
	"ounce(oz)":          35.27,
	"pint(pt)":           5.032,
	"fluid ounce(fl oz)": 80.51,
	"cup":                10.06,
	"tablespoon":         161,
	"dessert spoon":      241.5,
	"teaspoon":           483.1,
	"kilogram(kg)":       1,
	"gram(g)":            1000,
	"liter(l)":           2.381,
	"deciliter(dl)":      23.81,
	"milliliter(ml)":     2381,
}

// ValidUnit reports whether the unit is in the conversion table.
func ValidUnit(unit string) bool {
	_, ok := UnitConversions[unit]
	return ok
}
