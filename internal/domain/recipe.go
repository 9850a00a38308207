package domain

// Ingredient is a single ingredient as reported by recipe search.
type Ingredient struct {
	Name string
}

// Recipe merges an ingredient-search summary with the detail record
// fetched for it. Summary fields come from the search call; the rest
// from the per-recipe information call.
type Recipe struct {
	ID                int64
	Title             string
	Image             string
	UsedIngredients   []Ingredient
	MissedIngredients []Ingredient

	Instructions   string
	SourceURL      string
	ReadyInMinutes int
	Servings       int
}
