package recipe

// SampleID is the ID of the built-in demo recipe.
const SampleID = "chocolate-chip-cookies"

// Sample returns the chocolate chip cookie recipe the linkage heuristics were
// tuned against. Each call returns a fresh copy.
func Sample() *Recipe {
	return &Recipe{
		ID:          SampleID,
		Name:        "Chocolate Chip Cookies",
		Description: "Classic chewy cookies with crisp edges.",
		Servings:    48,
		Tags:        []string{"dessert", "baking", "cookies"},
		Ingredients: []Ingredient{
			{Quantity: "2¼", Measure: "cups", Name: "all-purpose flour"},
			{Quantity: "1", Measure: "tsp", Name: "baking soda"},
			{Quantity: "1", Measure: "tsp", Name: "salt"},
			{Quantity: "1", Measure: "cup", Name: "butter, softened"},
			{Quantity: "¾", Measure: "cup", Name: "granulated sugar"},
			{Quantity: "¾", Measure: "cup", Name: "packed brown sugar"},
			{Quantity: "2", Measure: "large", Name: "eggs"},
			{Quantity: "2", Measure: "tsp", Name: "vanilla extract"},
			{Quantity: "2", Measure: "cups", Name: "chocolate chips"},
		},
		Instructions: []Instruction{
			{Step: 1, Description: "Preheat oven to 375°F.", Duration: "10 min"},
			{Step: 2, Description: "Combine flour, baking soda and salt in a small bowl."},
			{Step: 3, Description: "Beat butter, granulated sugar, brown sugar and vanilla extract in a large mixer bowl until creamy.", Duration: "3 min"},
			{Step: 4, Description: "Add eggs, one at a time, beating well after each addition."},
			{Step: 5, Description: "Gradually beat in the flour mixture."},
			{Step: 6, Description: "Stir in the chocolate chips."},
			{Step: 7, Description: "Drop by rounded tablespoon onto ungreased baking sheets."},
			{Step: 8, Description: "Bake until golden brown, then cool on wire racks.", Duration: "9-11 min"},
		},
	}
}
