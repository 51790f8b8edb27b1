package taxonomy

// Entry maps a taxonomy label to its keyword substrings. Tables are
// configuration data: ordered, fixed, and matched case-insensitively.
// Declaration order is the tie-break, so reordering entries changes
// classification results.
type Entry struct {
	Label    string
	Keywords []string
}

// UnknownLabel is returned when no keyword matches.
const UnknownLabel = "unknown"

// CuisineTaxonomy is the published cuisine table.
var CuisineTaxonomy = []Entry{
	{Label: "American", Keywords: []string{"american", "burger", "grill", "steakhouse", "bbq", "barbecue", "diner"}},
	{Label: "Italian", Keywords: []string{"italian", "pizza", "pasta", "trattoria", "pizzeria", "osteria"}},
	{Label: "Mexican", Keywords: []string{"mexican", "taco", "burrito", "taqueria", "cantina"}},
	{Label: "Chinese", Keywords: []string{"chinese", "dim sum", "szechuan", "sichuan", "cantonese", "dumpling"}},
	{Label: "Japanese", Keywords: []string{"japanese", "sushi", "ramen", "izakaya", "tempura", "yakitori"}},
	{Label: "Korean", Keywords: []string{"korean", "kimchi", "bulgogi", "bibimbap"}},
	{Label: "Thai", Keywords: []string{"thai", "pad thai", "tom yum"}},
	{Label: "Vietnamese", Keywords: []string{"vietnamese", "pho", "banh mi"}},
	{Label: "Indian", Keywords: []string{"indian", "curry", "tandoori", "biryani", "masala"}},
	{Label: "Mediterranean", Keywords: []string{"mediterranean", "greek", "gyro", "falafel", "kebab", "hummus", "shawarma"}},
	{Label: "French", Keywords: []string{"french", "bistro", "brasserie", "creperie"}},
	{Label: "Spanish", Keywords: []string{"spanish", "tapas", "paella"}},
	{Label: "Seafood", Keywords: []string{"seafood", "oyster", "lobster", "fish"}},
	{Label: "Vegetarian", Keywords: []string{"vegetarian", "vegan", "plant based", "plant-based"}},
	{Label: "Cafe", Keywords: []string{"cafe", "coffee", "bakery", "patisserie", "espresso", "ice cream", "dessert"}},
	{Label: "Bar", Keywords: []string{"bar", "pub", "brewery", "taproom", "wine", "cocktail"}},
}

// AtmosphereTaxonomy is the published atmosphere table.
var AtmosphereTaxonomy = []Entry{
	{Label: "Upscale", Keywords: []string{"fine dining", "upscale", "luxury", "elegant"}},
	{Label: "Casual", Keywords: []string{"casual", "relaxed", "family", "laid back", "laid-back"}},
	{Label: "Lively", Keywords: []string{"bustling", "lively", "energetic", "vibrant"}},
	{Label: "Cozy", Keywords: []string{"cozy", "intimate", "quiet", "romantic"}},
}
