package ingest

import "sort"

// Dish is one search phrase of the ingestion sweep. Aliases are the keywords
// a result's name must contain to count as relevant to the dish; an empty
// alias list disables the relevance check (used for the broad dietary
// phrases). HalalGuaranteed marks dishes whose vendors are halal by trade,
// which short-circuits the keyword inference.
type Dish struct {
	Phrase          string
	Aliases         []string
	HalalGuaranteed bool
}

// DefaultCatalog is the fixed sweep catalog for Singapore hawker food.
// Phrases are crossed with the geographic tile grid at run time.
var DefaultCatalog = []Dish{
	{Phrase: "chicken rice", Aliases: []string{"chicken rice", "hainanese"}},
	{Phrase: "char kway teow", Aliases: []string{"char kway teow", "kway teow", "ckt"}},
	{Phrase: "laksa", Aliases: []string{"laksa"}},
	{Phrase: "hokkien mee", Aliases: []string{"hokkien mee", "hokkien prawn mee"}},
	{Phrase: "bak chor mee", Aliases: []string{"bak chor mee", "minced meat noodle", "bcm"}},
	{Phrase: "satay", Aliases: []string{"satay", "sate"}},
	{Phrase: "wanton mee", Aliases: []string{"wanton", "wonton"}},
	{Phrase: "chilli crab", Aliases: []string{"chilli crab", "chili crab", "crab"}},
	{Phrase: "nasi lemak", Aliases: []string{"nasi lemak"}, HalalGuaranteed: true},
	{Phrase: "roti prata", Aliases: []string{"prata", "roti"}, HalalGuaranteed: true},
	{Phrase: "nasi padang", Aliases: []string{"nasi padang", "padang"}, HalalGuaranteed: true},
	{Phrase: "halal restaurants"},
	{Phrase: "vegetarian restaurants"},
	{Phrase: "vegan restaurants"},
}

// Category allow/deny lists, matched against the upstream place types.
// A result needs at least one allowed type and no denied type.
var (
	allowedTypes = map[string]bool{
		"restaurant":           true,
		"food_court":           true,
		"cafe":                 true,
		"coffee_shop":          true,
		"bakery":               true,
		"meal_takeaway":        true,
		"fast_food_restaurant": true,
		"hawker_stall":         true,
	}

	deniedTypes = map[string]bool{
		"lodging":           true,
		"hotel":             true,
		"supermarket":       true,
		"grocery_store":     true,
		"convenience_store": true,
		"shopping_mall":     true,
		"gas_station":       true,
		"night_club":        true,
	}
)

// allowedTypeList returns the allow list in deterministic order, as the
// includedTypes of a nearby search request.
func allowedTypeList() []string {
	list := make([]string, 0, len(allowedTypes))
	for t := range allowedTypes {
		list = append(list, t)
	}
	sort.Strings(list)
	return list
}
