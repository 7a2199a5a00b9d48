package ingest

import (
	"regexp"
	"strings"

	"github.com/weeliem/go-eatery-directory/internal/places"
	"github.com/weeliem/go-eatery-directory/internal/types"
)

var (
	halalPattern      = regexp.MustCompile(`(?i)\b(halal|muslim)\b`)
	vegetarianPattern = regexp.MustCompile(`(?i)\b(vegetarian|vegan|plant-based)\b`)
)

// Types considered too generic to say anything about cuisine.
var genericTypes = map[string]bool{
	"restaurant":        true,
	"food":              true,
	"point_of_interest": true,
	"establishment":     true,
	"store":             true,
}

// CuisineFromTypes derives a display cuisine label from the provider's
// category data: the primary type if it is specific enough, else the first
// specific entry of the type list, else "Restaurant".
func CuisineFromTypes(primaryType string, placeTypes []string) string {
	if primaryType != "" && !genericTypes[primaryType] {
		return titleFromSnake(primaryType)
	}
	for _, t := range placeTypes {
		if !genericTypes[t] {
			return titleFromSnake(t)
		}
	}
	return "Restaurant"
}

func titleFromSnake(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// NeighbourhoodFromAddress takes the second-to-last comma segment of the
// formatted address, which for Singapore addresses is usually the area or
// estate. Falls back to the region name for short addresses.
func NeighbourhoodFromAddress(address, regionName string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return regionName
	}
	segment := strings.TrimSpace(parts[len(parts)-2])
	if segment == "" {
		return regionName
	}
	return segment
}

// PriceSymbol maps the upstream price level enum to the display tier.
func PriceSymbol(priceLevel string) string {
	switch priceLevel {
	case places.PriceLevelFree:
		return "Free"
	case places.PriceLevelInexpensive:
		return "$"
	case places.PriceLevelModerate:
		return "$$"
	case places.PriceLevelExpensive:
		return "$$$"
	case places.PriceLevelVeryExpensive:
		return "$$$$"
	default:
		return "$"
	}
}

// InferDietary runs the keyword heuristics over name, category and address
// text. It is best-effort enrichment: false negatives are expected, so a
// false result means "unknown", not "definitely not".
func InferDietary(place places.Place, halalGuaranteed bool) (isHalal, isVegetarian bool) {
	searchText := strings.ToLower(place.DisplayName.Text) + " " +
		strings.ToLower(strings.Join(place.Types, " ")) + " " +
		strings.ToLower(place.FormattedAddress)

	isHalal = halalGuaranteed || halalPattern.MatchString(searchText)
	isVegetarian = vegetarianPattern.MatchString(searchText)
	return isHalal, isVegetarian
}

// InRegion reports whether the formatted address mentions the target region.
// Address substring matching is crude but filters out the cross-border
// results a broad text search drags in.
func InRegion(place places.Place, regionName string) bool {
	return strings.Contains(strings.ToLower(place.FormattedAddress), strings.ToLower(regionName))
}

// CategoryAllowed applies the allow/deny type lists.
func CategoryAllowed(place places.Place) bool {
	allowed := allowedTypes[place.PrimaryType]
	for _, t := range place.Types {
		if deniedTypes[t] {
			return false
		}
		if allowedTypes[t] {
			allowed = true
		}
	}
	return allowed
}

// MatchesDish checks textual relevance of a result against the dish's alias
// keywords. Broad phrases without aliases accept everything.
func MatchesDish(place places.Place, dish Dish) bool {
	if len(dish.Aliases) == 0 {
		return true
	}
	name := strings.ToLower(place.DisplayName.Text)
	for _, alias := range dish.Aliases {
		if strings.Contains(name, alias) {
			return true
		}
	}
	return false
}

// Normalize converts one surviving upstream result into the row shape the
// repository persists.
func Normalize(place places.Place, dish Dish, regionName string) types.Eatery {
	isHalal, isVegetarian := InferDietary(place, dish.HalalGuaranteed)

	photos := make([]types.Photo, 0, len(place.Photos))
	for _, p := range place.Photos {
		if p.Name != "" {
			photos = append(photos, types.Photo{Name: p.Name})
		}
	}

	// A missing upstream location decodes as the zero value. Store NULL
	// instead of a phantom point at (0,0) off the West African coast.
	var lat, lng *float64
	if place.Location.Latitude != 0 || place.Location.Longitude != 0 {
		la, ln := place.Location.Latitude, place.Location.Longitude
		lat, lng = &la, &ln
	}

	return types.Eatery{
		PlaceID:       place.ID,
		Name:          place.DisplayName.Text,
		Cuisine:       CuisineFromTypes(place.PrimaryType, place.Types),
		Neighbourhood: NeighbourhoodFromAddress(place.FormattedAddress, regionName),
		Rating:        place.Rating,
		ReviewCount:   place.UserRatingCount,
		Price:         PriceSymbol(place.PriceLevel),
		Photos:        photos,
		Latitude:      lat,
		Longitude:     lng,
		IsHalal:       isHalal,
		IsVegetarian:  isVegetarian,
	}
}
