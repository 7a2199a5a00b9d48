package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weeliem/go-eatery-directory/internal/places"
)

func TestCuisineFromTypes(t *testing.T) {
	t.Run("SpecificPrimaryType", func(t *testing.T) {
		assert.Equal(t, "Chinese Restaurant", CuisineFromTypes("chinese_restaurant", []string{"restaurant", "food"}))
	})

	t.Run("GenericPrimaryFallsToTypeList", func(t *testing.T) {
		assert.Equal(t, "Seafood Restaurant", CuisineFromTypes("restaurant", []string{"restaurant", "seafood_restaurant", "food"}))
	})

	t.Run("AllGeneric", func(t *testing.T) {
		assert.Equal(t, "Restaurant", CuisineFromTypes("restaurant", []string{"food", "point_of_interest", "establishment"}))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "Restaurant", CuisineFromTypes("", nil))
	})
}

func TestNeighbourhoodFromAddress(t *testing.T) {
	assert.Equal(t, "Maxwell Food Centre",
		NeighbourhoodFromAddress("1 Kadayanallur St, Maxwell Food Centre, Singapore 069184", "Singapore"))
	assert.Equal(t, "Singapore", NeighbourhoodFromAddress("Singapore", "Singapore"))
	assert.Equal(t, "Singapore", NeighbourhoodFromAddress("", "Singapore"))
}

func TestPriceSymbol(t *testing.T) {
	assert.Equal(t, "Free", PriceSymbol(places.PriceLevelFree))
	assert.Equal(t, "$", PriceSymbol(places.PriceLevelInexpensive))
	assert.Equal(t, "$$", PriceSymbol(places.PriceLevelModerate))
	assert.Equal(t, "$$$", PriceSymbol(places.PriceLevelExpensive))
	assert.Equal(t, "$$$$", PriceSymbol(places.PriceLevelVeryExpensive))
	assert.Equal(t, "$", PriceSymbol(""))
	assert.Equal(t, "$", PriceSymbol("PRICE_LEVEL_UNSPECIFIED"))
}

func TestInferDietary(t *testing.T) {
	t.Run("HalalKeywordInName", func(t *testing.T) {
		place := places.Place{DisplayName: places.LocalizedText{Text: "Hajah Maimunah Halal Restaurant"}}
		isHalal, isVegetarian := InferDietary(place, false)
		assert.True(t, isHalal)
		assert.False(t, isVegetarian)
	})

	t.Run("GuaranteedOverridesMissingKeyword", func(t *testing.T) {
		place := places.Place{DisplayName: places.LocalizedText{Text: "Springleaf Prata Place"}}
		isHalal, _ := InferDietary(place, true)
		assert.True(t, isHalal)
	})

	t.Run("VegetarianType", func(t *testing.T) {
		place := places.Place{
			DisplayName: places.LocalizedText{Text: "Greendot"},
			Types:       []string{"vegetarian_restaurant"},
		}
		_, isVegetarian := InferDietary(place, false)
		assert.True(t, isVegetarian)
	})

	t.Run("NoSubstringFalsePositive", func(t *testing.T) {
		// "veganna" must not match the vegan word boundary
		place := places.Place{DisplayName: places.LocalizedText{Text: "Veganna Confectionery"}}
		_, isVegetarian := InferDietary(place, false)
		assert.False(t, isVegetarian)
	})
}

func TestInRegion(t *testing.T) {
	sg := places.Place{FormattedAddress: "328 Katong Laksa, East Coast Rd, Singapore 428802"}
	jb := places.Place{FormattedAddress: "Jalan Tan Hiok Nee, Johor Bahru, Malaysia"}
	assert.True(t, InRegion(sg, "Singapore"))
	assert.True(t, InRegion(sg, "singapore"))
	assert.False(t, InRegion(jb, "Singapore"))
}

func TestCategoryAllowed(t *testing.T) {
	t.Run("AllowedPrimary", func(t *testing.T) {
		assert.True(t, CategoryAllowed(places.Place{PrimaryType: "restaurant"}))
	})

	t.Run("AllowedViaTypeList", func(t *testing.T) {
		assert.True(t, CategoryAllowed(places.Place{
			PrimaryType: "point_of_interest",
			Types:       []string{"point_of_interest", "food_court"},
		}))
	})

	t.Run("DeniedTypeWins", func(t *testing.T) {
		assert.False(t, CategoryAllowed(places.Place{
			PrimaryType: "restaurant",
			Types:       []string{"restaurant", "lodging"},
		}))
	})

	t.Run("NothingAllowed", func(t *testing.T) {
		assert.False(t, CategoryAllowed(places.Place{
			PrimaryType: "establishment",
			Types:       []string{"establishment", "point_of_interest"},
		}))
	})
}

func TestMatchesDish(t *testing.T) {
	laksa := Dish{Phrase: "laksa", Aliases: []string{"laksa"}}
	assert.True(t, MatchesDish(places.Place{DisplayName: places.LocalizedText{Text: "328 Katong Laksa"}}, laksa))
	assert.False(t, MatchesDish(places.Place{DisplayName: places.LocalizedText{Text: "Tian Tian Chicken Rice"}}, laksa))

	broad := Dish{Phrase: "halal restaurants"}
	assert.True(t, MatchesDish(places.Place{DisplayName: places.LocalizedText{Text: "Anything"}}, broad))
}

func TestNormalize(t *testing.T) {
	place := places.Place{
		ID:               "place-1",
		DisplayName:      places.LocalizedText{Text: "328 Katong Laksa"},
		Types:            []string{"restaurant", "seafood_restaurant"},
		PrimaryType:      "seafood_restaurant",
		FormattedAddress: "51 East Coast Rd, Katong, Singapore 428770",
		Location:         places.LatLng{Latitude: 1.3052, Longitude: 103.9044},
		Rating:           4.3,
		UserRatingCount:  5123,
		PriceLevel:       places.PriceLevelInexpensive,
		Photos: []places.Photo{
			{Name: "places/place-1/photos/a"},
			{Name: ""},
			{Name: "places/place-1/photos/b"},
		},
	}

	eatery := Normalize(place, Dish{Phrase: "laksa", Aliases: []string{"laksa"}}, "Singapore")

	assert.Equal(t, "place-1", eatery.PlaceID)
	assert.Equal(t, "328 Katong Laksa", eatery.Name)
	assert.Equal(t, "Seafood Restaurant", eatery.Cuisine)
	assert.Equal(t, "Katong", eatery.Neighbourhood)
	assert.Equal(t, 4.3, eatery.Rating)
	assert.Equal(t, 5123, eatery.ReviewCount)
	assert.Equal(t, "$", eatery.Price)
	assert.False(t, eatery.IsHalal)
	assert.False(t, eatery.IsVegetarian)

	require.NotNil(t, eatery.Latitude)
	require.NotNil(t, eatery.Longitude)
	assert.Equal(t, 1.3052, *eatery.Latitude)
	assert.Equal(t, 103.9044, *eatery.Longitude)

	// Nameless photo entries are dropped, order is preserved
	require.Len(t, eatery.Photos, 2)
	assert.Equal(t, "places/place-1/photos/a", eatery.Photos[0].Name)
	assert.Equal(t, "places/place-1/photos/b", eatery.Photos[1].Name)
}

func TestNormalizeMissingLocation(t *testing.T) {
	place := places.Place{
		ID:               "place-2",
		DisplayName:      places.LocalizedText{Text: "Laksa Corner"},
		Types:            []string{"restaurant"},
		PrimaryType:      "restaurant",
		FormattedAddress: "Old Airport Road, Singapore",
	}

	eatery := Normalize(place, Dish{Phrase: "laksa", Aliases: []string{"laksa"}}, "Singapore")

	// Zero-valued coordinates mean the provider sent none; they must not
	// become a storable point that a geo-radius filter could match.
	assert.Nil(t, eatery.Latitude)
	assert.Nil(t, eatery.Longitude)
}
