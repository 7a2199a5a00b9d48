package places

// Wire types for the Google Places API (New, v1). Field names follow the
// upstream JSON shapes; only the fields the pipeline consumes are declared.

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Circle struct {
	Center  LatLng  `json:"center"`
	RadiusM float64 `json:"radius"`
}

type LocationBias struct {
	Circle *Circle `json:"circle,omitempty"`
}

type LocationRestriction struct {
	Circle *Circle `json:"circle,omitempty"`
}

type TextSearchRequest struct {
	TextQuery    string        `json:"textQuery"`
	PageToken    string        `json:"pageToken,omitempty"`
	PageSize     int           `json:"pageSize,omitempty"`
	LocationBias *LocationBias `json:"locationBias,omitempty"`
	IncludedType string        `json:"includedType,omitempty"`
	LanguageCode string        `json:"languageCode,omitempty"`
	RegionCode   string        `json:"regionCode,omitempty"`
}

type NearbySearchRequest struct {
	IncludedTypes       []string             `json:"includedTypes,omitempty"`
	ExcludedTypes       []string             `json:"excludedTypes,omitempty"`
	MaxResultCount      int                  `json:"maxResultCount,omitempty"`
	LocationRestriction *LocationRestriction `json:"locationRestriction"`
	LanguageCode        string               `json:"languageCode,omitempty"`
}

type SearchResponse struct {
	Places        []Place `json:"places"`
	NextPageToken string  `json:"nextPageToken"`
}

type Place struct {
	ID               string       `json:"id"`
	DisplayName      LocalizedText `json:"displayName"`
	Types            []string     `json:"types"`
	PrimaryType      string       `json:"primaryType"`
	FormattedAddress string       `json:"formattedAddress"`
	Location         LatLng       `json:"location"`
	Rating           float64      `json:"rating"`
	UserRatingCount  int          `json:"userRatingCount"`
	PriceLevel       string       `json:"priceLevel"`
	Photos           []Photo      `json:"photos"`
}

type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type Photo struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx,omitempty"`
	HeightPx int    `json:"heightPx,omitempty"`
}

// Price levels as the v1 API reports them.
const (
	PriceLevelFree          = "PRICE_LEVEL_FREE"
	PriceLevelInexpensive   = "PRICE_LEVEL_INEXPENSIVE"
	PriceLevelModerate      = "PRICE_LEVEL_MODERATE"
	PriceLevelExpensive     = "PRICE_LEVEL_EXPENSIVE"
	PriceLevelVeryExpensive = "PRICE_LEVEL_VERY_EXPENSIVE"
)
