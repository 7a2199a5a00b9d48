package ingest

import (
	"math"

	"github.com/weeliem/go-eatery-directory/config"
)

// Tile is one circular search center. The upstream search API caps results
// per call, so the region is decomposed into overlapping circles instead of
// issuing one island-wide query that would be truncated.
type Tile struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

const (
	kmPerDegreeLat = 110.574
	kmPerDegreeLng = 111.320 // at the equator, scaled by cos(lat) below
)

// TileGrid decomposes the region bounding box into circle centers. Step
// between centers is the tile diameter reduced by the configured overlap
// fraction, so adjacent circles share a margin and boundary results are not
// lost to the gap between tiles.
func TileGrid(region config.RegionConfig, radiusKm, overlap float64) []Tile {
	if radiusKm <= 0 {
		radiusKm = 2.5
	}
	if overlap < 0 || overlap >= 1 {
		overlap = 0.25
	}

	stepKm := 2 * radiusKm * (1 - overlap)
	latStep := stepKm / kmPerDegreeLat

	var tiles []Tile
	for lat := region.MinLat; lat <= region.MaxLat; lat += latStep {
		lngStep := stepKm / (kmPerDegreeLng * math.Cos(lat*math.Pi/180))
		for lng := region.MinLng; lng <= region.MaxLng; lng += lngStep {
			tiles = append(tiles, Tile{Lat: lat, Lng: lng, RadiusKm: radiusKm})
		}
	}
	return tiles
}
