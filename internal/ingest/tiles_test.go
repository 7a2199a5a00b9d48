package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weeliem/go-eatery-directory/config"
)

var testRegion = config.RegionConfig{
	Name:   "Singapore",
	MinLat: 1.205,
	MaxLat: 1.475,
	MinLng: 103.6,
	MaxLng: 104.1,
}

func TestTileGrid(t *testing.T) {
	t.Run("CoversBoundingBox", func(t *testing.T) {
		tiles := TileGrid(testRegion, 2.5, 0.25)
		require.NotEmpty(t, tiles)

		for _, tile := range tiles {
			assert.GreaterOrEqual(t, tile.Lat, testRegion.MinLat)
			assert.LessOrEqual(t, tile.Lat, testRegion.MaxLat)
			assert.GreaterOrEqual(t, tile.Lng, testRegion.MinLng)
			assert.LessOrEqual(t, tile.Lng, testRegion.MaxLng)
			assert.Equal(t, 2.5, tile.RadiusKm)
		}

		// First center sits at the box corner
		assert.Equal(t, testRegion.MinLat, tiles[0].Lat)
		assert.Equal(t, testRegion.MinLng, tiles[0].Lng)
	})

	t.Run("SmallerRadiusMeansMoreTiles", func(t *testing.T) {
		coarse := TileGrid(testRegion, 5.0, 0.25)
		fine := TileGrid(testRegion, 2.5, 0.25)
		assert.Greater(t, len(fine), len(coarse))
	})

	t.Run("MoreOverlapMeansMoreTiles", func(t *testing.T) {
		loose := TileGrid(testRegion, 2.5, 0.1)
		tight := TileGrid(testRegion, 2.5, 0.5)
		assert.Greater(t, len(tight), len(loose))
	})

	t.Run("StepShrinksWithOverlap", func(t *testing.T) {
		tiles := TileGrid(testRegion, 2.5, 0.25)
		require.Greater(t, len(tiles), 1)

		// stepKm = 2 * 2.5 * 0.75 = 3.75km, under the 5km tile diameter
		stepLng := tiles[1].Lng - tiles[0].Lng // first row walks longitude
		assert.InDelta(t, 3.75/111.320, stepLng, 0.001)
	})

	t.Run("InvalidInputsFallBackToDefaults", func(t *testing.T) {
		fromZero := TileGrid(testRegion, 0, -1)
		fromDefaults := TileGrid(testRegion, 2.5, 0.25)
		assert.Equal(t, len(fromDefaults), len(fromZero))
		assert.Equal(t, 2.5, fromZero[0].RadiusKm)
	})
}
