package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// squareField is a closed ~1.11km square at the equator.
var squareField = Polygon{
	{Lat: 0, Lon: 10},
	{Lat: 0, Lon: 10.01},
	{Lat: 0.01, Lon: 10.01},
	{Lat: 0.01, Lon: 10},
	{Lat: 0, Lon: 10},
}

func TestPolygonCentroid(t *testing.T) {
	c := squareField.Centroid()

	assert.InDelta(t, 0.005, c.Lat, 1e-9, "closing vertex must not skew the centroid")
	assert.InDelta(t, 10.005, c.Lon, 1e-9)

	assert.Equal(t, Geo{}, Polygon{}.Centroid())
}

func TestPolygonBounds(t *testing.T) {
	b := squareField.Bounds()

	assert.Equal(t, BoundingBox{MinLat: 0, MinLon: 10, MaxLat: 0.01, MaxLon: 10.01}, b)
	assert.Equal(t, BoundingBox{}, Polygon{}.Bounds())
}

func TestPolygonAreaHectares(t *testing.T) {
	// 0.01 deg x 0.01 deg at the equator is ~1113.2m squared: ~123.9 ha.
	area := squareField.AreaHectares()
	assert.InDelta(t, 123.9, area, 0.5)

	t.Run("degenerate polygons", func(t *testing.T) {
		assert.Equal(t, 0.0, Polygon{}.AreaHectares())
		assert.Equal(t, 0.0, Polygon{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}.AreaHectares())
	})

	t.Run("vertex order does not matter", func(t *testing.T) {
		reversed := make(Polygon, len(squareField))
		for i, v := range squareField {
			reversed[len(squareField)-1-i] = v
		}
		assert.InDelta(t, area, reversed.AreaHectares(), 1e-6)
	})
}
