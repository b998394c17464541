package domain

import "math"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Polygon is an ordered ring of field boundary vertices. A closing vertex
// equal to the first (the GeoJSON convention) is tolerated and ignored by
// the helpers below.
type Polygon []Geo

// BoundingBox is the axis-aligned extent of a polygon.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// ring returns the polygon vertices without a duplicated closing vertex.
func (p Polygon) ring() Polygon {
	if len(p) > 1 && p[0] == p[len(p)-1] {
		return p[:len(p)-1]
	}
	return p
}

// Centroid returns the arithmetic mean of the polygon vertices, the
// sampling point handed to the weather provider. Returns the zero Geo for
// an empty polygon.
func (p Polygon) Centroid() Geo {
	ring := p.ring()
	if len(ring) == 0 {
		return Geo{}
	}
	var lat, lon float64
	for _, v := range ring {
		lat += v.Lat
		lon += v.Lon
	}
	n := float64(len(ring))
	return Geo{Lat: lat / n, Lon: lon / n}
}

// Bounds returns the bounding box of the polygon, the sampling region
// handed to the band data provider.
func (p Polygon) Bounds() BoundingBox {
	ring := p.ring()
	if len(ring) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{
		MinLat: ring[0].Lat, MaxLat: ring[0].Lat,
		MinLon: ring[0].Lon, MaxLon: ring[0].Lon,
	}
	for _, v := range ring[1:] {
		b.MinLat = math.Min(b.MinLat, v.Lat)
		b.MaxLat = math.Max(b.MaxLat, v.Lat)
		b.MinLon = math.Min(b.MinLon, v.Lon)
		b.MaxLon = math.Max(b.MaxLon, v.Lon)
	}
	return b
}

// metersPerDegreeLat is the approximate length of one degree of latitude.
const metersPerDegreeLat = 111320.0

// AreaHectares computes the polygon area via the shoelace formula on an
// equirectangular projection centred on the polygon. Accurate to well
// under a percent at field scale, which is all the assessments need.
// Returns 0 for fewer than three vertices.
func (p Polygon) AreaHectares() float64 {
	ring := p.ring()
	if len(ring) < 3 {
		return 0
	}

	midLat := p.Centroid().Lat * math.Pi / 180
	metersPerDegreeLon := metersPerDegreeLat * math.Cos(midLat)

	var sum float64
	for i, v := range ring {
		w := ring[(i+1)%len(ring)]
		x1, y1 := v.Lon*metersPerDegreeLon, v.Lat*metersPerDegreeLat
		x2, y2 := w.Lon*metersPerDegreeLon, w.Lat*metersPerDegreeLat
		sum += x1*y2 - x2*y1
	}
	return math.Abs(sum) / 2 / 10000
}
