package domain

import (
	"github.com/montanaflynn/stats"
)

// BandSample holds surface reflectance values for the thirteen Sentinel-2
// bands, scaled by 10000 per the Copernicus convention. A zero value means
// the band was unavailable from the provider.
type BandSample struct {
	B1  float64 `json:"B1"`  // 443nm coastal aerosol
	B2  float64 `json:"B2"`  // 490nm blue
	B3  float64 `json:"B3"`  // 560nm green
	B4  float64 `json:"B4"`  // 665nm red
	B5  float64 `json:"B5"`  // 705nm red edge 1
	B6  float64 `json:"B6"`  // 740nm red edge 2
	B7  float64 `json:"B7"`  // 783nm red edge 3
	B8  float64 `json:"B8"`  // 842nm NIR
	B8A float64 `json:"B8A"` // 865nm narrow NIR
	B9  float64 `json:"B9"`  // 945nm water vapour
	B10 float64 `json:"B10"` // 1375nm cirrus
	B11 float64 `json:"B11"` // 1610nm SWIR 1
	B12 float64 `json:"B12"` // 2190nm SWIR 2
}

// Named accessors for the five bands the index formulas consume.

func (b BandSample) Blue() float64  { return b.B2 }
func (b BandSample) Green() float64 { return b.B3 }
func (b BandSample) Red() float64   { return b.B4 }
func (b BandSample) NIR() float64   { return b.B8 }
func (b BandSample) SWIR1() float64 { return b.B11 }

// IsEmpty reports whether no band carries a reading.
func (b BandSample) IsEmpty() bool {
	return b == BandSample{}
}

// MergeBandSamples averages multiple samples band by band. Several
// Sentinel-2 tiles can cover the same field; the provider hands back one
// sample per tile and the mean is what the analysis consumes. Zero values
// participate in the mean like any other reading, matching the upstream
// tile aggregation. Returns the zero sample for empty input.
func MergeBandSamples(samples []BandSample) BandSample {
	switch len(samples) {
	case 0:
		return BandSample{}
	case 1:
		return samples[0]
	}

	column := func(pick func(BandSample) float64) float64 {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = pick(s)
		}
		m, err := stats.Mean(values)
		if err != nil {
			return 0
		}
		return m
	}

	return BandSample{
		B1:  column(func(s BandSample) float64 { return s.B1 }),
		B2:  column(func(s BandSample) float64 { return s.B2 }),
		B3:  column(func(s BandSample) float64 { return s.B3 }),
		B4:  column(func(s BandSample) float64 { return s.B4 }),
		B5:  column(func(s BandSample) float64 { return s.B5 }),
		B6:  column(func(s BandSample) float64 { return s.B6 }),
		B7:  column(func(s BandSample) float64 { return s.B7 }),
		B8:  column(func(s BandSample) float64 { return s.B8 }),
		B8A: column(func(s BandSample) float64 { return s.B8A }),
		B9:  column(func(s BandSample) float64 { return s.B9 }),
		B10: column(func(s BandSample) float64 { return s.B10 }),
		B11: column(func(s BandSample) float64 { return s.B11 }),
		B12: column(func(s BandSample) float64 { return s.B12 }),
	}
}
