package domain

import "math"

// DefaultSoilFactor is the canonical L parameter for SAVI, suited to
// intermediate vegetation cover.
const DefaultSoilFactor = 0.5

// IndexSet holds the seven spectral indices derived from one BandSample.
// Each value is rounded to four decimal places.
type IndexSet struct {
	NDVI  float64 `json:"ndvi"`
	EVI   float64 `json:"evi"`
	SAVI  float64 `json:"savi"`
	NDWI  float64 `json:"ndwi"`
	NDMI  float64 `json:"ndmi"`
	BSI   float64 `json:"bsi"`
	MSAVI float64 `json:"msavi"`
}

// ComputeAllIndices derives the full index set from a band sample.
// Deterministic: identical samples yield bit-identical index sets.
func ComputeAllIndices(bands BandSample) IndexSet {
	return IndexSet{
		NDVI:  NDVI(bands.NIR(), bands.Red()),
		EVI:   EVI(bands.NIR(), bands.Red(), bands.Blue()),
		SAVI:  SAVI(bands.NIR(), bands.Red(), DefaultSoilFactor),
		NDWI:  NDWI(bands.Green(), bands.NIR()),
		NDMI:  NDMI(bands.NIR(), bands.SWIR1()),
		BSI:   BSI(bands.SWIR1(), bands.Red(), bands.NIR(), bands.Blue()),
		MSAVI: MSAVI(bands.NIR(), bands.Red()),
	}
}

// NDVI is the normalized difference vegetation index, (NIR-Red)/(NIR+Red).
func NDVI(nir, red float64) float64 {
	return round4(safeRatio(nir-red, nir+red))
}

// EVI is the enhanced vegetation index, which corrects NDVI saturation
// under dense canopy using the blue band.
func EVI(nir, red, blue float64) float64 {
	return round4(2.5 * safeRatio(nir-red, nir+6*red-7.5*blue+1))
}

// SAVI is the soil-adjusted vegetation index with soil brightness factor l.
func SAVI(nir, red, l float64) float64 {
	return round4(safeRatio(nir-red, nir+red+l) * (1 + l))
}

// NDWI is the normalized difference water index, (Green-NIR)/(Green+NIR).
func NDWI(green, nir float64) float64 {
	return round4(safeRatio(green-nir, green+nir))
}

// NDMI is the normalized difference moisture index, (NIR-SWIR1)/(NIR+SWIR1).
func NDMI(nir, swir1 float64) float64 {
	return round4(safeRatio(nir-swir1, nir+swir1))
}

// BSI is the bare soil index; high values indicate exposed soil.
func BSI(swir1, red, nir, blue float64) float64 {
	return round4(safeRatio((swir1+red)-(nir+blue), (swir1+red)+(nir+blue)))
}

// MSAVI is the modified soil-adjusted vegetation index. A negative radicand
// can only arise from malformed input and yields 0 rather than NaN.
func MSAVI(nir, red float64) float64 {
	radicand := (2*nir+1)*(2*nir+1) - 8*(nir-red)
	if radicand < 0 {
		return 0
	}
	return round4((2*nir + 1 - math.Sqrt(radicand)) / 2)
}

// safeRatio divides num by den, returning 0 for a zero denominator.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
