// Package domain models multispectral farm analysis: spectral indices,
// crop health scoring, soil assessment, pest risk, and alert generation.
//
// # Data Source
//
// Band values come from Sentinel-2 L2A surface reflectance, averaged over
// the farm polygon by the band data provider. Values are reflectance
// multiplied by 10000 (the Copernicus convention), so a healthy canopy
// NIR reading is typically in the 2500-4000 range. The core never
// rescales; all indices are ratios and are scale-invariant.
//
// # Band Conventions
//
// Thirteen Sentinel-2 bands are carried end to end:
//
//	B1   443nm  coastal aerosol     B8   842nm  NIR
//	B2   490nm  blue                B8A  865nm  narrow NIR
//	B3   560nm  green               B9   945nm  water vapour
//	B4   665nm  red                 B10  1375nm cirrus
//	B5   705nm  red edge 1          B11  1610nm SWIR 1
//	B6   740nm  red edge 2          B12  2190nm SWIR 2
//	B7   783nm  red edge 3
//
// A value of exactly 0 means the band was unavailable from the provider.
// Index formulas guard every denominator, so a missing band degrades the
// affected index to 0 instead of producing NaN or Inf.
//
// # Scoring Policy
//
// Health and pest risk scores are additive: a fixed base plus an ordered
// list of (predicate, delta) rules, clamped to [0,100] after the last rule.
// Every qualifying rule fires; there is no early exit. Problem detection is
// independent of the score and follows a fixed order: vegetation (NDVI),
// moisture (NDMI), bare soil (BSI), then disease risk (weather).
//
// Status thresholds: >=75 healthy, >=50 moderate, >=25 poor, else critical.
// Risk thresholds: >=70 high, >=40 medium, else low.
//
// Missing inputs are neutral, never fatal: a nil weather snapshot skips the
// weather rules, an unknown crop type skips the per-crop advice block, and
// absent manual soil fields are treated as unknown rather than deficient.
// All exported analysis functions are total over numeric input.
package domain
