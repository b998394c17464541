package domain

// WeatherSnapshot carries the four weather scalars the scoring rules
// consume. Supplied externally; copied by value into assessments.
type WeatherSnapshot struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	RainfallMM   float64 `json:"rainfall_mm"`
	WindSpeedMPS float64 `json:"wind_speed_mps"`
}
