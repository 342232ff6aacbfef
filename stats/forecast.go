package stats

// forecastWindow is how many trailing days feed the projection, and
// forecastBase how many of the most recent days anchor it.
const (
	forecastWindow = 7
	forecastBase   = 3
)

// Forecast projects the next day's value from the recent series: the
// mean of the last three days scaled by the half-vs-half trend of the
// last seven. With fewer than three points there is nothing to project.
func Forecast(points []DailyPoint) ForecastResult {
	if len(points) < forecastBase {
		return ForecastResult{}
	}

	recent := points
	if len(recent) > forecastWindow {
		recent = recent[len(recent)-forecastWindow:]
	}

	trendPct := 0.0
	if len(recent) >= forecastBase {
		half := len(recent) / 2
		first := Mean(recent[:half])
		second := Mean(recent[half:])
		if first > 0 {
			trendPct = (second - first) / first * 100
		}
	}

	base := Mean(points[len(points)-forecastBase:])
	return ForecastResult{
		Valid:     true,
		NextValue: base * (1 + trendPct/100),
		TrendPct:  trendPct,
	}
}
