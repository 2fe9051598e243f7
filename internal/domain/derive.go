package domain

import "math"

// RollingWindow is the number of preceding calendar days averaged into
// Observation.RollingAvg.
const RollingWindow = 7

// DeriveMetrics attaches Diff and RollingAvg to the primary observation of
// every (date, category) pair. Missing history leaves the fields nil. It only
// reads primary values, so the order in which dates are visited is irrelevant.
func DeriveMetrics(days map[string]DailyCategoryData) {
	for date, day := range days {
		for c, obs := range day {
			if len(obs) == 0 {
				continue
			}
			obs[0].Diff = dayDiff(days, date, c, obs[0].Value)
			obs[0].RollingAvg = rollingAverage(days, date, c)
		}
	}
}

func primaryValue(days map[string]DailyCategoryData, date string, c CategoryID) (int64, bool) {
	day, ok := days[date]
	if !ok {
		return 0, false
	}
	obs, ok := day.Primary(c)
	if !ok {
		return 0, false
	}
	return obs.Value, true
}

func dayDiff(days map[string]DailyCategoryData, date string, c CategoryID, value int64) *int64 {
	prior, ok := PriorDay(date)
	if !ok {
		return nil
	}
	prev, ok := primaryValue(days, prior, c)
	if !ok {
		return nil
	}
	d := value - prev
	return &d
}

// rollingAverage averages the primaries of the RollingWindow days strictly
// before date. Any gap in the window yields nil.
func rollingAverage(days map[string]DailyCategoryData, date string, c CategoryID) *int64 {
	var sum int64
	for i := 1; i <= RollingWindow; i++ {
		d, ok := ShiftDate(date, -i)
		if !ok {
			return nil
		}
		v, ok := primaryValue(days, d, c)
		if !ok {
			return nil
		}
		sum += v
	}
	avg := roundHalfUp(float64(sum) / RollingWindow)
	return &avg
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
