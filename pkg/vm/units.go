package vm

import "math"

// volumeRatioToMilliDB converts a linear volume ratio (as stored in
// Override.Volume) to milli-decibels, the unit get_event_par(VOLUME)
// reports in.
func volumeRatioToMilliDB(ratio float32) float64 {
	if ratio <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(float64(ratio)) * 1000
}

// pitchRatioToMilliCent converts a linear frequency ratio (as stored in
// Override.Pitch) to milli-cents, the unit get_event_par(TUNE) reports
// in (1200 cents per octave).
func pitchRatioToMilliCent(ratio float32) float64 {
	if ratio <= 0 {
		return 0
	}
	return 1200 * math.Log2(float64(ratio)) * 1000
}
