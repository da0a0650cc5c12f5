package ec

import "math"

// PercentToDuty converts a fan speed percentage to the device's native duty
// range by linear scaling, rounded to the nearest integer.
func PercentToDuty(percent float64, dutyMin, dutyMax int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	duty := float64(dutyMin) + percent/100*float64(dutyMax-dutyMin)

	return int(math.Round(duty))
}

// DutyToPercent is the inverse linear map of PercentToDuty.
func DutyToPercent(duty, dutyMin, dutyMax int) float64 {
	if dutyMax == dutyMin {
		return 0
	}
	if duty < dutyMin {
		duty = dutyMin
	}
	if duty > dutyMax {
		duty = dutyMax
	}

	return float64(duty-dutyMin) / float64(dutyMax-dutyMin) * 100
}
