package classify

// CAQI status labels, best to worst.
const (
	AQIBest      = "A-MAZE-BALLS"
	AQIGood      = "Open the windows, go out!"
	AQINeutral   = "It's ok..."
	AQIPoor      = "Bad, but will survive"
	AQIHazardous = "Hazardous, do not open the windows"
)

var aqiLabels = [...]string{AQIBest, AQIGood, AQINeutral, AQIPoor, AQIHazardous}

// AQISeverity returns the bucket index of a CAQI value, 0 (best) to 4
// (hazardous). Values outside the documented range land in the hazardous
// bucket.
func AQISeverity(caqi int) int {
	switch {
	case caqi >= 0 && caqi <= 33:
		return 0
	case caqi >= 34 && caqi <= 66:
		return 1
	case caqi >= 67 && caqi <= 99:
		return 2
	case caqi >= 100 && caqi <= 150:
		return 3
	default:
		return 4
	}
}

func AQIStatusLabel(caqi int) string {
	return aqiLabels[AQISeverity(caqi)]
}

// TruncateIndex converts the provider's float index to the integer used for
// bucketing. It truncates toward zero, it does not round.
func TruncateIndex(value float64) int {
	return int(value)
}
