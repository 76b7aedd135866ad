package utils

// RoundVolume rounds a share count down to whole lots.
func RoundVolume(volume float64, lotSize int64) int64 {
	if lotSize <= 0 {
		lotSize = 1
	}
	return int64(volume/float64(lotSize)) * lotSize
}
