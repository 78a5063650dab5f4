package order

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const (
	trackingPrefix       = "TRK"
	trackingTimeDigits   = 8
	trackingSuffixLength = 4
)

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTrackingNumber produces a customer-facing tracking number:
// the TRK prefix, the last 8 digits of the current epoch milliseconds,
// and a 4-character random alphanumeric suffix. The time component alone
// is not collision-free under concurrency, so callers must still handle
// a uniqueness violation by regenerating
func GenerateTrackingNumber() (string, error) {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(millis) > trackingTimeDigits {
		millis = millis[len(millis)-trackingTimeDigits:]
	}

	buf := make([]byte, trackingSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate tracking suffix: %w", err)
	}
	suffix := make([]byte, trackingSuffixLength)
	for i, b := range buf {
		suffix[i] = trackingAlphabet[int(b)%len(trackingAlphabet)]
	}

	return trackingPrefix + millis + string(suffix), nil
}
