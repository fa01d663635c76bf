package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var tickerRx = regexp.MustCompile(`^[A-Z]{1,5}(\.[A-Z]{1,2})?$`)

// NormalizeTicker upper-cases and strips a leading cashtag.
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	t = strings.TrimPrefix(t, "$")
	if !tickerRx.MatchString(t) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
	}
	return t, nil
}
