package money

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizePercent renders a user-entered percentage as "NN%". Values in
// (0, 1] are treated as a fraction and scaled by 100; anything else is
// taken as an already-expressed percentage. Blank or unparseable input
// yields "".
func NormalizePercent(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}
	t = strings.TrimSpace(strings.ReplaceAll(t, "%", ""))

	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return ""
	}
	if v > 0 && v <= 1 {
		v *= 100
	}
	return fmt.Sprintf("%.0f%%", v)
}
