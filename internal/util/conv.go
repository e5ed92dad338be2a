package util

import (
	"fmt"
	"strconv"
)

// ParseNonNegativeInt parses a path parameter such as a feed position or a
// curriculum lesson id.
func ParseNonNegativeInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}
