package files

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// PageSize is the fixed number of records per listing page.
const PageSize = 20

// ParsePage returns the zero-based page index. Anything that is not a
// non-negative integer yields page 0. Positive indexes too large for an int
// saturate at math.MaxInt.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// PageOffset returns how many records precede page. ok is false when the
// offset overflows an int; such a page lies past the end of any listing.
func PageOffset(page, pageSize int) (offset int, ok bool) {
	if pageSize <= 0 {
		return 0, false
	}
	if page <= 0 {
		return 0, true
	}
	if page > math.MaxInt/pageSize {
		return 0, false
	}
	return page * pageSize, true
}
