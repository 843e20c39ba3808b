package scrape

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePageCount reads the total page count from the pager text. The leading
// run of digits is used, so "312 pages" and "1,204" both parse.
func ParsePageCount(text string) (int, error) {
	text = strings.TrimSpace(text)

	end := 0
	for end < len(text) && (text[end] >= '0' && text[end] <= '9' || text[end] == ',') {
		end++
	}
	digits := strings.ReplaceAll(text[:end], ",", "")
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrPageCount, text)
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrPageCount, text, err)
	}
	return n, nil
}
