package utils

import "strconv"

// FormatID renders a numeric id the way the API exposes string ids.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseID parses a positive numeric id from a path parameter.
func ParseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
