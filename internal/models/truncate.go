package models

// ResultCap bounds stored tool results and message content.
const ResultCap = 50 * 1024

// TruncationMarker is appended to content cut at ResultCap.
const TruncationMarker = "... [truncated]"

// Truncate cuts s to ResultCap bytes plus the truncation marker. Content
// at or under the cap is returned unchanged.
func Truncate(s string) string {
	if len(s) <= ResultCap {
		return s
	}
	return s[:ResultCap] + TruncationMarker
}
