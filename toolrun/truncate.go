package toolrun

// TruncationMarker is appended to string results cut at the policy limit.
const TruncationMarker = "...[truncated]"

// Truncate cuts a string value to maxChars characters and appends the
// truncation marker. Values that are not strings, and strings at or below
// the limit, pass through unmodified.
func Truncate(value any, maxChars int) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + TruncationMarker
}
