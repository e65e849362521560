package utils

import "strings"

// NormalizePhone converts an Indonesian phone number to international +62
// format. Leading 0 and bare 8 prefixes are rewritten; numbers already in 62
// form just gain the plus sign. Non-digit characters are stripped first.
func NormalizePhone(raw string) string {
	digits := DigitsOnly(raw)
	switch {
	case strings.HasPrefix(digits, "62"):
		return "+" + digits
	case strings.HasPrefix(digits, "0"):
		return "+62" + digits[1:]
	case strings.HasPrefix(digits, "8"):
		return "+62" + digits
	default:
		return "+" + digits
	}
}

// DigitsOnly strips every non-digit character from s
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitName splits a full name into first and last name on the first space.
// Single-word names become the first name with an empty last name.
func SplitName(fullName string) (first, last string) {
	fullName = strings.TrimSpace(fullName)
	if i := strings.IndexByte(fullName, ' '); i >= 0 {
		return fullName[:i], strings.TrimSpace(fullName[i+1:])
	}
	return fullName, ""
}
