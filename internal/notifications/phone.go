package notifications

import "strings"

// NormalizePhoneTR converts a raw phone number into rough E.164 for Turkey.
//
// Accepted shapes: 0505..., 505..., +90505..., 90505..., 00905... The
// provider does the final validation; this is only a best-effort cleanup.
func NormalizePhoneTR(number string) string {
	s := strings.TrimSpace(number)
	if s == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	s = b.String()

	switch {
	case strings.HasPrefix(s, "+"):
		return s
	case strings.HasPrefix(s, "00"):
		return "+" + s[2:]
	case strings.HasPrefix(s, "90") && len(s) >= 12:
		return "+" + s
	case strings.HasPrefix(s, "0") && len(s) >= 11:
		return "+90" + s[1:]
	case len(s) == 10 && strings.HasPrefix(s, "5"):
		return "+90" + s
	default:
		return s
	}
}
