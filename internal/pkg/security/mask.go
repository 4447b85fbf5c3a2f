package security

import (
	"regexp"
	"strings"
)

var (
	longDigitRun = regexp.MustCompile(`\d{12,19}`)
	emailShape   = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

// sensitiveKeys are masked wholesale before any log line is emitted.
var sensitiveKeys = []string{"token", "card", "pan", "secret", "password", "authorization"}

// MaskValue hides card digit runs (keeping the last 4) and email local parts.
func MaskValue(value string) string {
	masked := longDigitRun.ReplaceAllStringFunc(value, func(digits string) string {
		return "****" + digits[len(digits)-4:]
	})
	if emailShape.MatchString(masked) {
		local, domain, _ := strings.Cut(masked, "@")
		if len(local) > 1 {
			local = local[:1] + "***"
		} else {
			local = "***"
		}
		masked = local + "@" + domain
	}
	return masked
}

// MaskSensitiveData walks a payload and masks everything that looks secret,
// either by key name or by value shape.
func MaskSensitiveData(payload any) any {
	switch v := payload.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			if isSensitiveKey(key) {
				out[key] = "***"
				continue
			}
			out[key] = MaskSensitiveData(value)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, MaskSensitiveData(item))
		}
		return out
	case string:
		return MaskValue(v)
	default:
		return payload
	}
}

func isSensitiveKey(key string) bool {
	lowered := strings.ToLower(key)
	for _, token := range sensitiveKeys {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}
