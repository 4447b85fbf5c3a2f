package security

import (
	"regexp"
	"strings"

	"reservas-api/internal/pkg/errs"
)

var ErrUnsafeInput = errs.New("input contains possible SQL injection pattern")

var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
}

var sqlInjectionPattern = regexp.MustCompile(`(?is)(` +
	`--|/\*|\*/|` +
	`\bunion\s+select\b|` +
	`\bdrop\s+table\b|` +
	`\btruncate\s+table\b|` +
	`'\s*(or|and)\s+[\w']+\s*=\s*[\w']+|` +
	`;\s*(select|insert|update|delete|drop|alter|truncate|union)\b` +
	`)`)

// SanitizeText removes XSS-like content and normalizes plain text fields.
func SanitizeText(value string) string {
	cleaned := strings.ReplaceAll(value, "\x00", "")
	cleaned = strings.TrimSpace(cleaned)
	for _, pattern := range xssPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.ReplaceAll(cleaned, "<", "")
	cleaned = strings.ReplaceAll(cleaned, ">", "")
	return cleaned
}

// ValidateTextIsSafe rejects SQL-injection-shaped fragments.
func ValidateTextIsSafe(value string) error {
	if sqlInjectionPattern.MatchString(value) {
		return ErrUnsafeInput
	}
	return nil
}

// SanitizeAndValidateText sanitizes and validates a text input in one step.
func SanitizeAndValidateText(value string) (string, error) {
	cleaned := SanitizeText(value)
	if err := ValidateTextIsSafe(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}

// SanitizePayload recursively sanitizes and validates every string leaf of a
// nested payload. Non-string leaves pass through untouched.
func SanitizePayload(payload any) (any, error) {
	switch v := payload.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			cleaned, err := SanitizePayload(value)
			if err != nil {
				return nil, err
			}
			out[key] = cleaned
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			cleaned, err := SanitizePayload(item)
			if err != nil {
				return nil, err
			}
			out = append(out, cleaned)
		}
		return out, nil
	case string:
		return SanitizeAndValidateText(v)
	default:
		return payload, nil
	}
}
