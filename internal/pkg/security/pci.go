package security

import (
	"fmt"
	"regexp"
	"strings"

	"reservas-api/internal/pkg/errs"
)

var (
	ErrRawCardNumber    = errs.New("card number must be tokenized before persistence")
	ErrInvalidCardToken = errs.New("card token format is invalid")
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{12,19}$`)
	cardTokenPattern  = regexp.MustCompile(`^(tok_|pm_|card_)[A-Za-z0-9_]+$`)
)

// EnforcePCIStorageRules filters a snapshot before persistence: CVV-like keys
// are dropped, raw PANs are rejected, and token fields must be token-shaped.
func EnforcePCIStorageRules(payload any) (any, error) {
	switch v := payload.(type) {
	case map[string]any:
		sanitized := make(map[string]any, len(v))
		for key, value := range v {
			lowered := strings.ToLower(key)
			if lowered == "cvv" || lowered == "cvc" || lowered == "security_code" {
				continue
			}

			if looksLikeCardNumberField(lowered) {
				valueStr := strings.TrimSpace(fmt.Sprintf("%v", value))
				if cardNumberPattern.MatchString(valueStr) {
					return nil, ErrRawCardNumber
				}
				if looksLikeTokenField(lowered) && !cardTokenPattern.MatchString(valueStr) {
					return nil, ErrInvalidCardToken
				}
				sanitized[key] = value
				continue
			}

			filtered, err := EnforcePCIStorageRules(value)
			if err != nil {
				return nil, err
			}
			sanitized[key] = filtered
		}
		return sanitized, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			filtered, err := EnforcePCIStorageRules(item)
			if err != nil {
				return nil, err
			}
			out = append(out, filtered)
		}
		return out, nil
	default:
		return payload, nil
	}
}

func looksLikeCardNumberField(key string) bool {
	for _, token := range []string{"card", "pan", "account_number"} {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func looksLikeTokenField(key string) bool {
	return strings.Contains(key, "token")
}
