package codegen

import (
	"context"
	"crypto/rand"
	"math/big"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/pkg/errs"
)

const (
	alphanumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength        = 8
)

// ExistsChecker reports whether a candidate code is already taken.
type ExistsChecker interface {
	ExistsCode(ctx context.Context, code reservation.Code) (bool, error)
}

// RandomCodeFunc produces one candidate; injectable for collision tests.
type RandomCodeFunc func() (string, error)

// Generator produces globally-unique reservation codes with collision retry.
// Failed candidates are never reused: every attempt draws fresh randomness.
type Generator struct {
	checker    ExistsChecker
	randomCode RandomCodeFunc
	maxRetries int
}

func NewGenerator(checker ExistsChecker, maxRetries int, randomCode RandomCodeFunc) *Generator {
	if maxRetries <= 0 {
		maxRetries = 1000
	}
	if randomCode == nil {
		randomCode = RandomCode
	}
	return &Generator{
		checker:    checker,
		randomCode: randomCode,
		maxRetries: maxRetries,
	}
}

// Generate returns a unique code, retrying sequentially on collisions up to
// the configured cap.
func (g *Generator) Generate(ctx context.Context) (reservation.Code, error) {
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		raw, err := g.randomCode()
		if err != nil {
			return reservation.Code{}, errs.Wrap(err, "failed to draw random code")
		}

		code, err := reservation.NewCode(raw)
		if err != nil {
			continue
		}

		exists, err := g.checker.ExistsCode(ctx, code)
		if err != nil {
			return reservation.Code{}, errs.Wrap(err, "failed to check code uniqueness")
		}
		if !exists {
			return code, nil
		}
	}

	return reservation.Code{}, errs.ErrCodeGenerationExhausted
}

// RandomCode draws an 8-char alphanumeric code from crypto/rand.
func RandomCode() (string, error) {
	max := big.NewInt(int64(len(alphanumericChars)))
	out := make([]byte, codeLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphanumericChars[n.Int64()]
	}
	return string(out), nil
}
