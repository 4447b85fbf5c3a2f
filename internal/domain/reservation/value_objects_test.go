//go:build unit

package reservation_test

import (
	"testing"

	"reservas-api/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	valid := []string{"ABCD1234", "abcdefgh", "00000000", "aB3dE6gH"}
	for _, v := range valid {
		code, err := reservation.NewCode(v)
		require.NoError(t, err, v)
		assert.Equal(t, v, code.Value())
	}

	invalid := []string{"", "ABC1234", "ABCD12345", "ABCD 123", "ABCD-123", "ÁBCD1234"}
	for _, v := range invalid {
		_, err := reservation.NewCode(v)
		assert.ErrorIs(t, err, reservation.ErrInvalidCode, v)
	}
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		out   string
	}{
		{"180.50", 18050, "180.50"},
		{"180.5", 18050, "180.50"},
		{"180", 18000, "180.00"},
		{"0.01", 1, "0.01"},
		{" 42.00 ", 4200, "42.00"},
	}
	for _, c := range cases {
		m, err := reservation.ParseMoney(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.cents, m.Cents(), c.in)
		assert.Equal(t, c.out, m.String(), c.in)
	}

	for _, bad := range []string{"", "-1.00", "+1.00", "1.005", "1.", "abc", "1,50"} {
		_, err := reservation.ParseMoney(bad)
		assert.ErrorIs(t, err, reservation.ErrInvalidAmount, bad)
	}
}

func TestSnapshotCopy(t *testing.T) {
	original := reservation.Snapshot{"name": "Ana", "tier": "gold"}
	copied := original.Copy()

	copied["name"] = "Eva"
	assert.Equal(t, "Ana", original["name"])

	assert.NotNil(t, reservation.Snapshot(nil).Copy())
}
