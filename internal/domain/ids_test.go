package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompanyIDStripsPunctuation(t *testing.T) {
	id, err := ParseCompanyID("11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", id.String())

	// Canonical form parses back to itself.
	again, err := ParseCompanyID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestParseCompanyIDRejections(t *testing.T) {
	cases := map[string]string{
		"wrong check digit":  "11222333000180",
		"too short":          "1122233300018",
		"too long":           "112223330001811",
		"repeated digits":    "11111111111111",
		"letters only":       "abcdefghijklmn",
		"empty":              "",
	}
	for name, raw := range cases {
		_, err := ParseCompanyID(raw)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestParsePersonID(t *testing.T) {
	// 529.982.247-25 is the classic valid example.
	id, err := ParsePersonID("529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, "52998224725", id.String())

	_, err = ParsePersonID("52998224724")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParsePersonID("00000000000")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBandBoundaries(t *testing.T) {
	assert.Equal(t, BandLow, BandFor(0))
	assert.Equal(t, BandLow, BandFor(20))
	assert.Equal(t, BandModerate, BandFor(21))
	assert.Equal(t, BandModerate, BandFor(40))
	assert.Equal(t, BandHigh, BandFor(41))
	assert.Equal(t, BandHigh, BandFor(65))
	assert.Equal(t, BandCritical, BandFor(66))
	assert.Equal(t, BandCritical, BandFor(100))
}

func TestParseAlertKind(t *testing.T) {
	for _, k := range AlertKinds {
		parsed, err := ParseAlertKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseAlertKind("SOMETHING_ELSE")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
