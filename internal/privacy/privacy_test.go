package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

func TestMaskPersonID(t *testing.T) {
	id, err := domain.ParsePersonID("52998224725")
	require.NoError(t, err)
	assert.Equal(t, "*******4725", MaskPersonID(id))
}

func TestSanitizeForLog(t *testing.T) {
	// A valid person id is masked; a company id passes through.
	in := "/api/search?q=52998224725&id=11222333000181"
	out := SanitizeForLog(in)
	assert.NotContains(t, out, "52998224725")
	assert.Contains(t, out, "*******4725")
	assert.Contains(t, out, "11222333000181")

	// Digit runs that fail the checksum are left alone.
	assert.Equal(t, "/api/suppliers/ranking?limit=20", SanitizeForLog("/api/suppliers/ranking?limit=20"))
	assert.Equal(t, "12345678901", SanitizeForLog("12345678901"))
}
