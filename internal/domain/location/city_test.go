package location_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-api/internal/domain/location"
)

func TestSameCity(t *testing.T) {
	assert.True(t, location.SameCity("Maturín", "Maturín"))
	assert.True(t, location.SameCity("maturin", "Maturín"))
	assert.True(t, location.SameCity("  MATURÍN ", "Maturín"))
	assert.False(t, location.SameCity("Caracas", "Maturín"))
	assert.False(t, location.SameCity("", ""))
}

func TestNormalize_ColapsaEspacios(t *testing.T) {
	assert.Equal(t, "puerto la cruz", location.Normalize("Puerto   La Cruz"))
}
