package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerarCodigoValidacion(t *testing.T) {
	codigo := GenerarCodigoValidacion()
	assert.Len(t, codigo, 9)
	for _, c := range codigo {
		assert.True(t, strings.ContainsRune(alfabetoCodigo, c), "unexpected character %q", c)
	}
}

func TestGenerarCodigoUso(t *testing.T) {
	codigo := GenerarCodigoUso()
	assert.Len(t, codigo, 6)
	for _, c := range codigo {
		assert.True(t, strings.ContainsRune(alfabetoCodigo, c), "unexpected character %q", c)
	}
}

func TestCodigosVarian(t *testing.T) {
	vistos := make(map[string]bool)
	for i := 0; i < 100; i++ {
		vistos[GenerarCodigoValidacion()] = true
	}
	// 100 draws out of 36^9 should never collide into a single value.
	assert.Greater(t, len(vistos), 1)
}
