package beneficio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcularDescuento(t *testing.T) {
	tests := []struct {
		name        string
		tipo        string
		descuento   float64
		montoCompra float64
		want        float64
	}{
		{"porcentaje sobre compra", TipoPorcentaje, 10, 200, 20},
		{"porcentaje con redondeo", TipoPorcentaje, 15, 99.99, 15},
		{"porcentaje sin monto", TipoPorcentaje, 10, 0, 0},
		{"monto fijo", TipoMontoFijo, 50, 300, 50},
		{"monto fijo sin monto de compra", TipoMontoFijo, 50, 0, 0},
		{"producto gratis", TipoProductoGratis, 0, 500, 0},
		{"tipo desconocido", "2x1", 10, 500, 0},
		{"monto negativo", TipoMontoFijo, 50, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Beneficio{Tipo: tt.tipo, Descuento: tt.descuento}
			assert.Equal(t, tt.want, b.CalcularDescuento(tt.montoCompra))
		})
	}
}

func TestCalcularDescuentoSinErroresDeFlotante(t *testing.T) {
	b := &Beneficio{Tipo: TipoPorcentaje, Descuento: 10}
	// 0.1*110.0 in float64 is 11.000000000000002; decimal math keeps it exact.
	assert.Equal(t, 11.0, b.CalcularDescuento(110))
}

func TestDisponiblePara(t *testing.T) {
	sinRestriccion := &Beneficio{}
	assert.True(t, sinRestriccion.DisponiblePara("asoc-1"))
	assert.True(t, sinRestriccion.DisponiblePara(""))

	restringido := &Beneficio{AsociacionesDisponibles: []string{"asoc-1", "asoc-2"}}
	assert.True(t, restringido.DisponiblePara("asoc-2"))
	assert.False(t, restringido.DisponiblePara("asoc-3"))
}

func TestResumen(t *testing.T) {
	b := &Beneficio{
		ID:          "ben-1",
		Titulo:      "10% en cafetería",
		Descripcion: "solo los martes",
		Tipo:        TipoPorcentaje,
		Descuento:   10,
	}

	r := b.Resumen()
	assert.Equal(t, "ben-1", r.ID)
	assert.Equal(t, "10% en cafetería", r.Titulo)
	assert.Equal(t, 10.0, r.Descuento)
	assert.Equal(t, TipoPorcentaje, r.Tipo)
}
