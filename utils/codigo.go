package utils

import "math/rand/v2"

const alfabetoCodigo = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	largoCodigoValidacion = 9
	largoCodigoUso        = 6
)

// GenerarCodigoValidacion returns the human-readable code printed on a
// validation record. Collisions are statistically negligible at 36^9 and
// are not checked against existing records.
func GenerarCodigoValidacion() string {
	return codigoAleatorio(largoCodigoValidacion)
}

// GenerarCodigoUso returns the short code attached to a redeemed benefit.
func GenerarCodigoUso() string {
	return codigoAleatorio(largoCodigoUso)
}

func codigoAleatorio(largo int) string {
	b := make([]byte, largo)
	for i := range b {
		b[i] = alfabetoCodigo[rand.IntN(len(alfabetoCodigo))]
	}
	return string(b)
}
