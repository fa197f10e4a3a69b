// Package location reglas de cobertura de despacho.
package location

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Normalize quita tildes, espacios sobrantes y mayúsculas: "  MATURIN " y "Maturín" quedan iguales.
func Normalize(city string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.TrimSpace(city))
	if err != nil {
		s = strings.TrimSpace(city)
	}
	return folder.String(strings.Join(strings.Fields(s), " "))
}

// SameCity compara dos ciudades sin distinguir tildes ni mayúsculas.
func SameCity(a, b string) bool {
	na := Normalize(a)
	return na != "" && na == Normalize(b)
}
