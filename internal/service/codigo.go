package service

import (
	"math/rand/v2"
	"strings"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

const codigoAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CodigoGenerator produces linking codes.
type CodigoGenerator func() string

// NewCodigoVinculacion returns a random code of domain.CodigoVinculacionLength
// symbols. Codes are not secrets; uniqueness is enforced by the store.
func NewCodigoVinculacion() string {
	var b strings.Builder
	b.Grow(domain.CodigoVinculacionLength)
	for i := 0; i < domain.CodigoVinculacionLength; i++ {
		b.WriteByte(codigoAlphabet[rand.IntN(len(codigoAlphabet))])
	}
	return b.String()
}

// IsCodigoVinculacion reports whether s is a well-formed linking code.
func IsCodigoVinculacion(s string) bool {
	if len(s) != domain.CodigoVinculacionLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(codigoAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}
