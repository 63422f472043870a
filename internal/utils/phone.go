package utils

import "strings"

// Code pays Bénin et préfixe national introduit en 2021 (01 + 8 chiffres).
const (
	beninCountryCode = "229"
	beninTrunkPrefix = "01"
)

// NormalizePhone ramène un numéro saisi librement au format international
// +229XXXXXXXX. Retourne ok=false pour toute forme non reconnue: l'appelant
// doit alors sauter l'envoi, jamais échouer.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	// Déjà préfixé par le code pays: 229 + 8 chiffres
	case strings.HasPrefix(digits, beninCountryCode) && len(digits) == len(beninCountryCode)+8:
		return "+" + digits, true

	// Préfixe national 01 sur 10 chiffres: on retire les 2 chiffres de tronc
	case len(digits) == 10 && strings.HasPrefix(digits, beninTrunkPrefix):
		return "+" + beninCountryCode + digits[2:], true

	// Zéro de tronc simple sur 9 chiffres
	case len(digits) == 9 && digits[0] == '0':
		return "+" + beninCountryCode + digits[1:], true

	// Numéro local nu de 8 chiffres
	case len(digits) == 8:
		return "+" + beninCountryCode + digits, true
	}

	return "", false
}
