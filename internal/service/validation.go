package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"
)

// Etiquetas de fortaleza de contraseña.
const (
	PasswordWeak   = "weak"
	PasswordMedium = "medium"
	PasswordStrong = "strong"
)

// Validador de email pragmático, estilo RFC 5322.
var emailPattern = regexp.MustCompile(`^[a-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)+$`)

var multipleAt = regexp.MustCompile(`@{2,}`)

// NormalizeEmail baja a minúsculas, recorta y elimina espacios y
// caracteres de control; colapsa arrobas repetidas.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	var sb strings.Builder
	for _, r := range email {
		if r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return multipleAt.ReplaceAllString(sb.String(), "@")
}

// ValidEmail valida el email ya normalizado.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// SanitizeText elimina caracteres de control y los corchetes de HTML,
// y acota el largo. El corte es por runas, nunca a mitad de un
// carácter multibyte.
func SanitizeText(value string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = 200
	}
	var sb strings.Builder
	kept := 0
	for _, r := range value {
		if r < 0x20 || r == 0x7f || r == '<' || r == '>' {
			continue
		}
		if kept == maxLength {
			break
		}
		sb.WriteRune(r)
		kept++
	}
	return strings.TrimSpace(sb.String())
}

// PasswordScore aplica la rúbrica de 5 puntos: largo>=8, mayúscula,
// minúscula, dígito y carácter especial suman un punto cada uno.
func PasswordScore(password string) int {
	score := 0
	if len(password) >= 8 {
		score++
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			hasSpecial = true
		}
	}
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			score++
		}
	}
	return score
}

// PasswordLabel traduce el puntaje a weak/medium/strong.
func PasswordLabel(score int) string {
	switch {
	case score >= 5:
		return PasswordStrong
	case score >= 3:
		return PasswordMedium
	default:
		return PasswordWeak
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func isValidCodeFormat(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
