// Package masking hides sensitive client fields from read-only users.
package masking

import (
	"strings"

	"github.com/casa80eventos/casa80-backend/pkg/enums"
)

// Phone keeps the first digit and the last two, e.g. "3001234567" -> "3*******67".
func Phone(phone *string, role enums.UserRole) string {
	value := deref(phone)
	if value == "" || role.CanViewSensitive() {
		return value
	}

	runes := []rune(value)
	if len(runes) <= 4 {
		return value
	}
	masked := strings.Repeat("*", max(len(runes)-3, 1))
	return string(runes[:1]) + masked + string(runes[len(runes)-2:])
}

// Email keeps the first two characters of the local part, e.g.
// "usuario@ejemplo.com" -> "us*****@ejemplo.com".
func Email(email *string, role enums.UserRole) string {
	value := deref(email)
	if value == "" || role.CanViewSensitive() {
		return value
	}

	at := strings.Index(value, "@")
	if at < 0 {
		return value
	}
	local := []rune(value[:at])
	domain := value[at+1:]
	if domain == "" || len(local) <= 2 {
		return value
	}
	masked := strings.Repeat("*", min(len(local)-2, 5))
	return string(local[:2]) + masked + "@" + domain
}

// Document keeps the first two and last two characters, e.g. "1234567890" -> "12******90".
func Document(document *string, role enums.UserRole) string {
	value := deref(document)
	if value == "" || role.CanViewSensitive() {
		return value
	}

	runes := []rune(value)
	if len(runes) <= 4 {
		return value
	}
	masked := strings.Repeat("*", max(len(runes)-4, 1))
	return string(runes[:2]) + masked + string(runes[len(runes)-2:])
}

// Address keeps only the general area, truncating after ten characters.
func Address(address *string, role enums.UserRole) string {
	value := deref(address)
	if value == "" || role.CanViewSensitive() {
		return value
	}

	runes := []rune(value)
	if len(runes) <= 10 {
		return value
	}
	return string(runes[:10]) + "..."
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
