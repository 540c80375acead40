package domain

import "time"

// Roles y planes soportados por la aplicación.
const (
	RoleOwner      = "owner"
	RoleAccountant = "accountant"
	RoleStaff      = "staff"

	PlanFree     = "free"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// User representa la cuenta de un negocio.
// Los campos de credencial y banderas de verificación viven solo en la
// colección persistida de usuarios, nunca en la sesión ni en respuestas.
type User struct {
	ID               string    `json:"id"`
	BusinessName     string    `json:"business_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Role             string    `json:"role"`
	Language         string    `json:"language"`
	Currency         string    `json:"currency"`
	SubscriptionPlan string    `json:"subscription_plan"`
	CreatedAt        time.Time `json:"created_at"`

	PasswordHash        string `json:"password_hash,omitempty"`
	TwoFactorEnabled    bool   `json:"two_factor_enabled,omitempty"`
	EmailConfirmEnabled bool   `json:"email_confirm_enabled,omitempty"`
}

// Sanitized devuelve una copia sin credencial ni banderas internas,
// apta para la sesión persistida y para respuestas HTTP.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.TwoFactorEnabled = false
	u.EmailConfirmEnabled = false
	return u
}

// LoginAttemptRecord lleva la cuenta de intentos fallidos por email.
type LoginAttemptRecord struct {
	Count       int       `json:"count"`
	LastAttempt time.Time `json:"last_attempt"`
}

// VerificationCode es un código transitorio de 6 dígitos con expiración.
// Cubre tanto el segundo factor como la verificación por email.
type VerificationCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired indica si el código ya no es válido en el instante dado.
func (c VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
