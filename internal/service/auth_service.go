package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bazar-api/internal/domain"
	"bazar-api/internal/email"
	"bazar-api/internal/repository"
)

// TTLs de códigos transitorios y ventana de intentos.
const (
	twoFactorTTL          = 5 * time.Minute
	emailVerificationTTL  = 15 * time.Minute
	defaultAttemptWindow  = time.Hour
	verificationThreshold = 4
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("weak password")
	ErrDuplicateUser    = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrCodeExpired      = errors.New("code expired")
	ErrInvalidCode      = errors.New("invalid code")
	ErrNoSession        = errors.New("no active session")
	ErrEmailSendFailure = errors.New("email send failed")
)

// AuthService coordina registro, login, sesión y códigos transitorios.
type AuthService struct {
	logger        *zap.Logger
	users         repository.UserRepository
	sessions      repository.SessionRepository
	attempts      repository.AttemptRepository
	codes         repository.CodeRepository
	sender        email.Sender
	attemptWindow time.Duration
	now           func() time.Time
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	attempts repository.AttemptRepository,
	codes repository.CodeRepository,
	sender email.Sender,
	attemptWindow time.Duration,
) *AuthService {
	if attemptWindow <= 0 {
		attemptWindow = defaultAttemptWindow
	}
	return &AuthService{
		logger:        logger,
		users:         users,
		sessions:      sessions,
		attempts:      attempts,
		codes:         codes,
		sender:        sender,
		attemptWindow: attemptWindow,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj; para tests de TTL y ventanas.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

type RegisterInput struct {
	BusinessName string
	Email        string
	Password     string
	Phone        string
	Language     string
}

// LoginResult es el resultado tipado del flujo de login.
// Cuando RequiresCode es true la autenticación quedó pendiente de un
// código; Hint es un mensaje para el usuario y nunca contiene el código.
type LoginResult struct {
	User          domain.User
	Authenticated bool
	RequiresCode  bool
	Reason        string
	Hint          string
}

// Register valida, normaliza y crea la cuenta; establece sesión.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	emailAddr := NormalizeEmail(input.Email)
	if !ValidEmail(emailAddr) {
		return domain.User{}, ErrInvalidEmail
	}
	if PasswordLabel(PasswordScore(input.Password)) == PasswordWeak {
		return domain.User{}, ErrWeakPassword
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrDuplicateUser
	}
	if !repository.IsNotFound(err) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	language := input.Language
	if language == "" {
		language = "en"
	}
	user := domain.User{
		ID:               uuid.NewString(),
		BusinessName:     SanitizeText(input.BusinessName, 100),
		Email:            emailAddr,
		Phone:            SanitizeText(input.Phone, 30),
		Role:             domain.RoleOwner,
		Language:         language,
		Currency:         "KGS",
		SubscriptionPlan: domain.PlanFree,
		CreatedAt:        s.now(),
		PasswordHash:     string(hashBytes),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	if err := s.sessions.Put(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user.Sanitized(), nil
}

// Login implementa la máquina de estados de autenticación:
// credenciales, ventana de intentos, verificación por email tras
// intentos repetidos y segundo factor opcional.
func (s *AuthService) Login(ctx context.Context, emailAddr, password, code string) (LoginResult, error) {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if repository.IsNotFound(err) {
		return LoginResult{}, ErrUserNotFound
	}
	if err != nil {
		return LoginResult{}, err
	}

	attempts, err := s.attempts.Get(ctx, emailAddr)
	if err != nil {
		return LoginResult{}, err
	}
	now := s.now()
	if now.Sub(attempts.LastAttempt) > s.attemptWindow {
		attempts.Count = 0
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		attempts.Count++
		attempts.LastAttempt = now
		if err := s.attempts.Put(ctx, emailAddr, attempts); err != nil {
			return LoginResult{}, err
		}
		if attempts.Count >= verificationThreshold && user.EmailConfirmEnabled {
			if err := s.issueCode(ctx, user, repository.CodeEmailVerification, email.PurposeEmailVerification, emailVerificationTTL); err != nil {
				return LoginResult{}, err
			}
			return LoginResult{
				RequiresCode: true,
				Reason:       email.PurposeEmailVerification,
				Hint:         hintMessage(user.Language, email.PurposeEmailVerification),
			}, nil
		}
		return LoginResult{}, ErrInvalidPassword
	}

	// Contraseña correcta: la verificación pendiente se decide con el
	// contador previo al reset.
	verificationPending := attempts.Count >= verificationThreshold && user.EmailConfirmEnabled
	if err := s.attempts.Clear(ctx, emailAddr); err != nil {
		return LoginResult{}, err
	}

	if user.TwoFactorEnabled && code == "" {
		if err := s.issueCode(ctx, user, repository.CodeTwoFactor, email.PurposeSecondFactor, twoFactorTTL); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{
			RequiresCode: true,
			Reason:       email.PurposeSecondFactor,
			Hint:         hintMessage(user.Language, email.PurposeSecondFactor),
		}, nil
	}

	if verificationPending && code != "" {
		if err := s.consumeCode(ctx, repository.CodeEmailVerification, emailAddr, code); err != nil {
			return LoginResult{}, err
		}
	}

	if user.TwoFactorEnabled && code != "" {
		if err := s.consumeCode(ctx, repository.CodeTwoFactor, emailAddr, code); err != nil {
			return LoginResult{}, err
		}
	}

	if err := s.sessions.Put(ctx, user); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: user.Sanitized(), Authenticated: true}, nil
}

// Logout borra la sesión persistida; es idempotente.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

// CurrentSession devuelve la sesión persistida del usuario.
func (s *AuthService) CurrentSession(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.sessions.Get(ctx, userID)
	if repository.IsNotFound(err) {
		return domain.User{}, ErrNoSession
	}
	return user, err
}

// UserUpdate es un reemplazo parcial de campos editables del usuario.
type UserUpdate struct {
	BusinessName *string `json:"business_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Language     *string `json:"language,omitempty"`
	Currency     *string `json:"currency,omitempty"`
}

// UpdateUser mezcla los campos en la sesión y en la colección de
// usuarios; no hace nada si no hay sesión activa.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, update UserUpdate) (domain.User, error) {
	if _, err := s.sessions.Get(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return domain.User{}, ErrNoSession
		}
		return domain.User{}, err
	}

	stored, err := s.users.GetByID(ctx, userID)
	if repository.IsNotFound(err) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	if update.BusinessName != nil {
		stored.BusinessName = SanitizeText(*update.BusinessName, 100)
	}
	if update.Phone != nil {
		stored.Phone = SanitizeText(*update.Phone, 30)
	}
	if update.Language != nil {
		stored.Language = *update.Language
	}
	if update.Currency != nil {
		stored.Currency = *update.Currency
	}

	if err := s.users.Update(ctx, stored); err != nil {
		return domain.User{}, err
	}
	if err := s.sessions.Put(ctx, stored); err != nil {
		return domain.User{}, err
	}
	return stored.Sanitized(), nil
}

// SendTwoFactorCode emite un código de segundo factor a demanda.
func (s *AuthService) SendTwoFactorCode(ctx context.Context, emailAddr string) error {
	emailAddr = NormalizeEmail(emailAddr)
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if repository.IsNotFound(err) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return s.issueCode(ctx, user, repository.CodeTwoFactor, email.PurposeSecondFactor, twoFactorTTL)
}

// EnableTwoFactor activa el segundo factor y actualiza el teléfono.
func (s *AuthService) EnableTwoFactor(ctx context.Context, userID, phone string) error {
	return s.setTwoFactor(ctx, userID, true, phone)
}

// DisableTwoFactor desactiva el segundo factor.
func (s *AuthService) DisableTwoFactor(ctx context.Context, userID string) error {
	return s.setTwoFactor(ctx, userID, false, "")
}

func (s *AuthService) setTwoFactor(ctx context.Context, userID string, enabled bool, phone string) error {
	stored, err := s.users.GetByID(ctx, userID)
	if repository.IsNotFound(err) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	stored.TwoFactorEnabled = enabled
	if phone != "" {
		stored.Phone = SanitizeText(phone, 30)
	}
	if err := s.users.Update(ctx, stored); err != nil {
		return err
	}
	// La sesión no guarda banderas internas, pero el teléfono sí cambia.
	if _, err := s.sessions.Get(ctx, userID); err == nil {
		return s.sessions.Put(ctx, stored)
	}
	return nil
}

func (s *AuthService) issueCode(ctx context.Context, user domain.User, kind, purpose string, ttl time.Duration) error {
	value, err := generateCode()
	if err != nil {
		return err
	}
	code := domain.VerificationCode{
		Code:      value,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.codes.Put(ctx, kind, user.Email, code); err != nil {
		return err
	}
	if s.sender == nil {
		return ErrEmailSendFailure
	}
	if err := s.sender.SendLoginCode(ctx, user.Email, value, purpose, code.ExpiresAt); err != nil {
		if s.logger != nil {
			s.logger.Warn("send login code failed", zap.Error(err), zap.String("purpose", purpose))
		}
		return ErrEmailSendFailure
	}
	return nil
}

func (s *AuthService) consumeCode(ctx context.Context, kind, emailAddr, supplied string) error {
	if !isValidCodeFormat(supplied) {
		return ErrInvalidCode
	}
	stored, err := s.codes.Get(ctx, kind, emailAddr)
	if repository.IsNotFound(err) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	if stored.Expired(s.now()) {
		// El registro vencido queda para ser sobreescrito por la
		// próxima emisión.
		return ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(stored.Code), []byte(supplied)) != 1 {
		return ErrInvalidCode
	}
	return s.codes.Delete(ctx, kind, emailAddr)
}

var hintMessages = map[string]map[string]string{
	"en": {
		email.PurposeSecondFactor:      "A verification code was sent to your phone",
		email.PurposeEmailVerification: "Too many failed attempts. Check your email for a verification code",
	},
	"ru": {
		email.PurposeSecondFactor:      "Код подтверждения отправлен на ваш телефон",
		email.PurposeEmailVerification: "Слишком много неудачных попыток. Проверьте почту, мы отправили код подтверждения",
	},
	"ky": {
		email.PurposeSecondFactor:      "Ырастоо коду телефонуңузга жөнөтүлдү",
		email.PurposeEmailVerification: "Өтө көп ийгиликсиз аракет. Электрондук почтаңыздан ырастоо кодун текшериңиз",
	},
}

func hintMessage(language, purpose string) string {
	msgs, ok := hintMessages[language]
	if !ok {
		msgs = hintMessages["en"]
	}
	return msgs[purpose]
}
