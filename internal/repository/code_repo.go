package repository

import (
	"context"
	"encoding/json"
	"time"

	"bazar-api/internal/domain"
	"bazar-api/internal/kv"
)

// Clases de código transitorio.
const (
	CodeTwoFactor         = "2fa_code"
	CodeEmailVerification = "email_verification"
)

// CodeRepository persiste códigos transitorios por email.
// Cada emisión sobreescribe la anterior; la validación usa el
// timestamp de expiración del registro.
type CodeRepository interface {
	Put(ctx context.Context, kind, email string, code domain.VerificationCode) error
	Get(ctx context.Context, kind, email string) (domain.VerificationCode, error)
	Delete(ctx context.Context, kind, email string) error
}

// KVCodeRepository implementa CodeRepository sobre kv.
type KVCodeRepository struct {
	store kv.Store
	now   func() time.Time
}

func NewKVCodeRepository(store kv.Store) *KVCodeRepository {
	return &KVCodeRepository{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj; para tests.
func (r *KVCodeRepository) WithClock(now func() time.Time) *KVCodeRepository {
	r.now = now
	return r
}

func (r *KVCodeRepository) Put(ctx context.Context, kind, email string, code domain.VerificationCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return err
	}
	ttl := code.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	return r.store.SetTTL(ctx, kind+"_"+email, data, ttl)
}

func (r *KVCodeRepository) Get(ctx context.Context, kind, email string) (domain.VerificationCode, error) {
	data, err := r.store.Get(ctx, kind+"_"+email)
	if err != nil {
		return domain.VerificationCode{}, err
	}
	var code domain.VerificationCode
	if err := json.Unmarshal(data, &code); err != nil {
		return domain.VerificationCode{}, err
	}
	return code, nil
}

func (r *KVCodeRepository) Delete(ctx context.Context, kind, email string) error {
	return r.store.Delete(ctx, kind+"_"+email)
}
