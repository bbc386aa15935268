package server

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	apperrors "hudgen/internal/common/errors"
	"hudgen/internal/eligibility"
	"hudgen/internal/hud"
	"hudgen/internal/resolver"
)

// Session is one operator's working state: the uploaded reference extracts,
// the last resolved deal and the statement being previewed. Sessions are
// in-memory only; a restart requires re-uploading the files.
type Session struct {
	ID string `json:"id"`

	Insurance *tableHandle `json:"-"`
	Payments  *tableHandle `json:"-"`

	Bundle    *resolver.Bundle    `json:"-"`
	Checklist *eligibility.Result `json:"-"`
	Snapshot  *Snapshot           `json:"-"`
	Context   *hud.Context        `json:"-"`
}

// Snapshot is the validation summary shown alongside the checklist so the
// operator can eyeball the matched source rows before generating.
type Snapshot struct {
	DealNumber         string            `json:"deal_number"`
	ServicerID         string            `json:"servicer_id"`
	PrimaryStatus      string            `json:"primary_status"`
	StatusEnum         string            `json:"status_enum"`
	NextPaymentDue     string            `json:"next_payment_due"`
	AccruedLateCharges string            `json:"accrued_late_charges"`
	PaymentMatchMethod string            `json:"payment_match_method,omitempty"`
	InstallmentStatus  map[string]string `json:"installment_status,omitempty"`
}

const sessionTTL = 4 * time.Hour

type sessionStore struct {
	cache *gocache.Cache
}

func newSessionStore() *sessionStore {
	return &sessionStore{cache: gocache.New(sessionTTL, 30*time.Minute)}
}

func (s *sessionStore) create() *Session {
	sess := &Session{ID: uuid.NewString()}
	s.cache.SetDefault(sess.ID, sess)
	return sess
}

func (s *sessionStore) get(id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "session not found or expired")
	}
	// Refresh the TTL on every touch.
	sess := v.(*Session)
	s.cache.SetDefault(id, sess)
	return sess, nil
}
