package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long a code stays valid.
	DefaultTTL = 5 * time.Minute
	// MaxVerifyAttempts is how many wrong codes burn the live one.
	MaxVerifyAttempts = 5
)

var (
	// ErrRateLimited is returned when a phone asks for codes too often.
	ErrRateLimited = errors.New("otp: too many codes requested, try again later")
	// ErrCodeExpired is returned when no live code exists.
	ErrCodeExpired = errors.New("otp: code expired or never sent")
	// ErrCodeMismatch is returned for a wrong code.
	ErrCodeMismatch = errors.New("otp: code does not match")
	// ErrTooManyAttempts is returned when wrong guesses used up the live code.
	ErrTooManyAttempts = errors.New("otp: too many wrong codes, request a new one")
)

// Service generates, stores, delivers and checks codes.
type Service struct {
	store       Store
	hasher      Hasher
	limiter     *Limiter
	notifier    Notifier
	ttl         time.Duration
	length      int
	maxAttempts int
	logger      *zap.Logger
	generate    func(int) (string, error)
}

// NewService wires the OTP flow. A nil limiter disables throttling.
func NewService(store Store, hasher Hasher, limiter *Limiter, notifier Notifier, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:       store,
		hasher:      hasher,
		limiter:     limiter,
		notifier:    notifier,
		ttl:         ttl,
		length:      DefaultCodeLength,
		maxAttempts: MaxVerifyAttempts,
		logger:      logger,
		generate:    GenerateCode,
	}
}

// Send issues a fresh code for phone, replacing any earlier one.
func (s *Service) Send(ctx context.Context, phone string) error {
	if s.limiter != nil && !s.limiter.Allow(phone) {
		return ErrRateLimited
	}

	code, err := s.generate(s.length)
	if err != nil {
		return fmt.Errorf("otp: generate: %w", err)
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return fmt.Errorf("otp: hash: %w", err)
	}
	if err := s.store.Put(ctx, phone, hash, s.ttl); err != nil {
		return fmt.Errorf("otp: store: %w", err)
	}
	if err := s.notifier.Send(ctx, phone, code); err != nil {
		return fmt.Errorf("otp: deliver: %w", err)
	}

	s.logger.Info("verification code issued", zap.String("phone", maskPhone(phone)), zap.Duration("ttl", s.ttl))
	return nil
}

// Verify checks code for phone. A matched code is consumed, and so is a code that has
// collected maxAttempts wrong guesses.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	hash, err := s.store.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrNoCode) {
			return ErrCodeExpired
		}
		return err
	}
	if err := s.hasher.Compare(hash, code); err != nil {
		return s.fail(ctx, phone)
	}
	if err := s.store.Delete(ctx, phone); err != nil {
		s.logger.Warn("failed to delete used code", zap.String("phone", maskPhone(phone)), zap.Error(err))
	}
	return nil
}

func (s *Service) fail(ctx context.Context, phone string) error {
	attempts, err := s.store.Fail(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrNoCode) {
			return ErrCodeExpired
		}
		return fmt.Errorf("otp: count attempt: %w", err)
	}
	if attempts < s.maxAttempts {
		return ErrCodeMismatch
	}
	if err := s.store.Delete(ctx, phone); err != nil {
		return fmt.Errorf("otp: drop code: %w", err)
	}
	s.logger.Warn("verification code burned after wrong attempts", zap.String("phone", maskPhone(phone)), zap.Int("attempts", attempts))
	return ErrTooManyAttempts
}
