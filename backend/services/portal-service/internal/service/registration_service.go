package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"charginguu/backend/services/portal-service/internal/models"
	"charginguu/backend/services/portal-service/internal/wizard"
)

// ErrRegistrationNotFound indicates an unknown registration id.
var ErrRegistrationNotFound = errors.New("registration not found")

// CodeSender is the OTP flow used for phone verification.
type CodeSender interface {
	Send(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

type registration struct {
	mu     sync.Mutex
	id     string
	wizard *wizard.Wizard
}

// RegistrationService keeps in-progress host registrations in memory.
type RegistrationService struct {
	sink   RegistrationSink
	codes  CodeSender
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	mu            sync.RWMutex
	registrations map[string]*registration
}

// NewRegistrationService returns service instance.
func NewRegistrationService(sink RegistrationSink, codes CodeSender, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		sink:          sink,
		codes:         codes,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.NewString,
		registrations: map[string]*registration{},
	}
}

// Create starts a new wizard.
func (s *RegistrationService) Create() models.RegistrationView {
	reg := &registration{id: s.newID(), wizard: wizard.New()}
	s.mu.Lock()
	s.registrations[reg.id] = reg
	s.mu.Unlock()
	return view(reg)
}

// Get returns the current wizard state.
func (s *RegistrationService) Get(id string) (models.RegistrationView, error) {
	var out models.RegistrationView
	err := s.with(id, func(reg *registration) error {
		out = view(reg)
		return nil
	})
	return out, err
}

// SetFields applies values together. An unknown field or unacceptable value leaves the
// wizard untouched.
func (s *RegistrationService) SetFields(id string, values map[string]string) (models.RegistrationView, error) {
	var out models.RegistrationView
	err := s.with(id, func(reg *registration) error {
		defer func() { out = view(reg) }()
		return reg.wizard.SetFields(values)
	})
	return out, err
}

// Next validates and advances. A *wizard.ValidationError comes back alongside the view.
func (s *RegistrationService) Next(id string) (models.RegistrationView, error) {
	return s.step(id, (*wizard.Wizard).Next)
}

// Back moves one step back.
func (s *RegistrationService) Back(id string) (models.RegistrationView, error) {
	return s.step(id, (*wizard.Wizard).Back)
}

func (s *RegistrationService) step(id string, fn func(*wizard.Wizard) error) (models.RegistrationView, error) {
	var out models.RegistrationView
	err := s.with(id, func(reg *registration) error {
		defer func() { out = view(reg) }()
		return fn(reg.wizard)
	})
	return out, err
}

// Submit hands the record to the sink and only then finalizes the wizard, so a failed save
// can be retried.
func (s *RegistrationService) Submit(ctx context.Context, id string) (*models.HostRegistration, models.RegistrationView, error) {
	var (
		out   *models.HostRegistration
		state models.RegistrationView
	)
	err := s.with(id, func(reg *registration) error {
		defer func() { state = view(reg) }()
		record, err := reg.wizard.Prepare()
		if err != nil {
			return err
		}

		out = &models.HostRegistration{
			ID:              id,
			BusinessName:    record.BusinessName,
			ContactPerson:   record.ContactPerson,
			BusinessType:    record.BusinessType,
			BusinessAddress: record.BusinessAddress,
			PhoneNumber:     record.PhoneNumber,
			PhoneVerified:   record.PhoneVerified,
			Email:           record.Email,
			AccountName:     record.AccountName,
			AccountNumber:   record.AccountNumber,
			IFSCCode:        record.IFSCCode,
			AgreedToTerms:   record.AgreedToTerms,
			SubmittedAt:     s.now().UTC(),
		}
		if err := s.sink.SaveRegistration(ctx, out); err != nil {
			return fmt.Errorf("save registration: %w", err)
		}
		reg.wizard.MarkSubmitted()
		return nil
	})
	if err != nil {
		return nil, state, err
	}
	s.logger.Info("registration submitted", zap.String("registration_id", id), zap.String("business_type", out.BusinessType))
	return out, state, nil
}

// SendCode sends a verification code to the wizard's phone number. Each call is a resend.
func (s *RegistrationService) SendCode(ctx context.Context, id string) (models.RegistrationView, error) {
	var (
		phone string
		out   models.RegistrationView
	)
	err := s.with(id, func(reg *registration) error {
		defer func() { out = view(reg) }()
		var err error
		phone, err = reg.wizard.RequestVerificationCode()
		return err
	})
	if err != nil {
		return out, err
	}
	if err := s.codes.Send(ctx, phone); err != nil {
		return out, err
	}
	return out, nil
}

// VerifyCode checks a code against the wizard's phone number.
func (s *RegistrationService) VerifyCode(ctx context.Context, id, code string) (models.RegistrationView, error) {
	var (
		phone string
		out   models.RegistrationView
	)
	err := s.with(id, func(reg *registration) error {
		out = view(reg)
		if !reg.wizard.CodeSent() {
			return fmt.Errorf("%w: no code sent", wizard.ErrInvalidState)
		}
		phone = wizard.DigitsOnly(reg.wizard.Fields().PhoneNumber)
		return nil
	})
	if err != nil {
		return out, err
	}

	if err := s.codes.Verify(ctx, phone, code); err != nil {
		return out, err
	}

	err = s.with(id, func(reg *registration) error {
		defer func() { out = view(reg) }()
		if wizard.DigitsOnly(reg.wizard.Fields().PhoneNumber) != phone {
			return fmt.Errorf("%w: phone changed during verification", wizard.ErrInvalidState)
		}
		return reg.wizard.MarkPhoneVerified()
	})
	return out, err
}

func (s *RegistrationService) with(id string, fn func(*registration) error) error {
	s.mu.RLock()
	reg, ok := s.registrations[id]
	s.mu.RUnlock()
	if !ok {
		return ErrRegistrationNotFound
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return fn(reg)
}

func view(reg *registration) models.RegistrationView {
	w := reg.wizard
	step := w.Step()
	return models.RegistrationView{
		ID:            reg.id,
		Step:          int(step),
		StepName:      step.String(),
		Fields:        w.Fields(),
		Errors:        w.Errors(),
		CodeSent:      w.CodeSent(),
		PhoneVerified: w.PhoneVerified(),
		Submitted:     step == wizard.Submitted,
	}
}
