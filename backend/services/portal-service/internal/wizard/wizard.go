// Package wizard implements the three-step host registration form: basic info, contact
// details and bank details, each gated by its own validation.
package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Step is the wizard position.
type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
	Submitted
)

func (s Step) String() string {
	switch s {
	case Step1:
		return "basic_info"
	case Step2:
		return "contact"
	case Step3:
		return "bank_details"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	// ErrUnknownField is returned by SetField for names outside the form.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrInvalidState is returned for actions the current step does not allow.
	ErrInvalidState = errors.New("wizard: invalid state")
	// ErrPhoneNotReady is returned when a code is requested for a missing or invalid phone.
	ErrPhoneNotReady = errors.New("wizard: a valid phone number is required")
	// ErrInvalidValue is returned for a value the field cannot hold.
	ErrInvalidValue = errors.New("wizard: invalid value")
)

var stepFields = map[Step][]string{
	Step1: {FieldBusinessName, FieldContactPerson, FieldBusinessType, FieldBusinessAddress},
	Step2: {FieldPhoneNumber, FieldEmail},
	Step3: {FieldAccountName, FieldAccountNumber, FieldIFSCCode, FieldAgreedToTerms},
}

// ValidationError carries the failing fields of one step.
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("wizard: %s invalid: %s", e.Step, strings.Join(parts, "; "))
}

// Record is the finalized registration produced by Submit.
type Record struct {
	Fields
	PhoneVerified bool `json:"phoneVerified"`
}

// Wizard is a single registration in progress. It is not safe for concurrent use.
type Wizard struct {
	step          Step
	fields        Fields
	errors        map[string]string
	codeSent      bool
	phoneVerified bool
}

// New starts at Step1 with empty fields.
func New() *Wizard {
	return &Wizard{step: Step1, errors: map[string]string{}}
}

func (w *Wizard) Step() Step          { return w.step }
func (w *Wizard) Fields() Fields      { return w.fields }
func (w *Wizard) CodeSent() bool      { return w.codeSent }
func (w *Wizard) PhoneVerified() bool { return w.phoneVerified }

// Errors returns a copy of the outstanding field errors.
func (w *Wizard) Errors() map[string]string {
	out := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

// SetField stores a raw value and clears that field's error. Changing the phone number
// drops any code sent to, or verification of, the previous one.
func (w *Wizard) SetField(field, value string) error {
	if w.step == Submitted {
		return ErrInvalidState
	}
	if err := checkValue(field, value); err != nil {
		return err
	}
	w.apply(field, value)
	return nil
}

// SetFields applies several values at once. Nothing is changed unless every value is
// accepted.
func (w *Wizard) SetFields(values map[string]string) error {
	if w.step == Submitted {
		return ErrInvalidState
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := checkValue(name, values[name]); err != nil {
			return err
		}
	}
	for _, name := range names {
		w.apply(name, values[name])
	}
	return nil
}

func checkValue(field, value string) error {
	switch field {
	case FieldBusinessName, FieldContactPerson, FieldBusinessType, FieldBusinessAddress,
		FieldPhoneNumber, FieldEmail, FieldAccountName, FieldAccountNumber, FieldIFSCCode:
		return nil
	case FieldAgreedToTerms:
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, field)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// apply assumes checkValue accepted the value.
func (w *Wizard) apply(field, value string) {
	switch field {
	case FieldBusinessName:
		w.fields.BusinessName = value
	case FieldContactPerson:
		w.fields.ContactPerson = value
	case FieldBusinessType:
		w.fields.BusinessType = value
	case FieldBusinessAddress:
		w.fields.BusinessAddress = value
	case FieldPhoneNumber:
		if DigitsOnly(value) != DigitsOnly(w.fields.PhoneNumber) {
			w.codeSent = false
			w.phoneVerified = false
		}
		w.fields.PhoneNumber = value
	case FieldEmail:
		w.fields.Email = value
	case FieldAccountName:
		w.fields.AccountName = value
	case FieldAccountNumber:
		w.fields.AccountNumber = value
	case FieldIFSCCode:
		w.fields.IFSCCode = value
	case FieldAgreedToTerms:
		w.fields.AgreedToTerms, _ = strconv.ParseBool(strings.TrimSpace(value))
	}
	delete(w.errors, field)
}

// AgreeToTerms sets the terms checkbox.
func (w *Wizard) AgreeToTerms(agreed bool) error {
	return w.SetField(FieldAgreedToTerms, strconv.FormatBool(agreed))
}

// Next validates the current step and advances on success. Step3 does not advance; use
// Submit.
func (w *Wizard) Next() error {
	if w.step == Submitted {
		return ErrInvalidState
	}
	if err := w.check(w.step); err != nil {
		return err
	}
	if w.step < Step3 {
		w.step++
	}
	return nil
}

// Back moves one step back without validating, stopping at Step1.
func (w *Wizard) Back() error {
	if w.step == Submitted {
		return ErrInvalidState
	}
	if w.step > Step1 {
		w.step--
	}
	return nil
}

// Submit finalizes the registration from Step3.
func (w *Wizard) Submit() (Record, error) {
	record, err := w.Prepare()
	if err != nil {
		return Record{}, err
	}
	w.MarkSubmitted()
	return record, nil
}

// Prepare runs the Submit checks and returns the record without leaving Step3, so the
// caller can persist it before committing with MarkSubmitted.
func (w *Wizard) Prepare() (Record, error) {
	if w.step != Step3 {
		return Record{}, fmt.Errorf("%w: submit from %s", ErrInvalidState, w.step)
	}
	if err := w.check(Step3); err != nil {
		return Record{}, err
	}
	return w.record(), nil
}

// MarkSubmitted moves a prepared wizard to Submitted.
func (w *Wizard) MarkSubmitted() {
	w.step = Submitted
}

// RequestVerificationCode marks a code as sent and returns the digits to send it to. Each
// call is a resend.
func (w *Wizard) RequestVerificationCode() (string, error) {
	if w.step == Submitted {
		return "", ErrInvalidState
	}
	if _, outstanding := w.errors[FieldPhoneNumber]; outstanding || phoneError(w.fields.PhoneNumber) != "" {
		return "", ErrPhoneNotReady
	}
	w.codeSent = true
	return DigitsOnly(w.fields.PhoneNumber), nil
}

// MarkPhoneVerified records a successful code check.
func (w *Wizard) MarkPhoneVerified() error {
	if !w.codeSent {
		return fmt.Errorf("%w: no code sent", ErrInvalidState)
	}
	w.phoneVerified = true
	return nil
}

func (w *Wizard) check(step Step) error {
	for _, f := range stepFields[step] {
		delete(w.errors, f)
	}
	errs := Validate(step, w.fields)
	if len(errs) == 0 {
		return nil
	}
	for k, v := range errs {
		w.errors[k] = v
	}
	return &ValidationError{Step: step, Fields: errs}
}

func (w *Wizard) record() Record {
	f := w.fields
	return Record{
		Fields: Fields{
			BusinessName:    strings.TrimSpace(f.BusinessName),
			ContactPerson:   strings.TrimSpace(f.ContactPerson),
			BusinessType:    strings.TrimSpace(f.BusinessType),
			BusinessAddress: strings.TrimSpace(f.BusinessAddress),
			PhoneNumber:     DigitsOnly(f.PhoneNumber),
			Email:           strings.TrimSpace(f.Email),
			AccountName:     strings.TrimSpace(f.AccountName),
			AccountNumber:   DigitsOnly(f.AccountNumber),
			IFSCCode:        NormalizeIFSC(f.IFSCCode),
			AgreedToTerms:   f.AgreedToTerms,
		},
		PhoneVerified: w.phoneVerified,
	}
}
