package models

import (
	"time"

	"charginguu/backend/services/portal-service/internal/wizard"
)

// HostRegistration is a submitted host application.
type HostRegistration struct {
	ID              string    `db:"id" json:"id"`
	BusinessName    string    `db:"business_name" json:"businessName"`
	ContactPerson   string    `db:"contact_person" json:"contactPerson"`
	BusinessType    string    `db:"business_type" json:"businessType"`
	BusinessAddress string    `db:"business_address" json:"businessAddress"`
	PhoneNumber     string    `db:"phone_number" json:"phoneNumber"`
	PhoneVerified   bool      `db:"phone_verified" json:"phoneVerified"`
	Email           string    `db:"email" json:"email"`
	AccountName     string    `db:"account_name" json:"accountName"`
	AccountNumber   string    `db:"account_number" json:"accountNumber"`
	IFSCCode        string    `db:"ifsc_code" json:"ifscCode"`
	AgreedToTerms   bool      `db:"agreed_to_terms" json:"agreedToTerms"`
	SubmittedAt     time.Time `db:"submitted_at" json:"submittedAt"`
}

// MaskedAccountNumber hides all but the last four digits.
func (r *HostRegistration) MaskedAccountNumber() string {
	n := len(r.AccountNumber)
	if n <= 4 {
		return r.AccountNumber
	}
	masked := make([]byte, n)
	for i := 0; i < n-4; i++ {
		masked[i] = 'X'
	}
	copy(masked[n-4:], r.AccountNumber[n-4:])
	return string(masked)
}

// RegistrationView is the wizard state returned to clients.
type RegistrationView struct {
	ID            string            `json:"id"`
	Step          int               `json:"step"`
	StepName      string            `json:"stepName"`
	Fields        wizard.Fields     `json:"fields"`
	Errors        map[string]string `json:"errors"`
	CodeSent      bool              `json:"codeSent"`
	PhoneVerified bool              `json:"phoneVerified"`
	Submitted     bool              `json:"submitted"`
}
