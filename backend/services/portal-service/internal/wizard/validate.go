package wizard

import (
	"regexp"
	"strings"
)

// Field names accepted by SetField and used as keys in validation results.
const (
	FieldBusinessName    = "businessName"
	FieldContactPerson   = "contactPerson"
	FieldBusinessType    = "businessType"
	FieldBusinessAddress = "businessAddress"
	FieldPhoneNumber     = "phoneNumber"
	FieldEmail           = "email"
	FieldAccountName     = "accountName"
	FieldAccountNumber   = "accountNumber"
	FieldIFSCCode        = "ifscCode"
	FieldAgreedToTerms   = "agreedToTerms"
)

// BusinessTypes is the fixed set a host may register as.
var BusinessTypes = []string{
	"Cafe",
	"Office",
	"Retail Store",
	"Home",
	"Restaurant",
	"Hotel",
	"Shopping Mall",
	"Other",
}

var (
	phonePattern         = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailPattern         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	accountNumberPattern = regexp.MustCompile(`^\d{9,18}$`)
	ifscPattern          = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// Fields is the accumulated form record.
type Fields struct {
	BusinessName    string `json:"businessName"`
	ContactPerson   string `json:"contactPerson"`
	BusinessType    string `json:"businessType"`
	BusinessAddress string `json:"businessAddress"`
	PhoneNumber     string `json:"phoneNumber"`
	Email           string `json:"email"`
	AccountName     string `json:"accountName"`
	AccountNumber   string `json:"accountNumber"`
	IFSCCode        string `json:"ifscCode"`
	AgreedToTerms   bool   `json:"agreedToTerms"`
}

// Validate checks the fields owned by step and returns field → message for every failure.
// Steps outside 1..3 have no rules.
func Validate(step Step, f Fields) map[string]string {
	errs := map[string]string{}
	switch step {
	case Step1:
		if blank(f.BusinessName) {
			errs[FieldBusinessName] = "Business name is required"
		}
		if blank(f.ContactPerson) {
			errs[FieldContactPerson] = "Contact person is required"
		}
		if !IsBusinessType(f.BusinessType) {
			errs[FieldBusinessType] = "Please select business type"
		}
		if blank(f.BusinessAddress) {
			errs[FieldBusinessAddress] = "Business address is required"
		}
	case Step2:
		if msg := phoneError(f.PhoneNumber); msg != "" {
			errs[FieldPhoneNumber] = msg
		}
		if blank(f.Email) {
			errs[FieldEmail] = "Email is required"
		} else if !emailPattern.MatchString(strings.TrimSpace(f.Email)) {
			errs[FieldEmail] = "Please enter a valid email address"
		}
	case Step3:
		if blank(f.AccountName) {
			errs[FieldAccountName] = "Account name is required"
		}
		if blank(f.AccountNumber) {
			errs[FieldAccountNumber] = "Account number is required"
		} else if !accountNumberPattern.MatchString(DigitsOnly(f.AccountNumber)) {
			errs[FieldAccountNumber] = "Please enter a valid account number"
		}
		if blank(f.IFSCCode) {
			errs[FieldIFSCCode] = "IFSC code is required"
		} else if !ifscPattern.MatchString(NormalizeIFSC(f.IFSCCode)) {
			errs[FieldIFSCCode] = "Please enter a valid IFSC code"
		}
		if !f.AgreedToTerms {
			errs[FieldAgreedToTerms] = "You must agree to the terms and conditions"
		}
	}
	return errs
}

// IsBusinessType reports whether v is one of BusinessTypes.
func IsBusinessType(v string) bool {
	v = strings.TrimSpace(v)
	for _, t := range BusinessTypes {
		if t == v {
			return true
		}
	}
	return false
}

// DigitsOnly drops every non-digit rune.
func DigitsOnly(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeIFSC trims and upper-cases an IFSC code.
func NormalizeIFSC(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func phoneError(phone string) string {
	if blank(phone) {
		return "Phone number is required"
	}
	if !phonePattern.MatchString(DigitsOnly(phone)) {
		return "Please enter a valid phone number"
	}
	return ""
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}
