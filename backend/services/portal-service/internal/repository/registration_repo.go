package repository

import (
	"context"

	"charginguu/backend/libs/db"
	"charginguu/backend/services/portal-service/internal/models"
)

// RegistrationRepository stores submitted host registrations.
type RegistrationRepository struct {
	db db.Querier
}

// NewRegistrationRepository returns repository.
func NewRegistrationRepository(q db.Querier) *RegistrationRepository {
	return &RegistrationRepository{db: q}
}

// SaveRegistration inserts a submitted registration.
func (r *RegistrationRepository) SaveRegistration(ctx context.Context, reg *models.HostRegistration) error {
	const query = `
		INSERT INTO host_registrations (id, business_name, contact_person, business_type, business_address,
			phone_number, phone_verified, email, account_name, account_number, ifsc_code, agreed_to_terms, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		reg.ID,
		reg.BusinessName,
		reg.ContactPerson,
		reg.BusinessType,
		reg.BusinessAddress,
		reg.PhoneNumber,
		reg.PhoneVerified,
		reg.Email,
		reg.AccountName,
		reg.AccountNumber,
		reg.IFSCCode,
		reg.AgreedToTerms,
		reg.SubmittedAt,
	)
	return err
}
