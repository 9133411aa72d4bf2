// Package inn provides the tax-ID validation strategies. The choice
// between them is made once at startup: provider-backed when a working
// verification client could be constructed, format-only otherwise.
package inn

import (
	"context"
	"fmt"

	"product-catalog-service/internal/domain"
)

// FormatValidator accepts any value shaped like a tax ID. No I/O, no
// failure mode beyond a malformed value being invalid.
type FormatValidator struct{}

// NewFormatValidator creates a format-only validator.
func NewFormatValidator() *FormatValidator {
	return &FormatValidator{}
}

// Validate returns valid iff the value is 10 or 12 decimal digits.
func (v *FormatValidator) Validate(_ context.Context, inn string, _ domain.PartyType) domain.InnValidationResult {
	if !domain.IsValidINN(inn) {
		return domain.InnResultInvalid("INN must be 10 or 12 digits")
	}

	return domain.InnResultValid(fmt.Sprintf("Unverified company (INN: %s)", inn))
}

// CompanyValidator resolves the tax ID against an external company-data
// provider. "Not found" maps to invalid; a provider error maps to the
// distinct failed outcome, never silently to invalid.
type CompanyValidator struct {
	provider domain.CompanyDataProvider
}

// NewCompanyValidator creates a provider-backed validator.
func NewCompanyValidator(provider domain.CompanyDataProvider) *CompanyValidator {
	return &CompanyValidator{provider: provider}
}

// Validate looks the tax ID up with the provider.
func (v *CompanyValidator) Validate(ctx context.Context, inn string, partyType domain.PartyType) domain.InnValidationResult {
	company, err := v.provider.FindByINN(ctx, inn, partyType)
	if err != nil {
		return domain.InnResultFailed(err.Error())
	}
	if company == nil {
		return domain.InnResultInvalid(fmt.Sprintf("company with INN '%s' not found", inn))
	}

	return domain.InnResultValid(company.Name)
}
