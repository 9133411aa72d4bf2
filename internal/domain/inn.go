package domain

import "fmt"

// PartyType classifies the party a tax ID belongs to when asking the
// verification provider.
type PartyType string

const (
	PartyLegal      PartyType = "LEGAL"
	PartyIndividual PartyType = "INDIVIDUAL"
)

// InnStatus is the tri-state outcome of a tax-ID legitimacy check.
type InnStatus int

const (
	// InnValid means the provider resolved a real company.
	InnValid InnStatus = iota
	// InnInvalid means the value was rejected (bad shape or unknown party).
	InnInvalid
	// InnFailed means the provider itself errored. Kept distinct from
	// InnInvalid so callers can treat it as retryable.
	InnFailed
)

// InnValidationResult carries the outcome of a single validation attempt.
type InnValidationResult struct {
	Status      InnStatus
	CompanyName string
	Reason      string
}

// InnResultValid builds a valid result with the resolved company name.
func InnResultValid(companyName string) InnValidationResult {
	return InnValidationResult{Status: InnValid, CompanyName: companyName}
}

// InnResultInvalid builds a rejection with the given reason.
func InnResultInvalid(reason string) InnValidationResult {
	return InnValidationResult{Status: InnInvalid, Reason: reason}
}

// InnResultFailed builds a provider-failure result.
func InnResultFailed(reason string) InnValidationResult {
	return InnValidationResult{
		Status: InnFailed,
		Reason: fmt.Sprintf("verification service failed: %s", reason),
	}
}

// CompanyData is what the external verification provider knows about a
// party, reduced to the fields the catalog cares about.
type CompanyData struct {
	INN  string
	Name string
}
