package dto

// VerifyRequest is the payload for the mutating check-in operation
type VerifyRequest struct {
	CredentialToken string `json:"credentialToken" binding:"required"`
}

// ScanRequest is the payload for the read-only credential lookup
type ScanRequest struct {
	CredentialToken string `json:"credentialToken" binding:"required"`
}

// VerifyResponse reports the outcome of a check-in attempt. A repeated
// verify on a redeemed credential succeeds with AlreadyCheckedIn set and
// leaves the original timestamp untouched.
type VerifyResponse struct {
	Message          string             `json:"message" example:"Check-in successful"`
	AlreadyCheckedIn bool               `json:"alreadyCheckedIn" example:"false"`
	Enrollment       EnrollmentResponse `json:"enrollment"`
}

// ScanResponse reports current credential state without mutating it
type ScanResponse struct {
	CheckedIn  bool               `json:"checkedIn" example:"false"`
	Enrollment EnrollmentResponse `json:"enrollment"`
}
