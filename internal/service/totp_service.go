package service

import (
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod     = 30
	totpSkew       = 2
	totpSecretSize = 20 // 160 bits
)

// TOTPEnrollment is a freshly generated shared secret and its otpauth:// URI.
type TOTPEnrollment struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioningUri"`
}

// TOTPService generates TOTP secrets and validates 6-digit codes with a
// tolerance of two 30-second steps either side of the current step.
type TOTPService struct {
	issuer string
	now    func() time.Time
}

// NewTOTPService creates a TOTPService labelling enrollments with issuer.
func NewTOTPService(issuer string) *TOTPService {
	return &TOTPService{issuer: issuer, now: time.Now}
}

// Generate creates a new base32 secret for accountName.
func (s *TOTPService) Generate(accountName string) (*TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		Period:      totpPeriod,
		SecretSize:  totpSecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}
	return &TOTPEnrollment{Secret: key.Secret(), ProvisioningURI: key.URL()}, nil
}

// Validate checks code against secret at the current time.
func (s *TOTPService) Validate(code, secret string) bool {
	return s.ValidateAt(code, secret, s.now())
}

// ValidateAt checks code against secret at t.
func (s *TOTPService) ValidateAt(code, secret string, t time.Time) bool {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	ok, err := totp.ValidateCustom(code, secret, t.UTC(), validateOpts())
	return err == nil && ok
}

// CodeAt returns the code for secret at t.
func (s *TOTPService) CodeAt(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t.UTC(), validateOpts())
}

func validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}
