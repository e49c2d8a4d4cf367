package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTOTPSecret = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"

func TestTOTPService_Generate(t *testing.T) {
	s := NewTOTPService("BudBeer")

	enrollment, err := s.Generate("admin")
	require.NoError(t, err)

	assert.Len(t, enrollment.Secret, 32)
	assert.True(t, strings.HasPrefix(enrollment.ProvisioningURI, "otpauth://totp/BudBeer:admin?"))
	assert.Contains(t, enrollment.ProvisioningURI, "issuer=BudBeer")
	assert.Contains(t, enrollment.ProvisioningURI, "secret="+enrollment.Secret)

	again, err := s.Generate("admin")
	require.NoError(t, err)
	assert.NotEqual(t, enrollment.Secret, again.Secret)
}

func TestTOTPService_ValidateWindow(t *testing.T) {
	s := NewTOTPService("BudBeer")
	// Aligned to a 30 second step boundary.
	at := time.Unix(1699999980, 0)

	code, err := s.CodeAt(testTOTPSecret, at)
	require.NoError(t, err)
	require.Len(t, code, 6)

	tests := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{"same step", 0, true},
		{"end of step", 29 * time.Second, true},
		{"two steps late", 60 * time.Second, true},
		{"two steps early", -60 * time.Second, true},
		{"three steps late", 90 * time.Second, false},
		{"three steps early", -90 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ValidateAt(code, testTOTPSecret, at.Add(tt.offset)))
		})
	}
}

func TestTOTPService_ValidateRejectsMalformed(t *testing.T) {
	s := NewTOTPService("BudBeer")
	at := time.Unix(1699999980, 0)

	code, err := s.CodeAt(testTOTPSecret, at)
	require.NoError(t, err)

	assert.False(t, s.ValidateAt(code[:5], testTOTPSecret, at))
	assert.False(t, s.ValidateAt("", testTOTPSecret, at))
	assert.False(t, s.ValidateAt(code, "not base32!", at))
	assert.True(t, s.ValidateAt(" "+code[:3]+" "+code[3:]+" ", testTOTPSecret, at))
}

func TestTOTPService_ValidateUsesClock(t *testing.T) {
	clock := newFakeClock(time.Unix(1699999980, 0))
	s := NewTOTPService("BudBeer")
	s.now = clock.Now

	code, err := s.CodeAt(testTOTPSecret, clock.Now())
	require.NoError(t, err)
	assert.True(t, s.Validate(code, testTOTPSecret))

	clock.Advance(5 * time.Minute)
	assert.False(t, s.Validate(code, testTOTPSecret))
}
