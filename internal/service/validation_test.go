package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budbeer/budbeer_api/internal/utils"
)

func floatPtr(f float64) *float64 { return &f }

func validBarRequest() *BarRequest {
	return &BarRequest{
		Name:         "  The Tap Room ",
		Latitude:     floatPtr(52.37),
		Longitude:    floatPtr(4.89),
		RegularPrice: floatPtr(5.5),
	}
}

func TestBarRequest_Validate(t *testing.T) {
	req := validBarRequest()
	require.NoError(t, req.Validate())
	assert.Equal(t, "The Tap Room", req.Name)

	tests := []struct {
		name   string
		mutate func(r *BarRequest)
	}{
		{"blank name", func(r *BarRequest) { r.Name = "   " }},
		{"long name", func(r *BarRequest) { r.Name = strings.Repeat("a", 201) }},
		{"missing latitude", func(r *BarRequest) { r.Latitude = nil }},
		{"latitude out of range", func(r *BarRequest) { r.Latitude = floatPtr(91) }},
		{"longitude out of range", func(r *BarRequest) { r.Longitude = floatPtr(-181) }},
		{"negative price", func(r *BarRequest) { r.RegularPrice = floatPtr(-1) }},
		{"negative happy hour price", func(r *BarRequest) { r.HappyHourPrice = floatPtr(-0.5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validBarRequest()
			tt.mutate(r)
			assert.ErrorIs(t, r.Validate(), utils.ErrInvalidInput)
		})
	}
}

func TestBarRequest_NameLengthCountsCharacters(t *testing.T) {
	r := validBarRequest()
	r.Name = strings.Repeat("ü", maxBarNameLength)
	assert.NoError(t, r.Validate())

	r.Name = strings.Repeat("ü", maxBarNameLength+1)
	assert.ErrorIs(t, r.Validate(), utils.ErrInvalidInput)
}

func TestBarRequest_ZeroCoordinatesAreValid(t *testing.T) {
	r := validBarRequest()
	r.Latitude = floatPtr(0)
	r.Longitude = floatPtr(0)
	r.RegularPrice = floatPtr(0)
	assert.NoError(t, r.Validate())
}

func TestValidateReason(t *testing.T) {
	reason, err := ValidateReason("  closed down  ")
	require.NoError(t, err)
	assert.Equal(t, "closed down", reason)

	_, err = ValidateReason("   ")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = ValidateReason(strings.Repeat("x", 501))
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	reason, err = ValidateReason(strings.Repeat("é", 500))
	require.NoError(t, err)
	assert.Len(t, []rune(reason), 500)
}
