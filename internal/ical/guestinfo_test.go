package ical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGuestInfo_Summary(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    GuestInfo
	}{
		{
			name:    "name with platform and guest count",
			summary: "John Smith - Airbnb (2 guests)",
			want:    GuestInfo{Name: "John Smith", GuestCount: 2},
		},
		{
			name:    "guest count inside first segment",
			summary: "Alice Johnson (3 guests) - Airbnb",
			want:    GuestInfo{Name: "Alice Johnson", GuestCount: 3},
		},
		{
			name:    "bare guest count segment",
			summary: "Bob Wilson - 4 guests",
			want:    GuestInfo{Name: "Bob Wilson", GuestCount: 4},
		},
		{
			name:    "confirmation code in last segment",
			summary: "Reserved - HMATZMHW8H",
			want:    GuestInfo{Name: "Reserved", ConfirmationCode: "HMATZMHW8H"},
		},
		{
			name:    "single guest",
			summary: "Dana Lee - Vrbo (1 guest)",
			want:    GuestInfo{Name: "Dana Lee", GuestCount: 1},
		},
		{
			name:    "code only summary yields no name",
			summary: "HMATZMHW8H",
			want:    GuestInfo{},
		},
		{
			name:    "empty summary",
			summary: "",
			want:    GuestInfo{},
		},
		{
			name:    "implausible guest count ignored",
			summary: "Eve Adams - Airbnb (500 guests)",
			want:    GuestInfo{Name: "Eve Adams"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractGuestInfo(tt.summary, ""))
		})
	}
}

func TestExtractGuestInfo_Description(t *testing.T) {
	t.Run("email", func(t *testing.T) {
		info := ExtractGuestInfo("John Smith - Airbnb", "Email: john.smith@example.com\nPhone: +1 555 0100")
		assert.Equal(t, "john.smith@example.com", info.Email)
	})

	t.Run("reservation url wrapped across lines", func(t *testing.T) {
		desc := "Reservation URL: https://www.airbnb.com/hosting/reservations/de\n tails/HMATZMHW8H\nPhone Number (Last 4 Digits): 0123"
		info := ExtractGuestInfo("Reserved", desc)
		assert.Equal(t, "HMATZMHW8H", info.ConfirmationCode)
	})

	t.Run("reservation url unwrapped", func(t *testing.T) {
		desc := "Reservation URL: https://www.airbnb.com/hosting/reservations/details/HMATZMHW8H"
		info := ExtractGuestInfo("Reserved", desc)
		assert.Equal(t, "HMATZMHW8H", info.ConfirmationCode)
	})

	t.Run("labeled confirmation code", func(t *testing.T) {
		info := ExtractGuestInfo("Reserved", "Confirmation code: ABCD12345")
		assert.Equal(t, "ABCD12345", info.ConfirmationCode)
	})

	t.Run("label is case-insensitive but the code is not", func(t *testing.T) {
		info := ExtractGuestInfo("Reserved", "CONFIRMATION CODE: ABCD12345")
		assert.Equal(t, "ABCD12345", info.ConfirmationCode)

		info = ExtractGuestInfo("Reserved", "Confirmation code: abcd12345")
		assert.Empty(t, info.ConfirmationCode)
	})

	t.Run("overlong tokens are rejected, not truncated", func(t *testing.T) {
		info := ExtractGuestInfo("Reserved", "Reservation URL: https://www.airbnb.com/hosting/reservations/details/ABCDEFGHIJK")
		assert.Empty(t, info.ConfirmationCode)

		info = ExtractGuestInfo("Reserved", "Confirmation code: ABCDEFGHIJK")
		assert.Empty(t, info.ConfirmationCode)
	})

	t.Run("labeled guest count", func(t *testing.T) {
		info := ExtractGuestInfo("Reserved", "Guests: 4")
		assert.Equal(t, 4, info.GuestCount)
	})

	t.Run("summary code wins over description", func(t *testing.T) {
		info := ExtractGuestInfo("Reserved - HMATZMHW8H", "Confirmation code: ZZZZ99999")
		assert.Equal(t, "HMATZMHW8H", info.ConfirmationCode)
	})

	t.Run("empty description", func(t *testing.T) {
		info := ExtractGuestInfo("", "")
		assert.Equal(t, GuestInfo{}, info)
	})
}
