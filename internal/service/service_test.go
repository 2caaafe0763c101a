package service

import (
	"encoding/hex"
	"strings"
	"testing"

	"parking-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValidationHash(t *testing.T) {
	first, err := generateValidationHash()
	require.NoError(t, err)
	second, err := generateValidationHash()
	require.NoError(t, err)

	// 32 random bytes, hex encoded
	assert.Len(t, first, 64)
	_, err = hex.DecodeString(first)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGenerateTransactionID(t *testing.T) {
	first := generateTransactionID()
	second := generateTransactionID()

	assert.True(t, strings.HasPrefix(first, "TXN-"))
	assert.NotEqual(t, first, second)
}

func TestApplyProviderData(t *testing.T) {
	p := &models.Payment{}
	applyProviderData(p, nil)
	assert.Nil(t, p.TMethod)

	data := &models.ProviderData{Method: "card", Issuer: "VISA", Bank: "TESTBANK", Date: "2025-01-01", Amount: 12.5}
	applyProviderData(p, data)
	require.NotNil(t, p.TMethod)
	assert.Equal(t, "card", *p.TMethod)
	assert.Equal(t, "VISA", *p.TIssuer)
	assert.Equal(t, 12.5, *p.TAmount)
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("driver_one"))
	assert.True(t, ValidUsername("_underdog"))
	assert.True(t, ValidUsername("J.Doe'99x"))

	assert.False(t, ValidUsername("short"))
	assert.False(t, ValidUsername("9starts_with_digit"))
	assert.False(t, ValidUsername("waaaay_too_long_for_a_username"))
	assert.False(t, ValidUsername(""))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("Sup3r_Secret!"))
	assert.True(t, ValidPassword("Another-Pass9word"))

	assert.False(t, ValidPassword("Short1!"))
	assert.False(t, ValidPassword("nouppercase9!aaaa"))
	assert.False(t, ValidPassword("NOLOWERCASE9!AAAA"))
	assert.False(t, ValidPassword("NoDigitsHere!abc"))
	assert.False(t, ValidPassword("NoSpecials99abcd"))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("driver@example.com"))
	assert.True(t, ValidEmail("a.b+c@mail.co.uk"))

	assert.False(t, ValidEmail("no-at-sign.example.com"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail(""))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+31612345678"))
	assert.True(t, ValidPhone("(555) 123-4567"))
	assert.True(t, ValidPhone("0612345678"))

	assert.False(t, ValidPhone("123456"))
	assert.False(t, ValidPhone("phone-number"))
	assert.False(t, ValidPhone(""))
}

func TestValidLicensePlate(t *testing.T) {
	assert.True(t, ValidLicensePlate("AB-12-CD"))
	assert.True(t, ValidLicensePlate("xx 1234 yy"))
	assert.True(t, ValidLicensePlate("1ABC234"))

	assert.False(t, ValidLicensePlate("A"))
	assert.False(t, ValidLicensePlate("WAY-TOO-LONG-FOR-A-PLATE"))
	assert.False(t, ValidLicensePlate("NO_UNDERSCORES"))
	assert.False(t, ValidLicensePlate(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(models.RoleUser))
	assert.True(t, ValidRole(models.RoleAdmin))
	assert.True(t, ValidRole("admin"))
	assert.False(t, ValidRole("ROOT"))
	assert.False(t, ValidRole(""))
}

func TestStartSessionConflict(t *testing.T) {
	// Exercised end to end in the store integration tests
	t.Skip("Requires database-backed store")
}
