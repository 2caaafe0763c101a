package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "AB12CD", NormalizePlate("ab-12-cd"))
	assert.Equal(t, "AB12CD", NormalizePlate("AB 12 CD"))
	assert.Equal(t, "XYZ789", NormalizePlate("xyz789"))
	assert.Equal(t, "AB12CD", NormalizePlate("AB12CD"))
}

func TestSessionDurationMinutes(t *testing.T) {
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	stopped := started.Add(90 * time.Minute)

	session := Session{Started: started, Stopped: &stopped}

	// A stopped session ignores the reference time
	assert.Equal(t, int64(90), session.DurationMinutes(stopped.Add(24*time.Hour)))

	active := Session{Started: started}
	assert.Equal(t, int64(30), active.DurationMinutes(started.Add(30*time.Minute)))
}

func TestIdentityIsAdmin(t *testing.T) {
	assert.True(t, Identity{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Identity{Role: RoleUser}.IsAdmin())
	assert.False(t, Identity{}.IsAdmin())
}

func TestPaymentSerializationExcludesHash(t *testing.T) {
	payment := Payment{
		TransactionID: "TXN-test",
		Amount:        12.5,
		Hash:          "secret-completion-hash",
	}

	data, err := json.Marshal(payment)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret-completion-hash")
	assert.Contains(t, string(data), "TXN-test")
}

func TestUserSerializationExcludesPassword(t *testing.T) {
	user := User{
		Username: "parker_person",
		Password: "$2a$10$bcrypthash",
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "bcrypthash")
}
