package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	identity := &model.Identity{
		UserID:   uuid.New(),
		ClinicID: uuid.New(),
		Role:     "staff",
	}

	token, err := svc.GenerateToken(identity, time.Hour)
	require.NoError(t, err)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, parsed.UserID)
	assert.Equal(t, identity.ClinicID, parsed.ClinicID)
	assert.Equal(t, "staff", parsed.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret")
	identity := &model.Identity{UserID: uuid.New(), ClinicID: uuid.New(), Role: "staff"}

	token, err := svc.GenerateToken(identity, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := NewJWTService("secret-a")
	verifier := NewJWTService("secret-b")
	identity := &model.Identity{UserID: uuid.New(), ClinicID: uuid.New(), Role: "staff"}

	token, err := issuer.GenerateToken(identity, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
