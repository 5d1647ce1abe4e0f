package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

// JWTService validates tokens issued by the identity provider and extracts
// the caller identity. Token issuance lives with that provider; GenerateToken
// exists for local tooling and tests only.
type JWTService interface {
	GenerateToken(identity *model.Identity, ttl time.Duration) (string, error)
	ValidateToken(token string) (*model.Identity, error)
}

type jwtService struct {
	secret []byte
}

func NewJWTService(secret string) JWTService {
	return &jwtService{secret: []byte(secret)}
}

func (s *jwtService) GenerateToken(identity *model.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       identity.UserID.String(),
		"clinic_id": identity.ClinicID.String(),
		"role":      identity.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := claimUUID(claims, "sub")
	if err != nil {
		return nil, err
	}
	clinicID, err := claimUUID(claims, "clinic_id")
	if err != nil {
		return nil, err
	}

	role, _ := claims["role"].(string)

	return &model.Identity{
		UserID:   userID,
		ClinicID: clinicID,
		Role:     role,
	}, nil
}

func claimUUID(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing %s claim", key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s claim: %w", key, err)
	}
	return id, nil
}
