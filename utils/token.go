package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const tokenLifetime = 72 * time.Hour

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type JWTToken struct {
	config *Config
}

func NewJWTToken(config *Config) *JWTToken {
	return &JWTToken{config: config}
}

type jwtClaim struct {
	jwt.StandardClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"user_role"`
}

// TokenObject is the authenticated session attached to a request.
type TokenObject struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"user_role"`
}

func (t TokenObject) IsAdmin() bool {
	return t.Role == RoleAdmin
}

func (j *JWTToken) CreateToken(user TokenObject) (string, error) {
	now := time.Now()
	claims := jwtClaim{
		StandardClaims: jwt.StandardClaims{
			Subject:   user.UserID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tokenLifetime).Unix(),
		},
		UserID: user.UserID.String(),
		Email:  user.Email,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(j.config.SigningKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (j *JWTToken) VerifyToken(tokenString string) (TokenObject, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid authentication token, format error")
		}
		return []byte(j.config.SigningKey), nil
	})

	if err != nil {
		return TokenObject{}, fmt.Errorf("invalid authentication token, %v", err.Error())
	}

	claims, ok := token.Claims.(*jwtClaim)
	if !ok || !token.Valid {
		return TokenObject{}, fmt.Errorf("invalid authentication token, token is not OK")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenObject{}, fmt.Errorf("invalid authentication token, bad subject")
	}

	return TokenObject{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
