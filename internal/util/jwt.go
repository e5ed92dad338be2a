package util

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextLearnerKey = "learner"
	tokenIssuer       = "syntax-feed"
)

// Claims identify a guest learner. They carry no privileges.
type Claims struct {
	LearnerID string `json:"learner_id"`
	jwt.RegisteredClaims
}

func GenerateJWT(learnerID, secret string, expiration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(expiration)

	claims := &Claims{
		LearnerID: learnerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   learnerID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, expirationTime, err
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.LearnerID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func GetLearnerFromContext(c *gin.Context) *Claims {
	v, exists := c.Get(ContextLearnerKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// LearnerID returns the learner of the request, or "" for anonymous requests.
func LearnerID(c *gin.Context) string {
	if claims := GetLearnerFromContext(c); claims != nil {
		return claims.LearnerID
	}
	return ""
}
