// Package tokens is the codec for the signed identity tokens the service
// hands out. Both token kinds are HS256 over the same process-wide secret:
// access tokens carry only the subject id and expire, verification tokens
// additionally carry the username and stay valid until the secret rotates.
package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	TypeAccess = "access"
	TypeVerify = "verify"
)

type AccessClaims struct {
	Typ string `json:"typ"`
	jwt.RegisteredClaims
}

type VerifyClaims struct {
	Typ      string `json:"typ"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func SignAccess(userID uint, ttl time.Duration, secret []byte) (string, error) {
	claims := AccessClaims{
		Typ: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SignVerify(userID uint, username string, secret []byte) (string, error) {
	claims := VerifyClaims{
		Typ:      TypeVerify,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(userID), 10),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func ParseAccess(tokenStr string, secret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, keyFunc(secret))
	if err != nil || !tkn.Valid || claims.Typ != TypeAccess {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func ParseVerify(tokenStr string, secret []byte) (*VerifyClaims, error) {
	var claims VerifyClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, keyFunc(secret))
	if err != nil || !tkn.Valid || claims.Typ != TypeVerify {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func keyFunc(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}
}

// SubjectID extracts the numeric user id from a parsed claims subject.
func SubjectID(c jwt.RegisteredClaims) (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
