package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles que entiende la API de facturación.
const (
	RoleAdmin    = "admin"    // emite, consulta, lotes y contingencia
	RoleEmisor   = "emisor"   // emite y consulta
	RoleConsulta = "consulta" // solo lectura
)

var (
	ErrEmptySecret   = errors.New("jwt: secret vacío")
	ErrUnknownRole   = errors.New("jwt: rol desconocido")
	ErrInvalidClaims = errors.New("jwt: claims inválidos")
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// CompanyID es el RUC del emisor para integraciones que emiten por una sola empresa.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // "admin" | "emisor" | "consulta"
}

// ValidRole indica si role es uno de los roles de la API.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEmisor, RoleConsulta:
		return true
	}
	return false
}

// Generate firma un token HS256. role vacío emite un token sin rol, que el
// middleware rechaza con MISSING_ROLE.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if role != "" && !ValidRole(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseClaims valida firma HMAC y expiración y devuelve los claims.
func ParseClaims(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Parse devuelve userID, companyID y role de un token válido.
func Parse(secret, tokenString string) (userID, companyID, role string, err error) {
	claims, err := ParseClaims(secret, tokenString)
	if err != nil {
		return "", "", "", err
	}
	return claims.UserID, claims.CompanyID, claims.Role, nil
}
