// Package auth verifica los JWT emitidos por el proveedor de identidad.
//
// La verificación es estrictamente en dos fases: primero se lee la cabecera
// SIN verificar la firma (solo para extraer kid y alg), después se verifica
// firma y claims con la clave pública resuelta. Ninguna decisión de negocio
// se toma sobre claims sin verificar.
package auth

import (
	"context"
	"crypto"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
)

// Algoritmos de firma admitidos. Cualquier otro (incluido HS256) se rechaza.
var allowedAlgorithms = []string{"RS256", "ES256", "ES384", "ES512"}

// KeySource resuelve claves públicas de firma por kid.
type KeySource interface {
	Key(ctx context.Context, kid string) (crypto.PublicKey, error)
}

// Verifier valida tokens bearer contra la caché de claves y la configuración
// de issuer/audience. Sin efectos secundarios: validación pura.
type Verifier struct {
	keys     KeySource
	issuer   string
	audience string
}

// NewVerifier construye el verificador.
func NewVerifier(keys KeySource, issuer, audience string) *Verifier {
	return &Verifier{keys: keys, issuer: issuer, audience: audience}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
	AAL   string `json:"aal"`
}

// Verify valida el token y devuelve la identidad verificada.
//
// Errores: domain.ErrExpiredToken si exp pasó, domain.ErrKeyUnavailable si no
// se puede resolver la clave de firma, domain.ErrInvalidToken para cualquier
// otro fallo (cabecera ilegible, alg no admitido, firma, aud, iss, sub).
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*entity.Identity, error) {
	// Fase 1: cabecera sin verificar, solo kid y alg.
	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: cabecera ilegible", domain.ErrInvalidToken)
	}

	alg, _ := unverified.Header["alg"].(string)
	if !algAllowed(alg) {
		return nil, fmt.Errorf("%w: alg %q no admitido", domain.ErrInvalidToken, alg)
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: cabecera sin kid", domain.ErrInvalidToken)
	}

	key, err := v.keys.Key(ctx, kid)
	if err != nil {
		if errors.Is(err, domain.ErrKeyUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyUnavailable, err)
	}

	// Fase 2: verificación de firma y claims.
	claims := &tokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	_, err = parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	sub := claims.Subject
	if err := uuid.Validate(sub); err != nil {
		return nil, fmt.Errorf("%w: sub ausente o no es UUID", domain.ErrInvalidToken)
	}

	return &entity.Identity{
		Sub:   sub,
		Email: claims.Email,
		Role:  claims.Role,
		AAL:   claims.AAL,
	}, nil
}

func algAllowed(alg string) bool {
	for _, a := range allowedAlgorithms {
		if a == alg {
			return true
		}
	}
	return false
}
