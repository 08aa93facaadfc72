package jwt_test

import (
	"strings"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/cauamenezes/sistema-timesheet/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateAndParse_ConPerfil(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, 7, "bruno@cidic.com.br", "consultor", "sistema-timesheet", 480)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.ID)
	assert.Equal(t, "bruno@cidic.com.br", claims.Email)
	assert.Equal(t, "consultor", claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "sistema-timesheet", claims.Issuer)

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, float64(8), ttl.Hours())
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, 1, "a@b.c", "adm", "x", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrExpired)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, 1, "a@b.c", "adm", "x", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	require.Error(t, err)
	assert.NotErrorIs(t, err, pkgjwt.ErrExpired)
}

func TestParse_RechazaAlgoritmoNone(t *testing.T) {
	claims := pkgjwt.Claims{ID: 1, Email: "a@b.c", Role: "adm"}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestClaims_NombresJSON(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, 3, "adm@cidic.com.br", "adm", "x", 60)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := gojwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"tipo_perfil":"adm"`)
	assert.Contains(t, string(payload), `"id":3`)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", 1, "a@b.c", "adm", "x", 60)
	assert.Error(t, err)
	_, err = pkgjwt.Parse("", "abc")
	assert.Error(t, err)
}
