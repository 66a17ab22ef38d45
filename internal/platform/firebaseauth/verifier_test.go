package firebaseauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "mentor-test"

type fakeIdP struct {
	srv        *httptest.Server
	key        *rsa.PrivateKey
	kid        string
	jwksHits   atomic.Int32
	issuerBase string
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	idp := &fakeIdP{key: key, kid: "key-1"}

	mux := http.NewServeMux()
	mux.HandleFunc("/"+testProject+"/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":   idp.issuerBase + testProject,
			"jwks_uri": idp.srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		idp.jwksHits.Add(1)
		pub := idp.key.PublicKey
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": idp.kid,
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		})
	})
	idp.srv = httptest.NewServer(mux)
	idp.issuerBase = idp.srv.URL + "/"
	t.Cleanup(idp.srv.Close)
	return idp
}

func (idp *fakeIdP) sign(t *testing.T, mutate func(jwt.MapClaims)) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":       idp.issuerBase + testProject,
		"aud":       testProject,
		"sub":       "uid-123",
		"email":     "kid@example.com",
		"iat":       now.Add(-time.Minute).Unix(),
		"exp":       now.Add(time.Hour).Unix(),
		"auth_time": now.Add(-time.Minute).Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = idp.kid
	signed, err := tok.SignedString(idp.key)
	require.NoError(t, err)
	return signed
}

func (idp *fakeIdP) verifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(Config{ProjectID: testProject, IssuerBase: idp.issuerBase, HTTPClient: idp.srv.Client()})
	require.NoError(t, err)
	return v
}

func TestVerifyIDTokenAcceptsValidToken(t *testing.T) {
	idp := newFakeIdP(t)
	v := idp.verifier(t)

	tok, err := v.VerifyIDToken(context.Background(), idp.sign(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "uid-123", tok.UID)
	assert.Equal(t, "kid@example.com", tok.Email)

	_, err = v.VerifyIDToken(context.Background(), idp.sign(t, nil))
	require.NoError(t, err)
	assert.Equal(t, int32(1), idp.jwksHits.Load(), "jwks should be cached")
}

func TestVerifyIDTokenRejects(t *testing.T) {
	idp := newFakeIdP(t)
	v := idp.verifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": idp.issuerBase + testProject,
		"aud": testProject,
		"sub": "uid-123",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	forged.Header["kid"] = idp.kid
	forgedToken, err := forged.SignedString(otherKey)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"expired":        idp.sign(t, func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Hour).Unix() }),
		"wrong audience": idp.sign(t, func(c jwt.MapClaims) { c["aud"] = "other-project" }),
		"wrong issuer":   idp.sign(t, func(c jwt.MapClaims) { c["iss"] = "https://evil.example/" + testProject }),
		"missing sub":    idp.sign(t, func(c jwt.MapClaims) { delete(c, "sub") }),
		"bad signature":  forgedToken,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.VerifyIDToken(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewVerifierRequiresProject(t *testing.T) {
	_, err := NewVerifier(Config{})
	assert.Error(t, err)
}
