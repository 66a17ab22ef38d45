// Package firebaseauth verifies Firebase Authentication ID tokens.
package firebaseauth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultIssuerBase = "https://securetoken.google.com/"
	clockLeeway       = 30 * time.Second
)

var ErrInvalidToken = errors.New("invalid or expired ID token")

// Token is the decoded claim set of a verified ID token.
type Token struct {
	UID           string
	Email         string
	EmailVerified bool
	Claims        map[string]any
}

type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)
}

type Config struct {
	ProjectID  string
	HTTPClient *http.Client
	// IssuerBase overrides https://securetoken.google.com/ (tests, emulators).
	IssuerBase string
}

type Verifier struct {
	httpClient   *http.Client
	issuer       string
	audience     string
	discoveryURL string
	jwks         *jwksCache

	discoveryMu   sync.Mutex
	discoveryDone bool
}

var _ TokenVerifier = (*Verifier)(nil)

func NewVerifier(cfg Config) (*Verifier, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimSpace(cfg.IssuerBase)
	if base == "" {
		base = defaultIssuerBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	issuer := base + projectID
	return &Verifier{
		httpClient:   httpClient,
		issuer:       issuer,
		audience:     projectID,
		discoveryURL: issuer + "/.well-known/openid-configuration",
		jwks:         newJWKSCache(httpClient),
	}, nil
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}
	if err := v.ensureDiscovery(ctx); err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}), jwt.WithLeeway(clockLeeway))
	claims := jwt.MapClaims{}
	tok, err := parser.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("missing kid")
		}
		return v.jwks.getKey(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if tok == nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if err := validateTimeClaims(claims, time.Now(), clockLeeway); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	iss, _ := claims["iss"].(string)
	if !constantTimeEq(iss, v.issuer) {
		return nil, fmt.Errorf("%w: issuer mismatch %q", ErrInvalidToken, iss)
	}
	if !audContains(claims["aud"], v.audience) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" || len(sub) > 128 {
		return nil, fmt.Errorf("%w: missing uid claim", ErrInvalidToken)
	}
	if authTime, ok := claims["auth_time"]; ok {
		at, err := parseNumericTime(authTime)
		if err != nil || at.After(time.Now().Add(clockLeeway)) {
			return nil, fmt.Errorf("%w: invalid auth_time", ErrInvalidToken)
		}
	}

	email, _ := claims["email"].(string)
	return &Token{
		UID:           sub,
		Email:         email,
		EmailVerified: parseBool(claims["email_verified"]),
		Claims:        map[string]any(claims),
	}, nil
}

type oidcDiscovery struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// ensureDiscovery resolves the JWKS url once; failures are retried on the
// next request.
func (v *Verifier) ensureDiscovery(ctx context.Context) error {
	v.discoveryMu.Lock()
	defer v.discoveryMu.Unlock()
	if v.discoveryDone {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.discoveryURL, nil)
	if err != nil {
		return err
	}
	res, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("discovery request failed: %s", res.Status)
	}
	var d oidcDiscovery
	if err := json.NewDecoder(res.Body).Decode(&d); err != nil {
		return err
	}
	if strings.TrimSpace(d.JWKSURI) == "" {
		return fmt.Errorf("discovery missing jwks_uri")
	}
	v.jwks.setURL(d.JWKSURI)
	v.discoveryDone = true
	return nil
}

func validateTimeClaims(claims jwt.MapClaims, now time.Time, leeway time.Duration) error {
	expAny, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("missing exp")
	}
	exp, err := parseNumericTime(expAny)
	if err != nil {
		return fmt.Errorf("invalid exp: %w", err)
	}
	if now.After(exp.Add(leeway)) {
		return fmt.Errorf("token expired")
	}

	iatAny, ok := claims["iat"]
	if !ok {
		return fmt.Errorf("missing iat")
	}
	iat, err := parseNumericTime(iatAny)
	if err != nil {
		return fmt.Errorf("invalid iat: %w", err)
	}
	if iat.After(now.Add(leeway)) {
		return fmt.Errorf("token issued in the future")
	}
	return nil
}

func parseNumericTime(v any) (time.Time, error) {
	var sec int64
	switch x := v.(type) {
	case float64:
		sec = int64(x)
	case int64:
		sec = x
	case int:
		sec = int64(x)
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return time.Time{}, err
		}
		sec = n
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		sec = n
	default:
		return time.Time{}, fmt.Errorf("unexpected type %T", v)
	}
	if sec <= 0 {
		return time.Time{}, fmt.Errorf("non-positive numeric date")
	}
	return time.Unix(sec, 0).UTC(), nil
}

func audContains(aud any, required string) bool {
	switch v := aud.(type) {
	case string:
		return v == required
	case []any:
		for _, it := range v {
			if s, ok := it.(string); ok && s == required {
				return true
			}
		}
	case []string:
		for _, s := range v {
			if s == required {
				return true
			}
		}
	}
	return false
}

func parseBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(x, "true") || x == "1"
	default:
		return false
	}
}

func constantTimeEq(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
