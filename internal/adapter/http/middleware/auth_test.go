package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/auth"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return token
}

func TestAuthenticate(t *testing.T) {
	valid := signToken(t, auth.Claims{
		UserID: "u-1",
		Role:   domain.RoleAccountant,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	expired := signToken(t, auth.Claims{
		UserID: "u-1",
		Role:   domain.RoleAccountant,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  string
	}{
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantActor: "u-1"},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actor string
			h := Authenticate(auth.NewJWTVerifier(testSecret))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				actor = ActorFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if actor != tt.wantActor {
				t.Fatalf("expected actor %q, got %q", tt.wantActor, actor)
			}
		})
	}
}

func TestAuthenticate_TrustedHeaderWithoutVerifier(t *testing.T) {
	var got domain.Principal
	h := Authenticate(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", nil)
	req.Header.Set(UserIDHeader, "erp-user-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.ID != "erp-user-7" || got.Role != domain.RoleAdmin {
		t.Fatalf("unexpected principal %+v", got)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		principal  *domain.Principal
		required   domain.Role
		wantStatus int
	}{
		{name: "anonymous", required: domain.RoleViewer, wantStatus: http.StatusUnauthorized},
		{name: "viewer reads", principal: &domain.Principal{ID: "v", Role: domain.RoleViewer}, required: domain.RoleViewer, wantStatus: http.StatusOK},
		{name: "viewer cannot post", principal: &domain.Principal{ID: "v", Role: domain.RoleViewer}, required: domain.RoleAccountant, wantStatus: http.StatusForbidden},
		{name: "accountant posts", principal: &domain.Principal{ID: "a", Role: domain.RoleAccountant}, required: domain.RoleAccountant, wantStatus: http.StatusOK},
		{name: "accountant cannot lock", principal: &domain.Principal{ID: "a", Role: domain.RoleAccountant}, required: domain.RoleAdmin, wantStatus: http.StatusForbidden},
		{name: "admin locks", principal: &domain.Principal{ID: "root", Role: domain.RoleAdmin}, required: domain.RoleAdmin, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireRole(tt.required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), *tt.principal))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestWithPrincipal_TagsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())

	ctx = WithPrincipal(ctx, domain.Principal{ID: "u-9", Role: domain.RoleViewer})
	zerolog.Ctx(ctx).Info().Msg("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"actor":"u-9"`)) {
		t.Fatalf("expected actor in log line, got %s", buf.String())
	}
}
