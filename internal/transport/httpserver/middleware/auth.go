package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"community-app-go/internal/config"
	userdomain "community-app-go/internal/domain/user"
	"community-app-go/pkg/logger"
)

type contextKey int

const principalKey contextKey = iota

// Principal is the authenticated caller with its role resolved once per
// request; handlers read it from the context instead of re-querying the
// user row.
type Principal struct {
	ID   string
	Name string
	Role string
}

func (p Principal) IsAdmin() bool { return p.Role == userdomain.RoleAdmin }

// UserResolver lazily creates the user row for a verified principal and
// returns it with the persisted role.
type UserResolver interface {
	Ensure(ctx context.Context, id, name, email string) (*userdomain.User, error)
}

// IdentityAuth verifies bearer tokens against the external identity provider.
// The core never validates credentials itself.
type IdentityAuth struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	users    UserResolver
	log      logger.Logger
	skipAuth bool
	mockID   string
	mockName string
	mockRole string
}

type principalResponse struct {
	ID    string `json:"id"`
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewIdentityAuth(cfg config.IdentityConfig, users UserResolver, log logger.Logger) *IdentityAuth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &IdentityAuth{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		users:    users,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockID:   strings.TrimSpace(cfg.MockUserID),
		mockName: strings.TrimSpace(cfg.MockUserName),
		mockRole: strings.TrimSpace(cfg.MockUserRole),
	}
}

func (a *IdentityAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.admit(w, r, next, a.mockID, a.mockName, "")
			return
		}

		if a.baseURL == "" {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.baseURL+"/oidc/userinfo", nil)
		if err != nil {
			unauthorized(w)
			return
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if a.apiKey != "" {
			req.Header.Set("apikey", a.apiKey)
		}

		resp, err := a.client.Do(req)
		if err != nil {
			unauthorized(w)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			unauthorized(w)
			return
		}

		var payload principalResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			unauthorized(w)
			return
		}

		id := firstNonEmpty(payload.Sub, payload.ID)
		if id == "" {
			unauthorized(w)
			return
		}

		a.admit(w, r, next, id, payload.Name, payload.Email)
	})
}

// admit upserts the user row (create-on-first-access) and stashes the
// principal with its persisted role in the request context.
func (a *IdentityAuth) admit(w http.ResponseWriter, r *http.Request, next http.Handler, id, name, email string) {
	principal := Principal{ID: id, Name: name, Role: userdomain.RoleUser}

	if a.users != nil {
		row, err := a.users.Ensure(r.Context(), id, name, email)
		if err != nil {
			a.log.InternalError("auth: ensure user failed", err, "user_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		principal.Role = row.Role
		if principal.Name == "" {
			principal.Name = row.Name
		}
	}
	if a.skipAuth && a.mockRole != "" {
		principal.Role = a.mockRole
	}

	next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	if !ok || principal.ID == "" {
		return Principal{}, false
	}
	return principal, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
