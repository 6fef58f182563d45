package rest

import (
	"net/http"
	"slices"
	"strings"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
	"real-estate-system/internal/core/port/usecases_port"
)

type AuthMiddleware struct {
	validateTokenUC usecases_port.ValidateTokenUseCasePort
}

func NewAuthMiddleware(validateTokenUC usecases_port.ValidateTokenUseCasePort) *AuthMiddleware {
	return &AuthMiddleware{validateTokenUC: validateTokenUC}
}

// Authenticate проверяет Bearer токен и кладет пользователя в контекст.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// AuthenticateStream дополнительно принимает токен из ?token=.
// EventSource в браузере не умеет передавать заголовки.
func (m *AuthMiddleware) AuthenticateStream(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next http.Handler, allowQueryToken bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context())

		token, ok := bearerToken(r)
		if !ok && allowQueryToken {
			token = r.URL.Query().Get("token")
			ok = token != ""
		}
		if !ok {
			WriteJSONError(w, http.StatusUnauthorized, "Authorization header is missing or malformed")
			return
		}

		claims, err := m.validateTokenUC.Execute(r.Context(), token)
		if err != nil {
			logger.Warn("Token validation failed", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		actor := claims.Actor()
		ctx := contextkeys.ContextWithActor(r.Context(), actor)
		ctx = contextkeys.ContextWithLogger(ctx, logger.WithFields(port.Fields{"user_id": actor.UserID.String()}))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// RequireRole пропускает только пользователей с одной из ролей. Ставится после Authenticate.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := contextkeys.ActorFromContext(r.Context())
			if !ok {
				WriteJSONError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}
			if !slices.Contains(roles, actor.Role) {
				WriteJSONError(w, http.StatusForbidden, "Access denied for role "+string(actor.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// actorFrom достает пользователя, которого положил Authenticate.
func actorFrom(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := contextkeys.ActorFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Unauthenticated")
	}
	return actor, ok
}
