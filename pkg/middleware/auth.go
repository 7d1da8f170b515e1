package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"github.com/vfg2006/business-manager-api/pkg/log"
)

type contextKey string

const (
	ContextKeyUser     contextKey = "user"
	ContextKeyBusiness contextKey = "business"
)

const DefaultSessionCookie = "session"

// Rotas que não exigem sessão
var publicPaths = map[string]bool{
	"/healthcheck":  true,
	"/api/login":    true,
	"/api/register": true,
}

// AuthMiddleware aceita o token do cookie de sessão ou do header Authorization (Bearer)
func AuthMiddleware(authService authenticating.Authenticator, cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := tokenFromRequest(r, cookieName)
			if tokenString == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			claims, err := authService.ValidateToken(r.Context(), tokenString)
			if err != nil {
				writeTokenError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			ctx = log.WithUser(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeTokenError só responde 401 quando a sessão é inválida. Falhas de infraestrutura
// respondem 5xx para o cliente não descartar uma sessão que continua válida.
func writeTokenError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context()).WithError(err)

	var authErr *authenticating.AuthError
	if authenticating.IsSessionError(err) {
		logger.Debug("Token rejeitado")
		code := apiErrors.ErrInvalidToken
		if errors.As(err, &authErr) {
			code = authErr.Code
		}
		apiErrors.WriteError(w, code, "Sessão inválida ou expirada", nil)
		return
	}

	apiError := apiErrors.FromError(err, apiErrors.ErrInvalidToken)
	if apiErrors.StatusFor(apiError.Code) >= http.StatusInternalServerError {
		logger.Error("Erro ao validar sessão")
		apiErrors.WriteError(w, apiError.Code, "Erro ao validar sessão", nil)
		return
	}

	logger.Debug("Token rejeitado")
	apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Sessão inválida ou expirada", nil)
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return strings.TrimSpace(tokenString)
}

// GetClaims devolve as claims colocadas no contexto pelo AuthMiddleware
func GetClaims(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}

// GetBusiness devolve o negócio resolvido pelo BusinessMiddleware
func GetBusiness(ctx context.Context) (*domain.Business, bool) {
	business, ok := ctx.Value(ContextKeyBusiness).(*domain.Business)
	return business, ok && business != nil
}
