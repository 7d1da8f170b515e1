package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vfg2006/business-manager-api/internal/usecases/business"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"github.com/vfg2006/business-manager-api/pkg/log"
)

const (
	BusinessHeader     = "X-Business-ID"
	BusinessQueryParam = "business_id"
)

// BusinessMiddleware resolve o negócio da requisição (header, query ou o padrão do usuário)
// e confere se ele pertence ao usuário autenticado.
func BusinessMiddleware(manager business.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			requestedID, err := requestedBusinessID(r)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do negócio inválido", nil)
				return
			}

			selected, err := manager.Resolve(r.Context(), claims.UserID, requestedID)
			if err != nil {
				apiError := apiErrors.FromError(err, apiErrors.ErrInternalServer)
				apiErrors.WriteError(w, apiError.Code, apiError.Message, nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyBusiness, selected)
			ctx = log.WithBusiness(ctx, selected.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestedBusinessID(r *http.Request) (*int, error) {
	raw := r.Header.Get(BusinessHeader)
	if raw == "" {
		raw = r.URL.Query().Get(BusinessQueryParam)
	}
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// OptionalBusinessMiddleware só resolve o negócio quando o cliente informa um.
// Falhas na resolução não bloqueiam a requisição.
func OptionalBusinessMiddleware(manager business.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			requestedID, err := requestedBusinessID(r)
			if !ok || err != nil || requestedID == nil {
				next.ServeHTTP(w, r)
				return
			}

			selected, err := manager.Resolve(r.Context(), claims.UserID, requestedID)
			if err != nil {
				log.ForContext(r.Context()).WithError(err).Debug("Negócio informado ignorado")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyBusiness, selected)
			next.ServeHTTP(w, r.WithContext(log.WithBusiness(ctx, selected.ID)))
		})
	}
}
