package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	authmocks "github.com/vfg2006/business-manager-api/internal/usecases/authenticating/mocks"
	businessmocks "github.com/vfg2006/business-manager-api/internal/usecases/business/mocks"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func withClaims(r *http.Request, claims *domain.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUser, claims))
}

func TestAuthMiddleware(t *testing.T) {
	claims := &domain.Claims{SessionID: "s1", UserID: 7, UserRoleID: domain.RoleUser}

	t.Run("rota pública dispensa token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)

		rec := httptest.NewRecorder()
		AuthMiddleware(auth, "")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("sem token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)

		rec := httptest.NewRecorder()
		AuthMiddleware(auth, "")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidToken)
	})

	t.Run("token no cookie", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)
		auth.EXPECT().ValidateToken(gomock.Any(), "abc").Return(claims, nil)

		var got *domain.Claims
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = GetClaims(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "abc"})

		rec := httptest.NewRecorder()
		AuthMiddleware(auth, "")(next).ServeHTTP(rec, req)

		require.NotNil(t, got)
		assert.Equal(t, 7, got.UserID)
	})

	t.Run("token bearer expirado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)
		auth.EXPECT().ValidateToken(gomock.Any(), "xyz").
			Return(nil, authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, ""))

		req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
		req.Header.Set("Authorization", "Bearer xyz")

		rec := httptest.NewRecorder()
		AuthMiddleware(auth, "")(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrExpiredToken)
	})

	t.Run("banco indisponível não encerra a sessão", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)
		auth.EXPECT().ValidateToken(gomock.Any(), "abc").
			Return(nil, authenticating.NewAuthError(authenticating.ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, ""))

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "abc"})

		rec := httptest.NewRecorder()
		AuthMiddleware(auth, "")(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrDatabaseOperation)
	})

	t.Run("erro sem código vira 401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)
		auth.EXPECT().ValidateToken(gomock.Any(), "abc").Return(nil, errors.New("assinatura inválida"))

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set("Authorization", "Bearer abc")

		rec := httptest.NewRecorder()
		AuthMiddleware(auth, "")(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidToken)
	})
}

func TestBusinessMiddleware(t *testing.T) {
	claims := &domain.Claims{UserID: 7, UserRoleID: domain.RoleUser}

	t.Run("usa o header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := businessmocks.NewMockManager(ctrl)
		manager.EXPECT().Resolve(gomock.Any(), 7, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ int, requested *int) (*domain.Business, error) {
				require.NotNil(t, requested)
				assert.Equal(t, 3, *requested)
				return &domain.Business{ID: 3, UserID: 7}, nil
			})

		var got *domain.Business
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = GetBusiness(r.Context())
		})

		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/products", nil), claims)
		req.Header.Set(BusinessHeader, "3")

		BusinessMiddleware(manager)(next).ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, got)
		assert.Equal(t, 3, got.ID)
	})

	t.Run("sem seleção usa o padrão", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := businessmocks.NewMockManager(ctrl)
		manager.EXPECT().Resolve(gomock.Any(), 7, (*int)(nil)).Return(&domain.Business{ID: 1, UserID: 7}, nil)

		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/products", nil), claims)
		rec := httptest.NewRecorder()
		BusinessMiddleware(manager)(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("negócio de outro usuário", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := businessmocks.NewMockManager(ctrl)
		manager.EXPECT().Resolve(gomock.Any(), 7, gomock.Any()).Return(nil, domain.Forbidden("Negócio não pertence ao usuário"))

		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/products?business_id=9", nil), claims)
		rec := httptest.NewRecorder()
		BusinessMiddleware(manager)(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("id inválido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := businessmocks.NewMockManager(ctrl)

		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/products", nil), claims)
		req.Header.Set(BusinessHeader, "abc")
		rec := httptest.NewRecorder()
		BusinessMiddleware(manager)(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name   string
		claims *domain.Claims
		want   int
	}{
		{name: "admin", claims: &domain.Claims{UserID: 1, UserRoleID: domain.RoleAdmin}, want: http.StatusOK},
		{name: "usuário comum", claims: &domain.Claims{UserID: 2, UserRoleID: domain.RoleUser}, want: http.StatusForbidden},
		{name: "sem sessão", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.claims != nil {
				req = withClaims(req, tt.claims)
			}

			rec := httptest.NewRecorder()
			AdminOnly()(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:5173"})(okHandler())

	t.Run("origem permitida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/sales", nil)
		req.Header.Set("Origin", "http://localhost:5173")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), BusinessHeader)
	})

	t.Run("origem desconhecida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
		req.Header.Set("Origin", "http://evil.example")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLogPanicMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	LogPanicMiddleware()(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	LoggingMiddleware()(notFound).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptionalBusinessMiddleware(t *testing.T) {
	claims := &domain.Claims{UserID: 7, UserRoleID: domain.RoleUser}

	t.Run("sem negócio informado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := businessmocks.NewMockManager(ctrl)

		var found bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, found = GetBusiness(r.Context())
		})

		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/feedback", nil), claims)
		OptionalBusinessMiddleware(manager)(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, found)
	})

	t.Run("negócio inválido não bloqueia", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := businessmocks.NewMockManager(ctrl)
		manager.EXPECT().Resolve(gomock.Any(), 7, gomock.Any()).Return(nil, domain.Forbidden("outro usuário"))

		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/feedback", nil), claims)
		req.Header.Set(BusinessHeader, "99")

		rec := httptest.NewRecorder()
		OptionalBusinessMiddleware(manager)(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
