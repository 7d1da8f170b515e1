package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/business-manager-api/internal/config"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	authmocks "github.com/vfg2006/business-manager-api/internal/usecases/authenticating/mocks"
	businessmocks "github.com/vfg2006/business-manager-api/internal/usecases/business/mocks"
	catalogmocks "github.com/vfg2006/business-manager-api/internal/usecases/cataloging/mocks"
	reportmocks "github.com/vfg2006/business-manager-api/internal/usecases/reporting/mocks"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

type testServices struct {
	auth       *authmocks.MockAuthenticator
	businesses *businessmocks.MockManager
	catalog    *catalogmocks.MockCataloger
	reporter   *reportmocks.MockReporter
}

func newTestHandler(t *testing.T) (http.Handler, testServices) {
	ctrl := gomock.NewController(t)
	mocks := testServices{
		auth:       authmocks.NewMockAuthenticator(ctrl),
		businesses: businessmocks.NewMockManager(ctrl),
		catalog:    catalogmocks.NewMockCataloger(ctrl),
		reporter:   reportmocks.NewMockReporter(ctrl),
	}

	cfg := &config.Config{
		Server:  config.Server{AllowedOrigins: []string{"http://localhost:5173"}},
		Session: config.Session{CookieName: "session"},
	}

	return NewHandler(cfg, Services{
		Authenticator: mocks.auth,
		Businesses:    mocks.businesses,
		Catalog:       mocks.catalog,
		Reporter:      mocks.reporter,
	}), mocks
}

func TestNewHandler_Healthcheck(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestNewHandler_RequiresSession(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidToken)
}

func TestNewHandler_ExpiredSession(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.auth.EXPECT().ValidateToken(gomock.Any(), "old-token").
		Return(nil, authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "old-token"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrExpiredToken)
}

func TestNewHandler_BusinessScopedRoute(t *testing.T) {
	h, mocks := newTestHandler(t)

	claims := &domain.Claims{SessionID: "s1", UserID: 7, UserRoleID: domain.RoleUser}
	mocks.auth.EXPECT().ValidateToken(gomock.Any(), "token").Return(claims, nil).AnyTimes()

	t.Run("usa o negócio do header", func(t *testing.T) {
		mocks.businesses.EXPECT().Resolve(gomock.Any(), 7, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ int, requestedID *int) (*domain.Business, error) {
				require.NotNil(t, requestedID)
				assert.Equal(t, 3, *requestedID)
				return &domain.Business{ID: 3, UserID: 7}, nil
			})
		mocks.catalog.EXPECT().ListProducts(gomock.Any(), domain.ProductFilters{BusinessID: 3}).
			Return([]domain.Product{{ID: 1, BusinessID: 3, Name: "Café"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "token"})
		req.Header.Set("X-Business-ID", "3")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Café")
	})

	t.Run("negócio de outro usuário", func(t *testing.T) {
		mocks.businesses.EXPECT().Resolve(gomock.Any(), 7, gomock.Any()).
			Return(nil, domain.Forbidden("Negócio não pertence ao usuário"))

		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("X-Business-ID", "99")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rota admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer token")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestNewHandler_NotFound(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.auth.EXPECT().ValidateToken(gomock.Any(), "token").
		Return(&domain.Claims{UserID: 7, UserRoleID: domain.RoleUser}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set("Authorization", "Bearer token")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrResourceNotFound)
}

func TestNewHandler_Preflight(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
