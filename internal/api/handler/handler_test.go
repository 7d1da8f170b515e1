package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	authmocks "github.com/vfg2006/business-manager-api/internal/usecases/authenticating/mocks"
	catalogmocks "github.com/vfg2006/business-manager-api/internal/usecases/cataloging/mocks"
	customermocks "github.com/vfg2006/business-manager-api/internal/usecases/customer/mocks"
	notifymocks "github.com/vfg2006/business-manager-api/internal/usecases/notifying/mocks"
	reportmocks "github.com/vfg2006/business-manager-api/internal/usecases/reporting/mocks"
	sellingmocks "github.com/vfg2006/business-manager-api/internal/usecases/selling/mocks"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"github.com/vfg2006/business-manager-api/pkg/middleware"
	"go.uber.org/mock/gomock"
)

var (
	testClaims   = &domain.Claims{SessionID: "sess-1", UserID: 7, UserEmail: "ana@example.com", UserRoleID: domain.RoleUser}
	testBusiness = &domain.Business{ID: 3, UserID: 7, Name: "Padaria", Currency: "BRL"}
)

// newRequest monta a requisição já com sessão, negócio e parâmetros de rota no contexto
func newRequest(method, target, body string, params ...httprouter.Param) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, testClaims)
	ctx = context.WithValue(ctx, middleware.ContextKeyBusiness, testBusiness)
	if len(params) > 0 {
		ctx = context.WithValue(ctx, httprouter.ParamsKey, httprouter.Params(params))
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestLogin(t *testing.T) {
	cookie := SessionCookie{Name: "session"}

	t.Run("grava o cookie de sessão", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)

		expiresAt := time.Now().Add(24 * time.Hour)
		auth.EXPECT().Login(gomock.Any(), "ana@example.com", "Senha123", gomock.Any()).
			Return(&domain.LoginResult{Token: "jwt-token", ExpiresAt: expiresAt, User: &domain.User{ID: 7}}, nil)

		rec := httptest.NewRecorder()
		Login(auth, cookie)(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"ana@example.com","password":"Senha123"}`)))

		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "session", cookies[0].Name)
		assert.Equal(t, "jwt-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.NotContains(t, rec.Body.String(), "jwt-token")
	})

	t.Run("credenciais inválidas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)
		auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, authenticating.NewAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, ""))

		rec := httptest.NewRecorder()
		Login(auth, cookie)(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"ana@example.com","password":"x"}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var apiErr apiErrors.APIError
		decodeBody(t, rec, &apiErr)
		assert.Equal(t, apiErrors.ErrInvalidCredentials, apiErr.Code)
	})

	t.Run("corpo inválido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)

		rec := httptest.NewRecorder()
		Login(auth, cookie)(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogout_ClearsCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockAuthenticator(ctrl)
	auth.EXPECT().Logout(gomock.Any(), "sess-1").Return(nil)

	rec := httptest.NewRecorder()
	Logout(auth, SessionCookie{})(rec, newRequest(http.MethodPost, "/api/logout", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.DefaultSessionCookie, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestGetMe_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockAuthenticator(ctrl)

	rec := httptest.NewRecorder()
	GetMe(auth)(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProduct_UsesSelectedBusiness(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := catalogmocks.NewMockCataloger(ctrl)

	catalog.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
		assert.Equal(t, 3, p.BusinessID)
		assert.Equal(t, "Café", p.Name)
		p.ID = 10
		p.SKU = "CAF-ABC"
		return p, nil
	})

	rec := httptest.NewRecorder()
	CreateProduct(catalog)(rec, newRequest(http.MethodPost, "/api/products", `{"name":"Café","price":12.5,"business_id":99}`))

	require.Equal(t, http.StatusCreated, rec.Code)

	var product domain.Product
	decodeBody(t, rec, &product)
	assert.Equal(t, 10, product.ID)
	assert.Equal(t, 3, product.BusinessID)
}

func TestListProducts_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := catalogmocks.NewMockCataloger(ctrl)

	catalog.EXPECT().ListProducts(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f domain.ProductFilters) ([]domain.Product, error) {
		assert.Equal(t, 3, f.BusinessID)
		require.NotNil(t, f.CategoryID)
		assert.Equal(t, 4, *f.CategoryID)
		assert.Equal(t, "caf", f.Search)
		assert.True(t, f.LowStock)
		return []domain.Product{}, nil
	})

	rec := httptest.NewRecorder()
	ListProducts(catalog)(rec, newRequest(http.MethodGet, "/api/products?category_id=4&search=caf&low_stock=true", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetCustomer(t *testing.T) {
	t.Run("não encontrado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		customers := customermocks.NewMockManager(ctrl)
		customers.EXPECT().Get(gomock.Any(), 3, 15).Return(nil, domain.NotFound("Cliente não encontrado"))

		rec := httptest.NewRecorder()
		GetCustomer(customers)(rec, newRequest(http.MethodGet, "/api/customers/15", "", httprouter.Param{Key: "id", Value: "15"}))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var apiErr apiErrors.APIError
		decodeBody(t, rec, &apiErr)
		assert.Equal(t, apiErrors.ErrResourceNotFound, apiErr.Code)
	})

	t.Run("id inválido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		customers := customermocks.NewMockManager(ctrl)

		rec := httptest.NewRecorder()
		GetCustomer(customers)(rec, newRequest(http.MethodGet, "/api/customers/abc", "", httprouter.Param{Key: "id", Value: "abc"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateSale(t *testing.T) {
	t.Run("estoque insuficiente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sales := sellingmocks.NewMockSeller(ctrl)
		sales.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *domain.CreateSaleRequest) (*domain.Sale, error) {
			assert.Equal(t, 3, req.BusinessID)
			assert.Equal(t, 7, req.UserID)
			assert.Equal(t, 2, req.Quantity)
			return nil, domain.WrapRepositoryError(domain.ErrInsufficientStock, "Estoque insuficiente")
		})

		rec := httptest.NewRecorder()
		CreateSale(sales)(rec, newRequest(http.MethodPost, "/api/sales", `{"product_id":10,"quantity":2}`))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("erro inesperado vira 500", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sales := sellingmocks.NewMockSeller(ctrl)
		sales.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("falha"))

		rec := httptest.NewRecorder()
		CreateSale(sales)(rec, newRequest(http.MethodPost, "/api/sales", `{"product_id":10,"quantity":2}`))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestListSales_DateFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	sales := sellingmocks.NewMockSeller(ctrl)

	sales.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f domain.SaleFilters) ([]domain.Sale, error) {
		require.NotNil(t, f.StartDate)
		require.NotNil(t, f.EndDate)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
		assert.Equal(t, 23, f.EndDate.Hour())
		return nil, nil
	})

	rec := httptest.NewRecorder()
	ListSales(sales)(rec, newRequest(http.MethodGet, "/api/sales?start_date=2024-01-01&end_date=2024-01-31", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	ListSales(sales)(rec, newRequest(http.MethodGet, "/api/sales?start_date=01/01/2024", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	ctrl := gomock.NewController(t)
	customers := customermocks.NewMockManager(ctrl)
	customers.EXPECT().Export(gomock.Any(), 3).Return("name,email\nAna,ana@example.com", nil)

	rec := httptest.NewRecorder()
	Export(TransferServices{Customers: customers})(rec,
		newRequest(http.MethodGet, "/api/export/customers", "", httprouter.Param{Key: "entity", Value: EntityCustomers}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "customers-")
	assert.Equal(t, "name,email\nAna,ana@example.com", rec.Body.String())
}

func TestImport(t *testing.T) {
	t.Run("importa e notifica", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := catalogmocks.NewMockCataloger(ctrl)
		notifier := notifymocks.NewMockNotifier(ctrl)

		result := &domain.ImportResult{Imported: 2}
		catalog.EXPECT().ImportProducts(gomock.Any(), 3, "name,price\nCafé,10\nChá,8").Return(result, nil)
		notifier.EXPECT().NotifyImport(gomock.Any(), 7, 3, EntityProducts, result).Return(errors.New("falha ao notificar"))

		rec := httptest.NewRecorder()
		Import(TransferServices{Catalog: catalog, Notifier: notifier})(rec,
			newRequest(http.MethodPost, "/api/import/products", "name,price\nCafé,10\nChá,8", httprouter.Param{Key: "entity", Value: EntityProducts}))

		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.ImportResult
		decodeBody(t, rec, &got)
		assert.Equal(t, 2, got.Imported)
	})

	t.Run("arquivo acima do limite não é importado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := catalogmocks.NewMockCataloger(ctrl)
		notifier := notifymocks.NewMockNotifier(ctrl)

		body := "name,price\n" + strings.Repeat("Produto de teste,10\n", maxImportSize/19+10)
		require.Greater(t, len(body), maxImportSize)

		rec := httptest.NewRecorder()
		Import(TransferServices{Catalog: catalog, Notifier: notifier})(rec,
			newRequest(http.MethodPost, "/api/import/products", body, httprouter.Param{Key: "entity", Value: EntityProducts}))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

		var apiErr apiErrors.APIError
		decodeBody(t, rec, &apiErr)
		assert.Equal(t, apiErrors.ErrPayloadTooLarge, apiErr.Code)
	})

	t.Run("arquivo no limite é importado inteiro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := catalogmocks.NewMockCataloger(ctrl)

		body := strings.Repeat("a", maxImportSize)
		catalog.EXPECT().ImportProducts(gomock.Any(), 3, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ int, text string) (*domain.ImportResult, error) {
				assert.Len(t, text, maxImportSize)
				return &domain.ImportResult{}, nil
			})

		rec := httptest.NewRecorder()
		Import(TransferServices{Catalog: catalog})(rec,
			newRequest(http.MethodPost, "/api/import/products", body, httprouter.Param{Key: "entity", Value: EntityProducts}))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("entidade desconhecida", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Import(TransferServices{})(rec,
			newRequest(http.MethodPost, "/api/import/orders", "x", httprouter.Param{Key: "entity", Value: "orders"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSalesReport(t *testing.T) {
	t.Run("devolve o PDF", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reporter := reportmocks.NewMockReporter(ctrl)
		reporter.EXPECT().SalesReportPDF(gomock.Any(), testBusiness, gomock.Any(), gomock.Any()).Return([]byte("%PDF-1.3"), nil)

		rec := httptest.NewRecorder()
		SalesReport(reporter)(rec, newRequest(http.MethodGet, "/api/reports/sales?start=2024-01-01&end=2024-01-31", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, "%PDF-1.3", rec.Body.String())
	})

	t.Run("sem período", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reporter := reportmocks.NewMockReporter(ctrl)

		rec := httptest.NewRecorder()
		SalesReport(reporter)(rec, newRequest(http.MethodGet, "/api/reports/sales", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDashboard_DefaultYear(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := reportmocks.NewMockReporter(ctrl)
	reporter.EXPECT().Dashboard(gomock.Any(), 3, time.Now().Year()).Return(&domain.Dashboard{BusinessID: 3}, nil)

	rec := httptest.NewRecorder()
	Dashboard(reporter)(rec, newRequest(http.MethodGet, "/api/stats", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitFeedback(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := notifymocks.NewMockNotifier(ctrl)
	notifier.EXPECT().SubmitFeedback(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f *domain.Feedback) (*domain.Feedback, error) {
		assert.Equal(t, 7, f.UserID)
		require.NotNil(t, f.BusinessID)
		assert.Equal(t, 3, *f.BusinessID)
		return f, nil
	})

	rec := httptest.NewRecorder()
	SubmitFeedback(notifier)(rec, newRequest(http.MethodPost, "/api/feedback", `{"rating":5,"message":"Muito bom"}`))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

type fakeJob struct {
	triggered bool
	busy      bool
}

func (j *fakeJob) TriggerManualSync() bool {
	j.triggered = true
	return !j.busy
}

func (j *fakeJob) GetStatus() map[string]any {
	return map[string]any{"running": j.busy}
}

func TestRunJob(t *testing.T) {
	alerts := &fakeJob{}
	cleanup := &fakeJob{busy: true}
	jobs := Jobs{"low-stock-alerts": alerts, "session-cleanup": cleanup}

	rec := httptest.NewRecorder()
	RunJob(jobs)(rec, newRequest(http.MethodPost, "/api/admin/jobs/run/all", "", httprouter.Param{Key: "type", Value: JobTypeAll}))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, alerts.triggered)
	assert.True(t, cleanup.triggered)

	var body struct {
		Started map[string]bool `json:"started"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, map[string]bool{"low-stock-alerts": true, "session-cleanup": false}, body.Started)

	rec = httptest.NewRecorder()
	RunJob(jobs)(rec, newRequest(http.MethodPost, "/api/admin/jobs/run/unknown", "", httprouter.Param{Key: "type", Value: "unknown"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "low-stock-alerts, session-cleanup, all")
}

func TestGetJobsStatus(t *testing.T) {
	jobs := Jobs{"session-cleanup": &fakeJob{busy: true}}

	rec := httptest.NewRecorder()
	GetJobsStatus(jobs)(rec, newRequest(http.MethodGet, "/api/admin/jobs/status", ""))

	assert.JSONEq(t, `{"session-cleanup":{"running":true}}`, rec.Body.String())
}
