package handler

import (
	"net/http"

	"github.com/vfg2006/business-manager-api/internal/api/handler/router"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/business-manager-api/internal/usecases/business"
	"github.com/vfg2006/business-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/business-manager-api/internal/usecases/customer"
	"github.com/vfg2006/business-manager-api/internal/usecases/notifying"
	"github.com/vfg2006/business-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/business-manager-api/internal/usecases/selling"
	"github.com/vfg2006/business-manager-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator, cookie SessionCookie) []router.Route {
	authenticated := []router.Middleware{middleware.Authenticated()}

	return []router.Route{
		{
			Path:    "/api/register",
			Method:  http.MethodPost,
			Handler: Register(service, cookie),
		},
		{
			Path:    "/api/login",
			Method:  http.MethodPost,
			Handler: Login(service, cookie),
		},
		{
			Path:        "/api/logout",
			Method:      http.MethodPost,
			Handler:     Logout(service, cookie),
			Middlewares: authenticated,
		},
		{
			Path:        "/api/user",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/api/user",
			Method:      http.MethodPut,
			Handler:     UpdateMe(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/api/user/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: authenticated,
		},
	}
}

// Businesses não passa pelo BusinessMiddleware: o dono é verificado pelo próprio caso de uso
func Businesses(service business.Manager) []router.Route {
	return router.Group([]router.Middleware{middleware.Authenticated()},
		router.Route{Path: "/api/businesses", Method: http.MethodGet, Handler: ListBusinesses(service)},
		router.Route{Path: "/api/businesses", Method: http.MethodPost, Handler: CreateBusiness(service)},
		router.Route{Path: "/api/businesses/:id", Method: http.MethodGet, Handler: GetBusiness(service)},
		router.Route{Path: "/api/businesses/:id", Method: http.MethodPut, Handler: UpdateBusiness(service)},
		router.Route{Path: "/api/businesses/:id", Method: http.MethodDelete, Handler: DeleteBusiness(service)},
		router.Route{Path: "/api/businesses/:id/switch", Method: http.MethodPost, Handler: SwitchBusiness(service)},
	)
}

func businessScoped(businesses business.Manager) []router.Middleware {
	return []router.Middleware{middleware.Authenticated(), middleware.BusinessMiddleware(businesses)}
}

func Catalog(service cataloging.Cataloger, businesses business.Manager) []router.Route {
	return router.Group(businessScoped(businesses),
		router.Route{Path: "/api/categories", Method: http.MethodGet, Handler: ListCategories(service)},
		router.Route{Path: "/api/categories", Method: http.MethodPost, Handler: CreateCategory(service)},
		router.Route{Path: "/api/categories/:id", Method: http.MethodGet, Handler: GetCategory(service)},
		router.Route{Path: "/api/categories/:id", Method: http.MethodPut, Handler: UpdateCategory(service)},
		router.Route{Path: "/api/categories/:id", Method: http.MethodDelete, Handler: DeleteCategory(service)},
		router.Route{Path: "/api/products", Method: http.MethodGet, Handler: ListProducts(service)},
		router.Route{Path: "/api/products", Method: http.MethodPost, Handler: CreateProduct(service)},
		router.Route{Path: "/api/products/:id", Method: http.MethodGet, Handler: GetProduct(service)},
		router.Route{Path: "/api/products/:id", Method: http.MethodPut, Handler: UpdateProduct(service)},
		router.Route{Path: "/api/products/:id", Method: http.MethodDelete, Handler: DeleteProduct(service)},
	)
}

func Customers(service customer.Manager, businesses business.Manager) []router.Route {
	return router.Group(businessScoped(businesses),
		router.Route{Path: "/api/customers", Method: http.MethodGet, Handler: ListCustomers(service)},
		router.Route{Path: "/api/customers", Method: http.MethodPost, Handler: CreateCustomer(service)},
		router.Route{Path: "/api/customers/:id", Method: http.MethodGet, Handler: GetCustomer(service)},
		router.Route{Path: "/api/customers/:id", Method: http.MethodPut, Handler: UpdateCustomer(service)},
		router.Route{Path: "/api/customers/:id", Method: http.MethodDelete, Handler: DeleteCustomer(service)},
	)
}

func Sales(service selling.Seller, businesses business.Manager) []router.Route {
	return router.Group(businessScoped(businesses),
		router.Route{Path: "/api/sales", Method: http.MethodGet, Handler: ListSales(service)},
		router.Route{Path: "/api/sales", Method: http.MethodPost, Handler: CreateSale(service)},
		router.Route{Path: "/api/sales/:id", Method: http.MethodGet, Handler: GetSale(service)},
		router.Route{Path: "/api/sales/:id", Method: http.MethodPut, Handler: UpdateSale(service)},
		router.Route{Path: "/api/sales/:id", Method: http.MethodDelete, Handler: DeleteSale(service)},
	)
}

func Transfer(services TransferServices, businesses business.Manager) []router.Route {
	return router.Group(businessScoped(businesses),
		router.Route{Path: "/api/export/:entity", Method: http.MethodGet, Handler: Export(services)},
		router.Route{Path: "/api/import/:entity", Method: http.MethodPost, Handler: Import(services)},
	)
}

func Reports(service reporting.Reporter, businesses business.Manager) []router.Route {
	return router.Group(businessScoped(businesses),
		router.Route{Path: "/api/stats", Method: http.MethodGet, Handler: Dashboard(service)},
		router.Route{Path: "/api/stats/sales-by-month", Method: http.MethodGet, Handler: SalesByMonth(service)},
		router.Route{Path: "/api/stats/sales-by-category", Method: http.MethodGet, Handler: SalesByCategory(service)},
		router.Route{Path: "/api/stats/sales-by-product", Method: http.MethodGet, Handler: SalesByProduct(service)},
		router.Route{Path: "/api/reports/sales", Method: http.MethodGet, Handler: SalesReport(service)},
	)
}

func Notifications(service notifying.Notifier, businesses business.Manager) []router.Route {
	authenticated := []router.Middleware{middleware.Authenticated()}

	return []router.Route{
		{
			Path:        "/api/feedback",
			Method:      http.MethodPost,
			Handler:     SubmitFeedback(service),
			Middlewares: []router.Middleware{middleware.Authenticated(), middleware.OptionalBusinessMiddleware(businesses)},
		},
		{
			Path:        "/api/notifications",
			Method:      http.MethodGet,
			Handler:     ListNotifications(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/api/notifications",
			Method:      http.MethodPut,
			Handler:     MarkAllNotificationsRead(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/api/notifications/:id/read",
			Method:      http.MethodPut,
			Handler:     MarkNotificationRead(service),
			Middlewares: authenticated,
		},
	}
}

// AdminServices reúne o que as rotas /api/admin usam
type AdminServices struct {
	Authenticator authenticating.Authenticator
	Reporter      reporting.Reporter
	Notifier      notifying.Notifier
	Jobs          Jobs
}

func Admin(services AdminServices) []router.Route {
	return router.Group([]router.Middleware{middleware.AdminOnly()},
		router.Route{Path: "/api/admin/stats", Method: http.MethodGet, Handler: AdminStats(services.Reporter)},
		router.Route{Path: "/api/admin/users", Method: http.MethodGet, Handler: ListUsers(services.Authenticator)},
		router.Route{Path: "/api/admin/feedback", Method: http.MethodGet, Handler: ListFeedback(services.Notifier)},
		router.Route{Path: "/api/admin/jobs/run/:type", Method: http.MethodPost, Handler: RunJob(services.Jobs)},
		router.Route{Path: "/api/admin/jobs/status", Method: http.MethodGet, Handler: GetJobsStatus(services.Jobs)},
	)
}
