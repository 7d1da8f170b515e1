package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/business-manager-api/internal/usecases/customer"
	"github.com/vfg2006/business-manager-api/internal/usecases/notifying"
	"github.com/vfg2006/business-manager-api/internal/usecases/selling"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"github.com/vfg2006/business-manager-api/pkg/log"
)

// Entidades aceitas em /api/export/:entity e /api/import/:entity
const (
	EntityProducts  = "products"
	EntityCustomers = "customers"
	EntitySales     = "sales"
)

// TransferServices reúne os casos de uso que importam e exportam CSV
type TransferServices struct {
	Catalog   cataloging.Cataloger
	Customers customer.Manager
	Sales     selling.Seller
	Notifier  notifying.Notifier
}

func Export(services TransferServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		entity := httprouter.ParamsFromContext(r.Context()).ByName("entity")

		var (
			content string
			err     error
		)

		switch entity {
		case EntityProducts:
			content, err = services.Catalog.ExportProducts(r.Context(), business.ID)
		case EntityCustomers:
			content, err = services.Customers.Export(r.Context(), business.ID)
		case EntitySales:
			content, err = services.Sales.Export(r.Context(), business.ID)
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Entidade inválida. Valores aceitos: products, customers, sales", nil)
			return
		}

		if err != nil {
			writeError(w, r, err, "Erro ao exportar dados")
			return
		}

		filename := fmt.Sprintf("%s-%s.csv", entity, time.Now().Format(time.DateOnly))
		writeCSV(w, filename, content)
	}
}

// Import recebe o CSV no corpo da requisição e devolve o resultado por linha
func Import(services TransferServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		entity := httprouter.ParamsFromContext(r.Context()).ByName("entity")
		if entity != EntityProducts && entity != EntityCustomers && entity != EntitySales {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Entidade inválida. Valores aceitos: products, customers, sales", nil)
			return
		}

		text, ok := readBody(w, r)
		if !ok {
			return
		}

		var (
			result *domain.ImportResult
			err    error
		)

		switch entity {
		case EntityProducts:
			result, err = services.Catalog.ImportProducts(r.Context(), business.ID, text)
		case EntityCustomers:
			result, err = services.Customers.Import(r.Context(), business.ID, text)
		case EntitySales:
			result, err = services.Sales.Import(r.Context(), business.ID, claims.UserID, text)
		}

		if err != nil {
			writeError(w, r, err, "Erro ao importar dados")
			return
		}

		notifyImport(r.Context(), services.Notifier, claims.UserID, business.ID, entity, result)

		writeJSON(w, http.StatusOK, result)
	}
}

// notifyImport não interrompe a resposta: a importação já foi feita
func notifyImport(ctx context.Context, notifier notifying.Notifier, userID, businessID int, entity string, result *domain.ImportResult) {
	if notifier == nil {
		return
	}
	if err := notifier.NotifyImport(ctx, userID, businessID, entity, result); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao notificar importação")
	}
}
