package handler

import (
	"net/http"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/selling"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"github.com/vfg2006/business-manager-api/pkg/utils"
)

// ListSales aceita start_date, end_date (YYYY-MM-DD), product_id e customer_id
func ListSales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		filters, err := saleFiltersFromQuery(r, business.ID)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Filtros inválidos", err.Error())
			return
		}

		sales, err := service.List(r.Context(), filters)
		if err != nil {
			writeError(w, r, err, "Erro ao listar vendas")
			return
		}

		writeJSON(w, http.StatusOK, sales)
	}
}

func saleFiltersFromQuery(r *http.Request, businessID int) (domain.SaleFilters, error) {
	filters := domain.SaleFilters{BusinessID: businessID}

	startDate, err := queryDate(r, "start_date")
	if err != nil {
		return filters, err
	}
	endDate, err := queryDate(r, "end_date")
	if err != nil {
		return filters, err
	}
	if endDate != nil {
		end := utils.EndOfDay(*endDate)
		endDate = &end
	}

	productID, err := queryInt(r, "product_id")
	if err != nil {
		return filters, err
	}
	customerID, err := queryInt(r, "customer_id")
	if err != nil {
		return filters, err
	}

	filters.StartDate = startDate
	filters.EndDate = endDate
	filters.ProductID = productID
	filters.CustomerID = customerID

	return filters, nil
}

func GetSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		sale, err := service.Get(r.Context(), business.ID, id)
		if err != nil {
			writeError(w, r, err, "Erro ao buscar venda")
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

func CreateSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		var req domain.CreateSaleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.BusinessID = business.ID
		req.UserID = claims.UserID

		sale, err := service.Create(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, "Erro ao registrar venda")
			return
		}

		writeJSON(w, http.StatusCreated, sale)
	}
}

func UpdateSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req domain.UpdateSaleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.ID = id
		req.BusinessID = business.ID

		sale, err := service.Update(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, "Erro ao atualizar venda")
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

func DeleteSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := service.Delete(r.Context(), business.ID, id); err != nil {
			writeError(w, r, err, "Erro ao remover venda")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
