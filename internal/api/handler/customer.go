package handler

import (
	"net/http"
	"strings"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/customer"
)

func ListCustomers(service customer.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		customers, err := service.List(r.Context(), business.ID, strings.TrimSpace(r.URL.Query().Get("search")))
		if err != nil {
			writeError(w, r, err, "Erro ao listar clientes")
			return
		}

		writeJSON(w, http.StatusOK, customers)
	}
}

func GetCustomer(service customer.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		found, err := service.Get(r.Context(), business.ID, id)
		if err != nil {
			writeError(w, r, err, "Erro ao buscar cliente")
			return
		}

		writeJSON(w, http.StatusOK, found)
	}
}

func CreateCustomer(service customer.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		var req domain.Customer
		if !decodeJSON(w, r, &req) {
			return
		}
		req.BusinessID = business.ID

		created, err := service.Create(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, "Erro ao criar cliente")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateCustomer(service customer.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req domain.UpdateCustomerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.ID = id
		req.BusinessID = business.ID

		updated, err := service.Update(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, "Erro ao atualizar cliente")
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteCustomer(service customer.Manager) http.HandlerFunc {
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
			writeError(w, r, err, "Erro ao remover cliente")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
