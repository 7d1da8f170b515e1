package handler

import (
	"net/http"
	"strings"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
)

func ListCategories(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		categories, err := service.ListCategories(r.Context(), business.ID)
		if err != nil {
			writeError(w, r, err, "Erro ao listar categorias")
			return
		}

		writeJSON(w, http.StatusOK, categories)
	}
}

func GetCategory(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		category, err := service.GetCategory(r.Context(), business.ID, id)
		if err != nil {
			writeError(w, r, err, "Erro ao buscar categoria")
			return
		}

		writeJSON(w, http.StatusOK, category)
	}
}

func CreateCategory(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		var category domain.Category
		if !decodeJSON(w, r, &category) {
			return
		}
		category.BusinessID = business.ID

		created, err := service.CreateCategory(r.Context(), &category)
		if err != nil {
			writeError(w, r, err, "Erro ao criar categoria")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateCategory(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var category domain.Category
		if !decodeJSON(w, r, &category) {
			return
		}
		category.ID = id
		category.BusinessID = business.ID

		updated, err := service.UpdateCategory(r.Context(), &category)
		if err != nil {
			writeError(w, r, err, "Erro ao atualizar categoria")
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteCategory(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := service.DeleteCategory(r.Context(), business.ID, id); err != nil {
			writeError(w, r, err, "Erro ao remover categoria")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListProducts aceita os filtros category_id, search e low_stock=true
func ListProducts(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		categoryID, err := queryInt(r, "category_id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "category_id inválido", nil)
			return
		}

		filters := domain.ProductFilters{
			BusinessID: business.ID,
			CategoryID: categoryID,
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			LowStock:   r.URL.Query().Get("low_stock") == "true",
		}

		products, err := service.ListProducts(r.Context(), filters)
		if err != nil {
			writeError(w, r, err, "Erro ao listar produtos")
			return
		}

		writeJSON(w, http.StatusOK, products)
	}
}

func GetProduct(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		product, err := service.GetProduct(r.Context(), business.ID, id)
		if err != nil {
			writeError(w, r, err, "Erro ao buscar produto")
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}

func CreateProduct(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		var product domain.Product
		if !decodeJSON(w, r, &product) {
			return
		}
		product.BusinessID = business.ID

		created, err := service.CreateProduct(r.Context(), &product)
		if err != nil {
			writeError(w, r, err, "Erro ao criar produto")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateProduct(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req domain.UpdateProductRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.ID = id
		req.BusinessID = business.ID

		updated, err := service.UpdateProduct(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, "Erro ao atualizar produto")
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteProduct(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := service.DeleteProduct(r.Context(), business.ID, id); err != nil {
			writeError(w, r, err, "Erro ao remover produto")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
