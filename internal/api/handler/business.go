package handler

import (
	"net/http"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/business"
)

func ListBusinesses(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		businesses, err := service.List(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, err, "Erro ao listar negócios")
			return
		}

		writeJSON(w, http.StatusOK, businesses)
	}
}

func GetBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		found, err := service.Get(r.Context(), claims.UserID, id)
		if err != nil {
			writeError(w, r, err, "Erro ao buscar negócio")
			return
		}

		writeJSON(w, http.StatusOK, found)
	}
}

func CreateBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		var req domain.Business
		if !decodeJSON(w, r, &req) {
			return
		}

		created, err := service.Create(r.Context(), claims.UserID, &req)
		if err != nil {
			writeError(w, r, err, "Erro ao criar negócio")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req domain.UpdateBusinessRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.ID = id

		updated, err := service.Update(r.Context(), claims.UserID, &req)
		if err != nil {
			writeError(w, r, err, "Erro ao atualizar negócio")
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := service.Delete(r.Context(), claims.UserID, id); err != nil {
			writeError(w, r, err, "Erro ao remover negócio")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SwitchBusiness torna o negócio o padrão do usuário
func SwitchBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		selected, err := service.Switch(r.Context(), claims.UserID, id)
		if err != nil {
			writeError(w, r, err, "Erro ao trocar de negócio")
			return
		}

		writeJSON(w, http.StatusOK, selected)
	}
}
