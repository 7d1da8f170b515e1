package handler

import (
	"net/http"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/notifying"
	"github.com/vfg2006/business-manager-api/pkg/middleware"
)

type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Message string `json:"message"`
}

func SubmitFeedback(service notifying.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		var req FeedbackRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		feedback := &domain.Feedback{
			UserID:  claims.UserID,
			Rating:  req.Rating,
			Message: req.Message,
		}

		// O negócio é opcional; vem do header quando o cliente tem um selecionado
		if business, ok := middleware.GetBusiness(r.Context()); ok {
			feedback.BusinessID = &business.ID
		}

		created, err := service.SubmitFeedback(r.Context(), feedback)
		if err != nil {
			writeError(w, r, err, "Erro ao enviar feedback")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func ListFeedback(service notifying.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedback, err := service.ListFeedback(r.Context())
		if err != nil {
			writeError(w, r, err, "Erro ao listar feedbacks")
			return
		}

		writeJSON(w, http.StatusOK, feedback)
	}
}

// ListNotifications aceita unread=true para trazer só as não lidas
func ListNotifications(service notifying.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		notifications, err := service.List(r.Context(), claims.UserID, r.URL.Query().Get("unread") == "true")
		if err != nil {
			writeError(w, r, err, "Erro ao listar notificações")
			return
		}

		writeJSON(w, http.StatusOK, notifications)
	}
}

func MarkNotificationRead(service notifying.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := service.MarkRead(r.Context(), claims.UserID, id); err != nil {
			writeError(w, r, err, "Erro ao marcar notificação")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func MarkAllNotificationsRead(service notifying.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		updated, err := service.MarkAllRead(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, err, "Erro ao marcar notificações")
			return
		}

		writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
	}
}
