package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"github.com/vfg2006/business-manager-api/pkg/log"
	"github.com/vfg2006/business-manager-api/pkg/middleware"
)

// SessionCookie define como o token de sessão vai para o navegador
type SessionCookie struct {
	Name   string
	Secure bool
}

func (c SessionCookie) name() string {
	if c.Name == "" {
		return middleware.DefaultSessionCookie
	}
	return c.Name
}

func (c SessionCookie) write(w http.ResponseWriter, value string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func Register(service authenticating.Authenticator, cookie SessionCookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := service.Register(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, "Erro ao cadastrar usuário")
			return
		}

		// Cadastro já deixa o usuário logado
		result, err := service.Login(r.Context(), req.Email, req.Password, r.UserAgent())
		if err != nil {
			writeError(w, r, err, "Erro ao iniciar sessão")
			return
		}

		cookie.write(w, result.Token, result.ExpiresAt)
		writeJSON(w, http.StatusCreated, user)
	}
}

func Login(service authenticating.Authenticator, cookie SessionCookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if req.Email == "" || req.Password == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios", nil)
			return
		}

		result, err := service.Login(r.Context(), req.Email, req.Password, r.UserAgent())
		if err != nil {
			writeError(w, r, err, "Erro interno ao realizar login")
			return
		}

		cookie.write(w, result.Token, result.ExpiresAt)
		writeJSON(w, http.StatusOK, result)
	}
}

func Logout(service authenticating.Authenticator, cookie SessionCookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		if err := service.Logout(r.Context(), claims.SessionID); err != nil {
			// O cookie é removido mesmo se a sessão já não existir
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao remover sessão")
		}

		cookie.clear(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Sessão encerrada"})
	}
}

// GetMe devolve o usuário da sessão; é a verificação de identidade usada pelo cliente
func GetMe(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		user, err := service.GetUserProfile(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, err, "Erro ao obter dados do usuário")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func UpdateMe(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		var req domain.UpdateUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.ID = claims.UserID

		user, err := service.UpdateProfile(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, "Erro ao atualizar usuário")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func ChangePassword(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(w, r)
		if !ok {
			return
		}

		var req ChangePasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if req.CurrentPassword == "" || req.NewPassword == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Senha atual e nova senha são obrigatórias", nil)
			return
		}

		if err := service.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			writeError(w, r, err, "Erro ao alterar senha")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Senha alterada com sucesso"})
	}
}

// ListUsers lista todos os usuários (admin)
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.ListUsers(r.Context())
		if err != nil {
			writeError(w, r, err, "Erro ao buscar usuários")
			return
		}

		writeJSON(w, http.StatusOK, users)
	}
}
