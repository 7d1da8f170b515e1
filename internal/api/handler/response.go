package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"github.com/vfg2006/business-manager-api/pkg/log"
	"github.com/vfg2006/business-manager-api/pkg/middleware"
	"github.com/vfg2006/business-manager-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Tamanho máximo aceito para o corpo das importações CSV
const maxImportSize = 5 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeError usa o código do erro do caso de uso quando existir, senão SRV_001 com a mensagem informada
func writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var coded apiErrors.Coded
	if errors.As(err, &coded) {
		status := apiErrors.StatusFor(coded.APICode())
		logger := log.ForContext(r.Context()).WithError(err)
		if status >= http.StatusInternalServerError {
			logger.Error(message)
		} else {
			logger.Debug(message)
		}
		apiErrors.WriteError(w, coded.APICode(), coded.Error(), nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error(message)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, message, nil)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		log.ForContext(r.Context()).WithError(err).Debug("Corpo da requisição inválido")
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
		return false
	}
	return true
}

// readBody recusa corpos acima de maxImportSize em vez de importar um arquivo cortado
func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge,
				fmt.Sprintf("Arquivo maior que o limite de %d MB", maxImportSize>>20), nil)
			return "", false
		}
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao ler o arquivo", nil)
		return "", false
	}
	return string(body), true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName(name)
	if raw == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID não fornecido", nil)
		return 0, false
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID inválido", nil)
		return 0, false
	}
	return id, true
}

func currentClaims(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}
	return claims, true
}

func currentBusiness(w http.ResponseWriter, r *http.Request) (*domain.Business, bool) {
	business, ok := middleware.GetBusiness(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrNoBusiness, "Nenhum negócio selecionado", nil)
		return nil, false
	}
	return business, true
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	return utils.ParseDate(raw)
}

func writeCSV(w http.ResponseWriter, filename, content string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, content); err != nil {
		log.L.WithError(err).Error("Erro ao enviar CSV")
	}
}
