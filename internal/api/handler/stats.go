package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vfg2006/business-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
)

// Dashboard devolve estatísticas e gráficos do negócio. year padrão: ano corrente.
func Dashboard(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		year, ok := yearFromQuery(w, r)
		if !ok {
			return
		}

		dashboard, err := service.Dashboard(r.Context(), business.ID, year)
		if err != nil {
			writeError(w, r, err, "Erro ao carregar estatísticas")
			return
		}

		writeJSON(w, http.StatusOK, dashboard)
	}
}

func SalesByMonth(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		year, ok := yearFromQuery(w, r)
		if !ok {
			return
		}

		points, err := service.SalesByMonth(r.Context(), business.ID, year)
		if err != nil {
			writeError(w, r, err, "Erro ao carregar vendas por mês")
			return
		}

		writeJSON(w, http.StatusOK, points)
	}
}

func SalesByCategory(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		points, err := service.SalesByCategory(r.Context(), business.ID)
		if err != nil {
			writeError(w, r, err, "Erro ao carregar vendas por categoria")
			return
		}

		writeJSON(w, http.StatusOK, points)
	}
}

func SalesByProduct(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		points, err := service.SalesByProduct(r.Context(), business.ID)
		if err != nil {
			writeError(w, r, err, "Erro ao carregar vendas por produto")
			return
		}

		writeJSON(w, http.StatusOK, points)
	}
}

// SalesReport gera o PDF de vendas entre start e end (YYYY-MM-DD)
func SalesReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		business, ok := currentBusiness(w, r)
		if !ok {
			return
		}

		start, err := queryDate(r, "start")
		if err != nil || start == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro start inválido (YYYY-MM-DD)", nil)
			return
		}

		end, err := queryDate(r, "end")
		if err != nil || end == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro end inválido (YYYY-MM-DD)", nil)
			return
		}

		content, err := service.SalesReportPDF(r.Context(), business, *start, *end)
		if err != nil {
			writeError(w, r, err, "Erro ao gerar relatório")
			return
		}

		filename := fmt.Sprintf("vendas-%s-%s.pdf", start.Format(time.DateOnly), end.Format(time.DateOnly))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

func yearFromQuery(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := queryInt(r, "year")
	if err != nil || (year != nil && (*year < 1900 || *year > 9999)) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Ano inválido", nil)
		return 0, false
	}
	if year == nil {
		return time.Now().Year(), true
	}
	return *year, true
}

// AdminStats devolve os números da plataforma inteira (admin)
func AdminStats(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.AdminStats(r.Context())
		if err != nil {
			writeError(w, r, err, "Erro ao carregar estatísticas")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
