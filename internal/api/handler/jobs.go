package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/business-manager-api/internal/scheduler"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
)

// JobTypeAll dispara todas as rotinas de uma vez
const JobTypeAll = "all"

// Jobs indexa as rotinas agendadas pelo nome usado na URL
type Jobs map[string]scheduler.Job

func (j Jobs) names() []string {
	names := make([]string, 0, len(j))
	for name := range j {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunJob executa manualmente uma rotina agendada (admin)
func RunJob(jobs Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if jobType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de rotina não especificado", nil)
			return
		}

		started := make(map[string]bool)

		if jobType == JobTypeAll {
			for name, job := range jobs {
				started[name] = job.TriggerManualSync()
			}
		} else {
			job, exists := jobs[jobType]
			if !exists {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
					"Tipo de rotina inválido. Valores aceitos: "+strings.Join(append(jobs.names(), JobTypeAll), ", "), nil)
				return
			}
			started[jobType] = job.TriggerManualSync()
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Execução solicitada",
			"type":    jobType,
			"started": started,
		})
	}
}

// GetJobsStatus devolve o estado de todas as rotinas (admin)
func GetJobsStatus(jobs Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, len(jobs))
		for name, job := range jobs {
			status[name] = job.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}
