package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/platform/metrics"
)

// NewRouter は HTTP 境界層のルーターを構築します。
func NewRouter(h *EmployeeHandler, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(h.logger))
	r.Use(recoverer(h.logger, h.clock))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, nil, h.clock.Now(), &employee.Error{
			Kind:    employee.KindNotFound,
			Label:   employee.LabelNotFound,
			Message: "No existe el recurso solicitado: " + r.URL.Path,
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Error:     employee.LabelInvalidArgument,
			Message:   "Método no permitido: " + r.Method,
			Timestamp: h.clock.Now().Format(timestampLayout),
			Status:    http.StatusMethodNotAllowed,
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Mount("/api/employees", h.Routes())

	return r
}
