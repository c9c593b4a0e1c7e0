package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shelfsense/backend/internal/middleware"
	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/internal/replenishment/usecase/command"
	"github.com/shelfsense/backend/internal/replenishment/usecase/query"
	"github.com/shelfsense/backend/pkg/auth"
	"github.com/shelfsense/backend/pkg/cache"
	"github.com/shelfsense/backend/pkg/logger"
)

// ReplenishmentHandler handles HTTP requests for the replenishment pipeline
type ReplenishmentHandler struct {
	// Command handlers
	triggerHandler       *command.TriggerReplenishmentHandler
	predictHandler       *command.PredictDepletionHandler
	inTransitHandler     *command.MarkInTransitHandler
	deliveredHandler     *command.MarkDeliveredHandler
	cancelledHandler     *command.MarkCancelledHandler
	completeTaskHandler  *command.CompleteTaskHandler
	createAlertHandler   *command.CreateAlertHandler
	deleteAlertHandler   *command.DeleteAlertHandler
	createRequestHandler *command.CreateRequestHandler
	createTaskHandler    *command.CreateTaskHandler

	// Query handlers
	listAlertsHandler    *query.ListAlertsHandler
	getAlertHandler      *query.GetAlertHandler
	closedAlertsHandler  *query.ListClosedAlertsHandler
	pendingHandler       *query.PendingRequestsHandler
	listRequestsHandler  *query.ListRequestsHandler
	getRequestHandler    *query.GetRequestHandler
	listTasksHandler     *query.ListTasksHandler
	getTaskHandler       *query.GetTaskHandler
	summaryHandler       *query.InventorySummaryHandler
	frequencyHandler     *query.RestockFrequencyHandler
	utilizationHandler   *query.LowUtilizationHandler
	listReportsHandler   *query.ListReportsHandler
	deliveredArchHandler *query.ListDeliveredRequestsHandler
	cancelledArchHandler *query.ListCancelledRequestsHandler

	store domain.Store
	cache *cache.Cache

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	openAlerts     prometheus.Gauge
}

// NewReplenishmentHandler creates a new replenishment handler
func NewReplenishmentHandler(store domain.Store, publisher domain.EventPublisher, c *cache.Cache, policy domain.Policy) *ReplenishmentHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replenishment_service_requests_total",
			Help: "Total number of requests to replenishment service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "replenishment_service_request_duration_seconds",
			Help:    "Duration of replenishment service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	openAlerts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "replenishment_service_open_alerts",
			Help: "Number of currently open replenishment alerts",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(openAlerts)

	return &ReplenishmentHandler{
		triggerHandler:       command.NewTriggerReplenishmentHandler(store, publisher, policy),
		predictHandler:       command.NewPredictDepletionHandler(store, publisher, policy),
		inTransitHandler:     command.NewMarkInTransitHandler(store, policy),
		deliveredHandler:     command.NewMarkDeliveredHandler(store, publisher),
		cancelledHandler:     command.NewMarkCancelledHandler(store, publisher),
		completeTaskHandler:  command.NewCompleteTaskHandler(store),
		createAlertHandler:   command.NewCreateAlertHandler(store, publisher),
		deleteAlertHandler:   command.NewDeleteAlertHandler(store),
		createRequestHandler: command.NewCreateRequestHandler(store),
		createTaskHandler:    command.NewCreateTaskHandler(store),
		listAlertsHandler:    query.NewListAlertsHandler(store),
		getAlertHandler:      query.NewGetAlertHandler(store),
		closedAlertsHandler:  query.NewListClosedAlertsHandler(store),
		pendingHandler:       query.NewPendingRequestsHandler(store),
		listRequestsHandler:  query.NewListRequestsHandler(store),
		getRequestHandler:    query.NewGetRequestHandler(store),
		listTasksHandler:     query.NewListTasksHandler(store),
		getTaskHandler:       query.NewGetTaskHandler(store),
		summaryHandler:       query.NewInventorySummaryHandler(store, c),
		frequencyHandler:     query.NewRestockFrequencyHandler(store, c),
		utilizationHandler:   query.NewLowUtilizationHandler(store, c),
		listReportsHandler:   query.NewListReportsHandler(store),
		deliveredArchHandler: query.NewListDeliveredRequestsHandler(store),
		cancelledArchHandler: query.NewListCancelledRequestsHandler(store),
		store:                store,
		cache:                c,
		requestCounter:       requestCounter,
		requestLatency:       requestLatency,
		openAlerts:           openAlerts,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ReplenishmentHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Predict handles POST /api/replenishment/predict
func (h *ReplenishmentHandler) Predict(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.predictHandler.Handle(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to run prediction sweep")
		return
	}

	h.refreshOpenAlerts(r)
	h.invalidateProjections(r)

	respondJSON(w, http.StatusOK, Response{Success: true, Data: predictions})
}

// TriggerAll handles POST /api/replenishment/trigger-all
func (h *ReplenishmentHandler) TriggerAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.triggerHandler.Handle(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to run replenishment")
		return
	}

	h.refreshOpenAlerts(r)
	h.invalidateProjections(r)

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// PendingRequests handles GET /api/warehouse/pending-requests
func (h *ReplenishmentHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.pendingHandler.Handle(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to list pending requests")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: requests})
}

// Dispatch handles PUT /api/warehouse/requests/{id}/dispatch
func (h *ReplenishmentHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		ETA *time.Time `json:"eta"`
	}
	if r.Body != nil {
		// body is optional; a missing ETA falls back to the policy default
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	request, err := h.inTransitHandler.Handle(r.Context(), command.MarkInTransitCommand{RequestID: id, ETA: req.ETA})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to dispatch request")
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Request dispatched", Data: request})
}

// Deliver handles PUT /api/warehouse/requests/{id}/deliver
func (h *ReplenishmentHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	archived, err := h.deliveredHandler.Handle(r.Context(), command.MarkDeliveredCommand{RequestID: id})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to deliver request")
		return
	}

	h.refreshOpenAlerts(r)
	h.invalidateProjections(r)

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Request delivered", Data: archived})
}

// Cancel handles PUT /api/warehouse/requests/{id}/cancel
func (h *ReplenishmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	archived, err := h.cancelledHandler.Handle(r.Context(), command.MarkCancelledCommand{RequestID: id, Reason: req.Reason})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to cancel request")
		return
	}

	h.invalidateProjections(r)

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Request cancelled", Data: archived})
}

// CompleteTask handles PUT /api/replenishment/tasks/{id}/complete
func (h *ReplenishmentHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		QuantityRestocked int `json:"quantity_restocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	task, err := h.completeTaskHandler.Handle(r.Context(), command.CompleteTaskCommand{
		TaskID:            id,
		QuantityRestocked: req.QuantityRestocked,
	})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to complete task")
		return
	}

	h.invalidateProjections(r)

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Task completed", Data: task})
}

// ListAlerts handles GET /api/replenishment/alerts
func (h *ReplenishmentHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	alerts, err := h.listAlertsHandler.Handle(r.Context(), query.ListAlertsQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to list alerts")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: alerts})
}

// GetAlert handles GET /api/replenishment/alerts/{id}
func (h *ReplenishmentHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	alert, err := h.getAlertHandler.Handle(r.Context(), query.GetAlertQuery{AlertID: id})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to get alert")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: alert})
}

// CreateAlert handles POST /api/replenishment/alerts
func (h *ReplenishmentHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID              uint       `json:"product_id"`
		ShelfID                uint       `json:"shelf_id"`
		Urgency                string     `json:"urgency"`
		PredictedDepletionDate *time.Time `json:"predicted_depletion_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	alert, err := h.createAlertHandler.Handle(r.Context(), command.CreateAlertCommand{
		ProductID:              req.ProductID,
		ShelfID:                req.ShelfID,
		Urgency:                req.Urgency,
		PredictedDepletionDate: req.PredictedDepletionDate,
	})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to create alert")
		return
	}

	h.refreshOpenAlerts(r)
	h.invalidateProjections(r)

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Alert created", Data: alert})
}

// DeleteAlert handles DELETE /api/replenishment/alerts/{id}
func (h *ReplenishmentHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	confirmed := r.Header.Get("X-Confirm-Delete") == "true"
	err := h.deleteAlertHandler.Handle(r.Context(), command.DeleteAlertCommand{AlertID: id, Confirmed: confirmed})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to delete alert")
		return
	}

	h.refreshOpenAlerts(r)
	h.invalidateProjections(r)

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Alert deleted"})
}

// ListClosedAlerts handles GET /api/replenishment/closed-alerts
func (h *ReplenishmentHandler) ListClosedAlerts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	closed, err := h.closedAlertsHandler.Handle(r.Context(), query.ListClosedAlertsQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to list closed alerts")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: closed})
}

// Summary handles GET /api/replenishment/summary
func (h *ReplenishmentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.summaryHandler.Handle(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to build summary")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// RestockFrequency handles GET /api/replenishment/restock-frequency
func (h *ReplenishmentHandler) RestockFrequency(w http.ResponseWriter, r *http.Request) {
	rows, err := h.frequencyHandler.Handle(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to compute restock frequency")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// LowUtilization handles GET /api/replenishment/low-utilization-with-sales
func (h *ReplenishmentHandler) LowUtilization(w http.ResponseWriter, r *http.Request) {
	rows, err := h.utilizationHandler.Handle(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to build utilization report")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// ListTasks handles GET /api/replenishment/tasks
func (h *ReplenishmentHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	tasks, err := h.listTasksHandler.Handle(r.Context(), query.ListTasksQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to list tasks")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: tasks})
}

// GetTask handles GET /api/replenishment/tasks/{id}
func (h *ReplenishmentHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := h.getTaskHandler.Handle(r.Context(), query.GetTaskQuery{TaskID: id})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to get task")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: task})
}

// CreateTask handles POST /api/replenishment/tasks
func (h *ReplenishmentHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AlertID    uint `json:"alert_id"`
		AssignedTo uint `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	task, err := h.createTaskHandler.Handle(r.Context(), command.CreateTaskCommand{
		AlertID:    req.AlertID,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to create task")
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Task created", Data: task})
}

// ListRequests handles GET /api/replenishment/requests
func (h *ReplenishmentHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	requests, err := h.listRequestsHandler.Handle(r.Context(), query.ListRequestsQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to list requests")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: requests})
}

// GetRequest handles GET /api/replenishment/requests/{id}
func (h *ReplenishmentHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	request, err := h.getRequestHandler.Handle(r.Context(), query.GetRequestQuery{RequestID: id})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to get request")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: request})
}

// CreateRequest handles POST /api/replenishment/requests
func (h *ReplenishmentHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint `json:"product_id"`
		StoreID   uint `json:"store_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	request, err := h.createRequestHandler.Handle(r.Context(), command.CreateRequestCommand{
		ProductID: req.ProductID,
		StoreID:   req.StoreID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to create request")
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Request created", Data: request})
}

// ListReports handles GET /api/replenishment/reports
func (h *ReplenishmentHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	reports, err := h.listReportsHandler.Handle(r.Context(), query.ListReportsQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to list reports")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: reports})
}

// ListDeliveredArchive handles GET /api/replenishment/archive/delivered
func (h *ReplenishmentHandler) ListDeliveredArchive(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	archived, err := h.deliveredArchHandler.Handle(r.Context(), query.ListDeliveredRequestsQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to list delivered archive")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: archived})
}

// ListCancelledArchive handles GET /api/replenishment/archive/cancelled
func (h *ReplenishmentHandler) ListCancelledArchive(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	archived, err := h.cancelledArchHandler.Handle(r.Context(), query.ListCancelledRequestsQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondDomainError(w, r, err, "Failed to list cancelled archive")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: archived})
}

// RegisterRoutes registers all replenishment routes
func (h *ReplenishmentHandler) RegisterRoutes(router *mux.Router) {
	manager := middleware.RequireRole(auth.RoleManager)
	warehouse := middleware.RequireRole(auth.RoleWarehouse)
	staff := middleware.RequireRole(auth.RoleStaff, auth.RoleManager)

	router.HandleFunc("/api/replenishment/predict", h.metricsMiddleware("/api/replenishment/predict", manager(h.Predict))).Methods("POST")
	router.HandleFunc("/api/replenishment/trigger-all", h.metricsMiddleware("/api/replenishment/trigger-all", manager(h.TriggerAll))).Methods("POST")

	router.HandleFunc("/api/warehouse/pending-requests", h.metricsMiddleware("/api/warehouse/pending-requests", warehouse(h.PendingRequests))).Methods("GET")
	router.HandleFunc("/api/warehouse/requests/{id}/dispatch", h.metricsMiddleware("/api/warehouse/requests/dispatch", warehouse(h.Dispatch))).Methods("PUT")
	router.HandleFunc("/api/warehouse/requests/{id}/deliver", h.metricsMiddleware("/api/warehouse/requests/deliver", warehouse(h.Deliver))).Methods("PUT")
	router.HandleFunc("/api/warehouse/requests/{id}/cancel", h.metricsMiddleware("/api/warehouse/requests/cancel", warehouse(h.Cancel))).Methods("PUT")

	router.HandleFunc("/api/replenishment/alerts", h.metricsMiddleware("/api/replenishment/alerts", middleware.AuthMiddleware(h.ListAlerts))).Methods("GET")
	router.HandleFunc("/api/replenishment/alerts", h.metricsMiddleware("/api/replenishment/alerts", manager(h.CreateAlert))).Methods("POST")
	router.HandleFunc("/api/replenishment/alerts/{id}", h.metricsMiddleware("/api/replenishment/alerts/id", middleware.AuthMiddleware(h.GetAlert))).Methods("GET")
	router.HandleFunc("/api/replenishment/alerts/{id}", h.metricsMiddleware("/api/replenishment/alerts/id", manager(h.DeleteAlert))).Methods("DELETE")
	router.HandleFunc("/api/replenishment/closed-alerts", h.metricsMiddleware("/api/replenishment/closed-alerts", middleware.AuthMiddleware(h.ListClosedAlerts))).Methods("GET")

	router.HandleFunc("/api/replenishment/summary", h.metricsMiddleware("/api/replenishment/summary", middleware.AuthMiddleware(h.Summary))).Methods("GET")
	router.HandleFunc("/api/replenishment/restock-frequency", h.metricsMiddleware("/api/replenishment/restock-frequency", manager(h.RestockFrequency))).Methods("GET")
	router.HandleFunc("/api/replenishment/low-utilization-with-sales", h.metricsMiddleware("/api/replenishment/low-utilization-with-sales", manager(h.LowUtilization))).Methods("GET")
	router.HandleFunc("/api/replenishment/reports", h.metricsMiddleware("/api/replenishment/reports", middleware.AuthMiddleware(h.ListReports))).Methods("GET")

	router.HandleFunc("/api/replenishment/tasks", h.metricsMiddleware("/api/replenishment/tasks", middleware.AuthMiddleware(h.ListTasks))).Methods("GET")
	router.HandleFunc("/api/replenishment/tasks", h.metricsMiddleware("/api/replenishment/tasks", manager(h.CreateTask))).Methods("POST")
	router.HandleFunc("/api/replenishment/tasks/{id}", h.metricsMiddleware("/api/replenishment/tasks/id", middleware.AuthMiddleware(h.GetTask))).Methods("GET")
	router.HandleFunc("/api/replenishment/tasks/{id}/complete", h.metricsMiddleware("/api/replenishment/tasks/complete", staff(h.CompleteTask))).Methods("PUT")

	router.HandleFunc("/api/replenishment/requests", h.metricsMiddleware("/api/replenishment/requests", middleware.AuthMiddleware(h.ListRequests))).Methods("GET")
	router.HandleFunc("/api/replenishment/requests", h.metricsMiddleware("/api/replenishment/requests", manager(h.CreateRequest))).Methods("POST")
	router.HandleFunc("/api/replenishment/requests/{id}", h.metricsMiddleware("/api/replenishment/requests/id", middleware.AuthMiddleware(h.GetRequest))).Methods("GET")
	router.HandleFunc("/api/replenishment/archive/delivered", h.metricsMiddleware("/api/replenishment/archive/delivered", middleware.AuthMiddleware(h.ListDeliveredArchive))).Methods("GET")
	router.HandleFunc("/api/replenishment/archive/cancelled", h.metricsMiddleware("/api/replenishment/archive/cancelled", middleware.AuthMiddleware(h.ListCancelledArchive))).Methods("GET")
}

// respondDomainError maps domain error kinds to HTTP statuses
func (h *ReplenishmentHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case domain.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case domain.IsNotFound(err):
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case domain.IsConflict(err):
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
	case domain.IsPrecondition(err):
		respondJSON(w, http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	default:
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg(fallback)
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}

// refreshOpenAlerts updates the open-alert gauge after a mutation
func (h *ReplenishmentHandler) refreshOpenAlerts(r *http.Request) {
	if count, err := h.store.Alerts().CountOpen(r.Context()); err == nil {
		h.openAlerts.Set(float64(count))
	}
}

// invalidateProjections drops the cached dashboard projections
func (h *ReplenishmentHandler) invalidateProjections(r *http.Request) {
	h.cache.Invalidate(r.Context(), "replenishment:summary", "replenishment:frequency", "replenishment:utilization")
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

func pageParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
