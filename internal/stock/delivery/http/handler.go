package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	catalogdomain "github.com/shelfsense/backend/internal/catalog/domain"
	"github.com/shelfsense/backend/internal/middleware"
	"github.com/shelfsense/backend/internal/stock/domain"
	"github.com/shelfsense/backend/pkg/auth"
	"github.com/shelfsense/backend/pkg/logger"
)

// StockHandler handles HTTP requests for shelf stock and sales events
type StockHandler struct {
	stocks   domain.ShelfStockRepository
	sales    domain.SalesEventRepository
	products catalogdomain.ProductRepository
	shelves  catalogdomain.ShelfRepository

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	salesRecorded  prometheus.Counter
}

// NewStockHandler creates a new stock handler
func NewStockHandler(
	stocks domain.ShelfStockRepository,
	sales domain.SalesEventRepository,
	products catalogdomain.ProductRepository,
	shelves catalogdomain.ShelfRepository,
) *StockHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_service_requests_total",
			Help: "Total number of requests to stock service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_service_request_duration_seconds",
			Help:    "Duration of stock service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	salesRecorded := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_service_sales_events_total",
			Help: "Total number of recorded sales events",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(salesRecorded)

	return &StockHandler{
		stocks:         stocks,
		sales:          sales,
		products:       products,
		shelves:        shelves,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		salesRecorded:  salesRecorded,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *StockHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// AssignProduct handles POST /api/stock
func (h *StockHandler) AssignProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint `json:"product_id"`
		ShelfID   uint `json:"shelf_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.ProductID == 0 || req.ShelfID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "product_id and shelf_id are required"})
		return
	}
	if req.Quantity < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Quantity cannot be negative"})
		return
	}

	product, err := h.products.FindByID(req.ProductID)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Product not found"})
		return
	}
	shelf, err := h.shelves.FindByID(req.ShelfID)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Shelf not found"})
		return
	}

	// Shelves only accept products from their own category.
	if product.CategoryID != shelf.CategoryID {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Product category does not match shelf category",
		})
		return
	}

	if req.Quantity > shelf.Capacity {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Quantity exceeds shelf capacity"})
		return
	}

	stock := &domain.ShelfStock{
		ProductID: req.ProductID,
		ShelfID:   req.ShelfID,
		Quantity:  req.Quantity,
	}
	if err := h.stocks.Create(stock); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: "Product is already assigned to this shelf"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to assign product")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Product assigned to shelf", Data: stock})
}

// ListStock handles GET /api/stock
func (h *StockHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	stocks, err := h.stocks.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list shelf stock")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list shelf stock"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: stocks})
}

// UpdateQuantity handles PATCH /api/stock/{id}/quantity
func (h *StockHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Quantity < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Quantity cannot be negative"})
		return
	}

	stock, err := h.stocks.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Shelf stock")
		return
	}

	stock.Quantity = req.Quantity
	if err := h.stocks.Update(stock); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update quantity")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update quantity"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Quantity updated", Data: stock})
}

// RemoveStock handles DELETE /api/stock/{id}
func (h *StockHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.stocks.Delete(id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to remove shelf stock")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to remove shelf stock"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Shelf stock removed"})
}

// RecordSale handles POST /api/sales
func (h *StockHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint       `json:"product_id"`
		StoreID   uint       `json:"store_id"`
		Quantity  int        `json:"quantity"`
		SoldAt    *time.Time `json:"sold_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.ProductID == 0 || req.StoreID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "product_id and store_id are required"})
		return
	}
	if req.Quantity < 1 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Quantity must be at least 1"})
		return
	}

	if _, err := h.products.FindByID(req.ProductID); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Product not found"})
		return
	}

	soldAt := time.Now()
	if req.SoldAt != nil {
		soldAt = *req.SoldAt
	}

	event := &domain.SalesEvent{
		ProductID: req.ProductID,
		StoreID:   req.StoreID,
		Quantity:  req.Quantity,
		SoldAt:    soldAt,
	}
	if err := h.sales.Create(event); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to record sale")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	h.salesRecorded.Inc()

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Sale recorded", Data: event})
}

// ListSales handles GET /api/sales
func (h *StockHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	var since time.Time
	if days, _ := strconv.Atoi(r.URL.Query().Get("days")); days > 0 {
		since = time.Now().AddDate(0, 0, -days)
	}

	events, err := h.sales.FindSince(since, limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list sales")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list sales"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: events})
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	manager := middleware.RequireRole(auth.RoleManager)
	staff := middleware.RequireRole(auth.RoleStaff, auth.RoleManager)

	router.HandleFunc("/api/stock", h.metricsMiddleware("/api/stock", middleware.AuthMiddleware(h.ListStock))).Methods("GET")
	router.HandleFunc("/api/stock", h.metricsMiddleware("/api/stock", manager(h.AssignProduct))).Methods("POST")
	router.HandleFunc("/api/stock/{id}/quantity", h.metricsMiddleware("/api/stock/quantity", staff(h.UpdateQuantity))).Methods("PATCH")
	router.HandleFunc("/api/stock/{id}", h.metricsMiddleware("/api/stock/id", manager(h.RemoveStock))).Methods("DELETE")

	router.HandleFunc("/api/sales", h.metricsMiddleware("/api/sales", staff(h.RecordSale))).Methods("POST")
	router.HandleFunc("/api/sales", h.metricsMiddleware("/api/sales", middleware.AuthMiddleware(h.ListSales))).Methods("GET")
}

func respondNotFoundOrError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: entity + " not found"})
		return
	}
	logger.Error(r.Context()).Err(err).Msg("Lookup failed")
	respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Lookup failed"})
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
	if limit == 0 {
		limit = 10
	}
	return limit, offset
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
