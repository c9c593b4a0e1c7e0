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

	"github.com/shelfsense/backend/internal/catalog/domain"
	"github.com/shelfsense/backend/internal/middleware"
	"github.com/shelfsense/backend/pkg/auth"
	"github.com/shelfsense/backend/pkg/logger"
)

// CatalogHandler handles HTTP requests for stores, categories, products,
// shelves and staff
type CatalogHandler struct {
	stores     domain.StoreRepository
	categories domain.CategoryRepository
	products   domain.ProductRepository
	shelves    domain.ShelfRepository
	staff      domain.StaffRepository

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	stores domain.StoreRepository,
	categories domain.CategoryRepository,
	products domain.ProductRepository,
	shelves domain.ShelfRepository,
	staff domain.StaffRepository,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_service_requests_total",
			Help: "Total number of requests to catalog service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_service_request_duration_seconds",
			Help:    "Duration of catalog service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CatalogHandler{
		stores:         stores,
		categories:     categories,
		products:       products,
		shelves:        shelves,
		staff:          staff,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
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

func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Stores

// CreateStore handles POST /api/stores
func (h *CatalogHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Name is required"})
		return
	}

	store := &domain.Store{Name: req.Name, Location: req.Location}
	if err := h.stores.Create(store); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create store")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Store created", Data: store})
}

// ListStores handles GET /api/stores
func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	stores, err := h.stores.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list stores")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list stores"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: stores})
}

// GetStore handles GET /api/stores/{id}
func (h *CatalogHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	store, err := h.stores.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Store")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: store})
}

// UpdateStore handles PUT /api/stores/{id}
func (h *CatalogHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	store, err := h.stores.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Store")
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Location *string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Name != nil {
		if *req.Name == "" {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Name cannot be empty"})
			return
		}
		store.Name = *req.Name
	}
	if req.Location != nil {
		store.Location = *req.Location
	}

	if err := h.stores.Update(store); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update store")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update store"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Store updated", Data: store})
}

// DeleteStore handles DELETE /api/stores/{id}
func (h *CatalogHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.stores.Delete(id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to delete store")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to delete store"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Store deleted"})
}

// Categories

// CreateCategory handles POST /api/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Name is required"})
		return
	}

	category := &domain.Category{Name: req.Name}
	if err := h.categories.Create(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: "Category already exists"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to create category")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Category created", Data: category})
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	categories, err := h.categories.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list categories")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list categories"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: categories})
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.categories.Delete(id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to delete category")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to delete category"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Category deleted"})
}

// Products

// CreateProduct handles POST /api/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"name"`
		CategoryID uint    `json:"category_id"`
		Price      float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Name == "" || req.CategoryID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Name and category_id are required"})
		return
	}
	if req.Price < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Price cannot be negative"})
		return
	}

	if _, err := h.categories.FindByID(req.CategoryID); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Category not found"})
		return
	}

	product := &domain.Product{Name: req.Name, CategoryID: req.CategoryID, Price: req.Price}
	if err := h.products.Create(product); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Product created", Data: product})
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	products, err := h.products.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list products"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Product")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Product")
		return
	}

	var req struct {
		Name  *string  `json:"name"`
		Price *float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Price cannot be negative"})
			return
		}
		product.Price = *req.Price
	}

	if err := h.products.Update(product); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update product")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update product"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Product updated", Data: product})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to delete product")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to delete product"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Product deleted"})
}

// Shelves

// CreateShelf handles POST /api/shelves
func (h *CatalogHandler) CreateShelf(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShelfCode           string `json:"shelf_code"`
		StoreID             uint   `json:"store_id"`
		CategoryID          uint   `json:"category_id"`
		LocationDescription string `json:"location_description"`
		Capacity            int    `json:"capacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.ShelfCode == "" || req.StoreID == 0 || req.CategoryID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "shelf_code, store_id and category_id are required"})
		return
	}
	if req.Capacity <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Capacity must be positive"})
		return
	}

	if _, err := h.stores.FindByID(req.StoreID); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Store not found"})
		return
	}
	if _, err := h.categories.FindByID(req.CategoryID); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Category not found"})
		return
	}

	shelf := &domain.Shelf{
		ShelfCode:           req.ShelfCode,
		StoreID:             req.StoreID,
		CategoryID:          req.CategoryID,
		LocationDescription: req.LocationDescription,
		Capacity:            req.Capacity,
	}
	if err := h.shelves.Create(shelf); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: "Shelf code already in use"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to create shelf")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Shelf created", Data: shelf})
}

// ListShelves handles GET /api/shelves
func (h *CatalogHandler) ListShelves(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	shelves, err := h.shelves.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list shelves")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list shelves"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: shelves})
}

// GetShelf handles GET /api/shelves/{id}
func (h *CatalogHandler) GetShelf(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	shelf, err := h.shelves.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Shelf")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: shelf})
}

// UpdateShelf handles PUT /api/shelves/{id}
func (h *CatalogHandler) UpdateShelf(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	shelf, err := h.shelves.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Shelf")
		return
	}

	var req struct {
		ShelfCode           *string `json:"shelf_code"`
		StoreID             *uint   `json:"store_id"`
		LocationDescription *string `json:"location_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.ShelfCode != nil {
		if *req.ShelfCode == "" {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Shelf code cannot be empty"})
			return
		}
		shelf.ShelfCode = *req.ShelfCode
	}
	if req.StoreID != nil {
		if _, err := h.stores.FindByID(*req.StoreID); err != nil {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Store not found"})
			return
		}
		shelf.StoreID = *req.StoreID
	}
	if req.LocationDescription != nil {
		shelf.LocationDescription = *req.LocationDescription
	}

	if err := h.shelves.Update(shelf); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: "Shelf code already in use"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to update shelf")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update shelf"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Shelf updated", Data: shelf})
}

// DeleteShelf handles DELETE /api/shelves/{id}
func (h *CatalogHandler) DeleteShelf(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.shelves.Delete(id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to delete shelf")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to delete shelf"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Shelf deleted"})
}

// Staff

// RegisterStaff handles POST /api/staff/register
func (h *CatalogHandler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID  uint   `json:"store_id"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.StoreID == 0 || req.Name == "" || req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "store_id, name, email and password are required"})
		return
	}

	role := req.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if role != domain.RoleStaff && role != domain.RoleManager && role != domain.RoleWarehouse {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Unknown role"})
		return
	}

	if _, err := h.stores.FindByID(req.StoreID); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Store not found"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to hash password")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to register staff"})
		return
	}

	staff := &domain.Staff{
		StoreID:      req.StoreID,
		Name:         req.Name,
		Role:         role,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.staff.Create(staff); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: "Email already registered"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to create staff")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Staff registered", Data: staff})
}

// Login handles POST /api/staff/login
func (h *CatalogHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Email and password are required"})
		return
	}

	staff, err := h.staff.FindByEmail(req.Email)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Invalid credentials"})
		return
	}
	if !auth.CheckPassword(staff.PasswordHash, req.Password) {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(staff.ID, staff.Email, staff.Role)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to generate token")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to log in"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"token": token,
			"staff": staff,
		},
	})
}

// ListStaff handles GET /api/staff
func (h *CatalogHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	staff, err := h.staff.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list staff")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list staff"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: staff})
}

// GetStaff handles GET /api/staff/{id}
func (h *CatalogHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	staff, err := h.staff.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Staff")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: staff})
}

// UpdateStaff handles PUT /api/staff/{id}
func (h *CatalogHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	staff, err := h.staff.FindByID(id)
	if err != nil {
		respondNotFoundOrError(w, r, err, "Staff")
		return
	}

	var req struct {
		StoreID  *uint   `json:"store_id"`
		Name     *string `json:"name"`
		Role     *string `json:"role"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.StoreID != nil {
		if _, err := h.stores.FindByID(*req.StoreID); err != nil {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Store not found"})
			return
		}
		staff.StoreID = *req.StoreID
	}
	if req.Name != nil {
		if *req.Name == "" {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Name cannot be empty"})
			return
		}
		staff.Name = *req.Name
	}
	if req.Role != nil {
		if *req.Role != domain.RoleStaff && *req.Role != domain.RoleManager && *req.Role != domain.RoleWarehouse {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Unknown role"})
			return
		}
		staff.Role = *req.Role
	}
	if req.Email != nil {
		if *req.Email == "" {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Email cannot be empty"})
			return
		}
		staff.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			logger.Error(r.Context()).Err(err).Msg("Failed to hash password")
			respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update staff"})
			return
		}
		staff.PasswordHash = hash
	}

	if err := h.staff.Update(staff); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: "Email already registered"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to update staff")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update staff"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Staff updated", Data: staff})
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	manager := middleware.RequireRole(auth.RoleManager)

	router.HandleFunc("/api/staff/register", h.metricsMiddleware("/api/staff/register", h.RegisterStaff)).Methods("POST")
	router.HandleFunc("/api/staff/login", h.metricsMiddleware("/api/staff/login", h.Login)).Methods("POST")
	router.HandleFunc("/api/staff", h.metricsMiddleware("/api/staff", manager(h.ListStaff))).Methods("GET")
	router.HandleFunc("/api/staff/{id}", h.metricsMiddleware("/api/staff/id", manager(h.GetStaff))).Methods("GET")
	router.HandleFunc("/api/staff/{id}", h.metricsMiddleware("/api/staff/id", manager(h.UpdateStaff))).Methods("PUT")

	router.HandleFunc("/api/stores", h.metricsMiddleware("/api/stores", middleware.AuthMiddleware(h.ListStores))).Methods("GET")
	router.HandleFunc("/api/stores", h.metricsMiddleware("/api/stores", manager(h.CreateStore))).Methods("POST")
	router.HandleFunc("/api/stores/{id}", h.metricsMiddleware("/api/stores/id", middleware.AuthMiddleware(h.GetStore))).Methods("GET")
	router.HandleFunc("/api/stores/{id}", h.metricsMiddleware("/api/stores/id", manager(h.UpdateStore))).Methods("PUT")
	router.HandleFunc("/api/stores/{id}", h.metricsMiddleware("/api/stores/id", manager(h.DeleteStore))).Methods("DELETE")

	router.HandleFunc("/api/categories", h.metricsMiddleware("/api/categories", middleware.AuthMiddleware(h.ListCategories))).Methods("GET")
	router.HandleFunc("/api/categories", h.metricsMiddleware("/api/categories", manager(h.CreateCategory))).Methods("POST")
	router.HandleFunc("/api/categories/{id}", h.metricsMiddleware("/api/categories/id", manager(h.DeleteCategory))).Methods("DELETE")

	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", middleware.AuthMiddleware(h.ListProducts))).Methods("GET")
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", manager(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/id", middleware.AuthMiddleware(h.GetProduct))).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/id", manager(h.UpdateProduct))).Methods("PUT")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/id", manager(h.DeleteProduct))).Methods("DELETE")

	router.HandleFunc("/api/shelves", h.metricsMiddleware("/api/shelves", middleware.AuthMiddleware(h.ListShelves))).Methods("GET")
	router.HandleFunc("/api/shelves", h.metricsMiddleware("/api/shelves", manager(h.CreateShelf))).Methods("POST")
	router.HandleFunc("/api/shelves/{id}", h.metricsMiddleware("/api/shelves/id", middleware.AuthMiddleware(h.GetShelf))).Methods("GET")
	router.HandleFunc("/api/shelves/{id}", h.metricsMiddleware("/api/shelves/id", manager(h.UpdateShelf))).Methods("PUT")
	router.HandleFunc("/api/shelves/{id}", h.metricsMiddleware("/api/shelves/id", manager(h.DeleteShelf))).Methods("DELETE")
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
