package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"printpos/internal/finance"
	"printpos/internal/ledger"
	"printpos/internal/models"
	"printpos/internal/service"
	"printpos/internal/status"
	"printpos/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalogService *service.CatalogService
	orderService   *service.OrderService
	paymentService *service.PaymentService
	statusService  *service.StatusService
	financeService *service.FinanceService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogService *service.CatalogService,
	orderService *service.OrderService,
	paymentService *service.PaymentService,
	statusService *service.StatusService,
	financeService *service.FinanceService,
) *Handler {
	return &Handler{
		catalogService: catalogService,
		orderService:   orderService,
		paymentService: paymentService,
		statusService:  statusService,
		financeService: financeService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/items", h.createItem)
		v1.GET("/items", h.listItems)
		v1.GET("/items/:id", h.getItem)
		v1.PUT("/items/:id", h.updateItem)

		v1.POST("/quote", h.quote)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders/:id/payments", h.addPayment)
		v1.POST("/orders/:id/transition", h.transition)

		v1.POST("/finance/entries", h.createFinanceEntry)
		v1.GET("/finance/entries", h.listFinanceEntries)
		v1.DELETE("/finance/entries/:id", h.deleteFinanceEntry)
		v1.GET("/finance/categories", h.listFinanceCategories)
		v1.POST("/finance/categories", h.addFinanceCategory)
		v1.DELETE("/finance/categories/:id", h.deleteFinanceCategory)
		v1.GET("/finance/report", h.financeReport)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// actor reads the pass-through identity headers. No authentication happens
// here; the caller's session layer owns that.
func actor(c *gin.Context) string {
	if id := c.GetHeader("X-Actor-Id"); id != "" {
		return id
	}
	return "anonymous"
}

func (h *Handler) createItem(c *gin.Context) {
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.catalogService.CreateItem(c.Request.Context(), &item); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	item.ID = id

	if err := h.catalogService.UpdateItem(c.Request.Context(), &item); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) listItems(c *gin.Context) {
	items, err := h.catalogService.ListActiveItems(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) getItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

type quoteRequest struct {
	Lines []models.LineConfig `json:"lines" binding:"required,min=1"`
}

func (h *Handler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.orderService.Quote(c.Request.Context(), req.Lines)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req, actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) listOrders(c *gin.Context) {
	st := models.OrderStatus(c.Query("status"))
	branch := c.Query("branch")

	orders, err := h.orderService.ListOrders(c.Request.Context(), st, branch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, logs, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":      order,
		"status_log": logs,
	})
}

type addPaymentRequest struct {
	Amount float64              `json:"amount" binding:"required"`
	Method models.PaymentMethod `json:"method" binding:"required"`
	Note   string               `json:"note"`
}

func (h *Handler) addPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req addPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.paymentService.AddPayment(c.Request.Context(), id, req.Amount, req.Method, actor(c), req.Note)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type transitionRequest struct {
	To   models.OrderStatus `json:"to" binding:"required"`
	Note string             `json:"note"`
}

func (h *Handler) transition(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, entry, err := h.statusService.Transition(c.Request.Context(), id, req.To, actor(c), req.Note)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":     order,
		"log_entry": entry,
	})
}

func (h *Handler) createFinanceEntry(c *gin.Context) {
	var entry models.FinanceEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	entry.CreatedBy = actor(c)

	if err := h.financeService.CreateEntry(c.Request.Context(), &entry); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) listFinanceEntries(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	entries, err := h.financeService.ListEntries(c.Request.Context(), c.Query("branch"), from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) deleteFinanceEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := h.financeService.DeleteEntry(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listFinanceCategories(c *gin.Context) {
	cats, err := h.financeService.Categories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

type addCategoryRequest struct {
	Name string           `json:"name" binding:"required"`
	Type models.EntryType `json:"type" binding:"required"`
}

func (h *Handler) addFinanceCategory(c *gin.Context) {
	var req addCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	cat, err := h.financeService.AddCategory(c.Request.Context(), req.Name, req.Type)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) deleteFinanceCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := h.financeService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) financeReport(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	report, err := h.financeService.Report(c.Request.Context(), finance.Filter{
		BranchID: c.Query("branch"),
		From:     from,
		To:       to,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// parseDateRange reads optional from/to query params (RFC 3339 or
// YYYY-MM-DD). A bare "to" date is widened to the end of that day so the
// range stays inclusive on both ends.
func parseDateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
			return nil, nil, false
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
			return nil, nil, false
		}
		if len(v) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	return from, to, true
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// writeError maps core rejections to HTTP statuses: validation problems to
// 422, lookup misses to 404, transition rejections to 409.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrItemInactive),
		errors.Is(err, service.ErrBelowMinOrder),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidEntry):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	case errors.Is(err, status.ErrIllegalTransition),
		errors.Is(err, status.ErrUnsettledBalance),
		errors.Is(err, status.ErrNotProductionReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		st := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			st,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			st,
		).Inc()
	}
}
