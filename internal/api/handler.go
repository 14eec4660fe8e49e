package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog is the product lookup surface the API needs.
type Catalog interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

var _ Catalog = (*store.Store)(nil)

// Handler contains HTTP handlers
type Handler struct {
	catalog     Catalog
	carts       *service.CartService
	checkout    *service.CheckoutService
	fulfillment *service.FulfillmentService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog Catalog,
	carts *service.CartService,
	checkout *service.CheckoutService,
	fulfillment *service.FulfillmentService,
) *Handler {
	return &Handler{
		catalog:     catalog,
		carts:       carts,
		checkout:    checkout,
		fulfillment: fulfillment,
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
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)

		v1.POST("/carts", h.createCart)
		v1.GET("/carts/:id", h.getCart)
		v1.POST("/carts/:id/items", h.addItem)
		v1.PATCH("/carts/:id/items/:productId", h.updateQuantity)
		v1.DELETE("/carts/:id/items/:productId", h.removeItem)
		v1.DELETE("/carts/:id", h.clearCart)
		v1.POST("/carts/:id/checkout", h.startCheckout)

		v1.GET("/checkout/return", h.checkoutReturn)
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

// listProducts handles catalog listing
func (h *Handler) listProducts(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		products, err := h.catalog.GetProductsByCategory(c.Request.Context(), category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
		return
	}

	products, err := h.catalog.GetProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct handles single product lookup
func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// createCart handles cart creation
func (h *Handler) createCart(c *gin.Context) {
	cartID := h.carts.CreateCart(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"cart_id": cartID})
}

// getCart handles cart retrieval
func (h *Handler) getCart(c *gin.Context) {
	state, err := h.carts.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return
	}
	c.JSON(http.StatusOK, state)
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// addItem handles adding a product to a cart
func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	state, err := h.carts.AddItem(c.Request.Context(), c.Param("id"), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, service.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Product out of stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		}
		return
	}
	c.JSON(http.StatusOK, state)
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// updateQuantity handles absolute quantity updates
func (h *Handler) updateQuantity(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	state, err := h.carts.UpdateQuantity(c.Request.Context(), c.Param("id"), productID, *req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quantity"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// removeItem handles removing a line item
func (h *Handler) removeItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	state, err := h.carts.RemoveItem(c.Request.Context(), c.Param("id"), productID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// clearCart handles clearing a cart
func (h *Handler) clearCart(c *gin.Context) {
	state, err := h.carts.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// startCheckout handles checkout session creation
func (h *Handler) startCheckout(c *gin.Context) {
	session, err := h.checkout.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "Failed to create checkout session",
				"details": err.Error(),
			})
		}
		return
	}
	c.JSON(http.StatusCreated, session)
}

// checkoutReturn handles the return from the payment processor
func (h *Handler) checkoutReturn(c *gin.Context) {
	cartID := c.Query("cart_id")
	sessionID := c.Query("session_id")

	summary, err := h.fulfillment.Fulfill(c.Request.Context(), cartID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSession):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid session identifier"})
		case errors.Is(err, service.ErrCartNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Fulfillment temporarily unavailable"})
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
