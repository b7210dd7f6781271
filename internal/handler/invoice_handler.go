package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// TaxRate applied to invoice subtotals.
const TaxRate = 0.05

// InvoiceHandler serves cafe-scoped invoice creation and reads. PDF
// rendering happens client-side; the API serves the invoice data only.
type InvoiceHandler struct {
	db *gorm.DB
}

// NewInvoiceHandler creates the invoice handler.
func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{db: db}
}

// Create issues the invoice for an order. One invoice per order.
func (h *InvoiceHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var req struct {
		OrderID       uint   `json:"order_id"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "order_id is required",
			"code":  "MISSING_FIELDS",
		})
	}

	var order model.Order
	if err := h.db.Where("cafe_id = ?", cafe.ID).First(&order, req.OrderID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "order not found",
			"code":  "ORDER_NOT_FOUND",
		})
	}

	invoice := model.Invoice{
		CafeID:        cafe.ID,
		OrderID:       order.ID,
		InvoiceNumber: fmt.Sprintf("INV-%d-%d", cafe.ID, time.Now().UnixNano()),
		Subtotal:      order.Total,
		Tax:           order.Total * TaxRate,
		Total:         order.Total * (1 + TaxRate),
		PaymentMethod: req.PaymentMethod,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&invoice).Error; err != nil {
		log.Error("Failed to create invoice", zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "invoice already exists for this order",
			"code":  "DUPLICATE_INVOICE",
		})
	}

	log.Info("Invoice created",
		zap.Uint("cafe_id", cafe.ID),
		zap.String("invoice_number", invoice.InvoiceNumber))
	return c.JSON(http.StatusCreated, invoice)
}

// List returns the cafe's invoices.
func (h *InvoiceHandler) List(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var invoices []model.Invoice
	if err := h.db.Where("cafe_id = ?", cafe.ID).Order("created_at DESC").Find(&invoices).Error; err != nil {
		logger.FromEcho(c).Error("Failed to list invoices", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list invoices",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, invoices)
}

// Get returns one invoice.
func (h *InvoiceHandler) Get(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var invoice model.Invoice
	if err := h.db.Where("cafe_id = ?", cafe.ID).First(&invoice, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "invoice not found",
			"code":  "INVOICE_NOT_FOUND",
		})
	}
	return c.JSON(http.StatusOK, invoice)
}
