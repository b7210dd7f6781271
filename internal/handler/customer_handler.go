package handler

import (
	"errors"
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

// CustomerHandler serves loyalty customer CRUD. Every query is scoped to
// the cafe resolved from the path; lookups never cross cafes.
type CustomerHandler struct {
	db *gorm.DB
}

// NewCustomerHandler creates the customer handler.
func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// Register enrolls a customer into the cafe's loyalty program.
func (h *CustomerHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name is required",
			"code":  "MISSING_FIELDS",
		})
	}

	customer := model.Customer{
		CafeID: cafe.ID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&customer).Error; err != nil {
		log.Error("Failed to register customer", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to register customer",
			"code":  "INTERNAL_ERROR",
		})
	}

	log.Info("Customer registered",
		zap.Uint("cafe_id", cafe.ID),
		zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusCreated, customer)
}

// LoginByPhone looks up a customer by phone within the cafe.
func (h *CustomerHandler) LoginByPhone(c echo.Context) error {
	cafe := middleware.Cafe(c)
	phone := c.Param("phone")

	var customer model.Customer
	err := h.db.Where("cafe_id = ? AND phone = ?", cafe.ID, phone).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "customer not found",
				"code":  "CUSTOMER_NOT_FOUND",
			})
		}
		logger.FromEcho(c).Error("Customer lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "customer lookup failed",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, customer)
}

// List returns the cafe's customers.
func (h *CustomerHandler) List(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var customers []model.Customer
	query := h.db.Where("cafe_id = ?", cafe.ID)
	if search := c.QueryParam("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if err := query.Order("name").Find(&customers).Error; err != nil {
		logger.FromEcho(c).Error("Failed to list customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list customers",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, customers)
}

// Get returns one of the cafe's customers.
func (h *CustomerHandler) Get(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var customer model.Customer
	err := h.db.Where("cafe_id = ?", cafe.ID).First(&customer, c.Param("id")).Error
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "customer not found",
			"code":  "CUSTOMER_NOT_FOUND",
		})
	}
	return c.JSON(http.StatusOK, customer)
}

// Update applies a partial update to one of the cafe's customers.
func (h *CustomerHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var customer model.Customer
	if err := h.db.Where("cafe_id = ?", cafe.ID).First(&customer, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "customer not found",
			"code":  "CUSTOMER_NOT_FOUND",
		})
	}

	var req struct {
		Name          *string `json:"name,omitempty"`
		Email         *string `json:"email,omitempty"`
		Phone         *string `json:"phone,omitempty"`
		LoyaltyPoints *int    `json:"loyalty_points,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.LoyaltyPoints != nil {
		fields["loyalty_points"] = *req.LoyaltyPoints
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(&customer).Updates(fields).Error; err != nil {
		log.Error("Failed to update customer", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to update customer",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, customer)
}

// Delete soft-deletes one of the cafe's customers.
func (h *CustomerHandler) Delete(c echo.Context) error {
	cafe := middleware.Cafe(c)

	result := h.db.Where("cafe_id = ?", cafe.ID).Delete(&model.Customer{}, c.Param("id"))
	if result.Error != nil {
		logger.FromEcho(c).Error("Failed to delete customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to delete customer",
			"code":  "INTERNAL_ERROR",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "customer not found",
			"code":  "CUSTOMER_NOT_FOUND",
		})
	}
	return c.NoContent(http.StatusNoContent)
}
