package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

func seedPaymentMethods(t *testing.T, db *gorm.DB, cafeID uint, names ...string) []model.PaymentMethod {
	t.Helper()
	methods := make([]model.PaymentMethod, 0, len(names))
	for i, name := range names {
		method := model.PaymentMethod{
			CafeID:       cafeID,
			Name:         name,
			DisplayOrder: i + 1,
			IsActive:     true,
		}
		require.NoError(t, db.Create(&method).Error)
		methods = append(methods, method)
	}
	return methods
}

func paymentOrder(t *testing.T, db *gorm.DB, cafeID uint) []string {
	t.Helper()
	var methods []model.PaymentMethod
	require.NoError(t, db.Where("cafe_id = ?", cafeID).Order("display_order, id").Find(&methods).Error)
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	return names
}

func TestPaymentReorder_AppliesNewOrder(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	methods := seedPaymentMethods(t, db, cafe.ID, "Cash", "Card", "Wallet")
	h := NewPaymentHandler(db)

	body := fmt.Sprintf(`{"ids":[%d,%d,%d]}`, methods[2].ID, methods[0].ID, methods[1].ID)
	c, rec := newContext(t, http.MethodPut, "/payment-methods/reorder", body, cafe, nil)

	require.NoError(t, h.Reorder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Wallet", "Cash", "Card"}, paymentOrder(t, db, cafe.ID))
}

func TestPaymentReorder_UnknownIDRollsBackEverything(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	methods := seedPaymentMethods(t, db, cafe.ID, "Cash", "Card", "Wallet")
	h := NewPaymentHandler(db)

	// The first id is valid and would move Wallet to position one; the
	// bogus id must roll that back.
	body := fmt.Sprintf(`{"ids":[%d,%d,999]}`, methods[2].ID, methods[0].ID)
	c, rec := newContext(t, http.MethodPut, "/payment-methods/reorder", body, cafe, nil)

	require.NoError(t, h.Reorder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "REORDER_FAILED", resp["code"])
	assert.Equal(t, []string{"Cash", "Card", "Wallet"}, paymentOrder(t, db, cafe.ID))
}

func TestPaymentReorder_ForeignCafeMethodRejected(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	other := seedCafe(t, db, "other-cafe")
	seedPaymentMethods(t, db, cafe.ID, "Cash")
	foreign := seedPaymentMethods(t, db, other.ID, "Card")
	h := NewPaymentHandler(db)

	body := fmt.Sprintf(`{"ids":[%d]}`, foreign[0].ID)
	c, rec := newContext(t, http.MethodPut, "/payment-methods/reorder", body, cafe, nil)

	require.NoError(t, h.Reorder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Card"}, paymentOrder(t, db, other.ID))
}

func TestPaymentCreate_AppendsAtEndOfOrder(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	seedPaymentMethods(t, db, cafe.ID, "Cash", "Card")
	h := NewPaymentHandler(db)

	c, rec := newContext(t, http.MethodPost, "/payment-methods", `{"name":"Wallet"}`, cafe, nil)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var method model.PaymentMethod
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &method))
	assert.Equal(t, 3, method.DisplayOrder)
}

func TestPaymentDelete_MissingMethod(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewPaymentHandler(db)

	c, rec := newContext(t, http.MethodDelete, "/payment-methods/42", "", cafe, nil)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
