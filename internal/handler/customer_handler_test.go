package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

func TestCustomerRegisterAndGet(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewCustomerHandler(db)

	c, rec := newContext(t, http.MethodPost, "/customers",
		`{"name":"Asha","phone":"5550001","email":"asha@test"}`, cafe, nil)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, cafe.ID, created.CafeID)

	c, rec = newContext(t, http.MethodGet, "/customers/1", "", cafe, nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(created.ID))
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerRegister_RequiresName(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewCustomerHandler(db)

	c, rec := newContext(t, http.MethodPost, "/customers", `{"phone":"5550001"}`, cafe, nil)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerLookupNeverCrossesCafes(t *testing.T) {
	db := openTestDB(t)
	home := seedCafe(t, db, "corner-brew")
	other := seedCafe(t, db, "other-cafe")
	h := NewCustomerHandler(db)

	customer := model.Customer{CafeID: home.ID, Name: "Asha", Phone: "5550001"}
	require.NoError(t, db.Create(&customer).Error)

	// Lookup by id from the other cafe
	c, rec := newContext(t, http.MethodGet, "/customers/1", "", other, nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(customer.ID))
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Lookup by phone from the other cafe
	c, rec = newContext(t, http.MethodPost, "/customers/login", "", other, nil)
	c.SetParamNames("phone")
	c.SetParamValues("5550001")
	require.NoError(t, h.LoginByPhone(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Same phone from the home cafe resolves
	c, rec = newContext(t, http.MethodPost, "/customers/login", "", home, nil)
	c.SetParamNames("phone")
	c.SetParamValues("5550001")
	require.NoError(t, h.LoginByPhone(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerList_ScopedAndSearchable(t *testing.T) {
	db := openTestDB(t)
	home := seedCafe(t, db, "corner-brew")
	other := seedCafe(t, db, "other-cafe")
	h := NewCustomerHandler(db)

	require.NoError(t, db.Create(&model.Customer{CafeID: home.ID, Name: "Asha"}).Error)
	require.NoError(t, db.Create(&model.Customer{CafeID: home.ID, Name: "Ravi"}).Error)
	require.NoError(t, db.Create(&model.Customer{CafeID: other.ID, Name: "Asha"}).Error)

	c, rec := newContext(t, http.MethodGet, "/customers", "", home, nil)
	require.NoError(t, h.List(c))
	var customers []model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	assert.Len(t, customers, 2)

	c, rec = newContext(t, http.MethodGet, "/customers?search=Ash", "", home, nil)
	require.NoError(t, h.List(c))
	customers = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, "Asha", customers[0].Name)
}

func TestCustomerDelete_ScopedToCafe(t *testing.T) {
	db := openTestDB(t)
	home := seedCafe(t, db, "corner-brew")
	other := seedCafe(t, db, "other-cafe")
	h := NewCustomerHandler(db)

	customer := model.Customer{CafeID: home.ID, Name: "Asha"}
	require.NoError(t, db.Create(&customer).Error)

	c, rec := newContext(t, http.MethodDelete, "/customers/1", "", other, nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(customer.ID))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var count int64
	require.NoError(t, db.Model(&model.Customer{}).Where("cafe_id = ?", home.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
