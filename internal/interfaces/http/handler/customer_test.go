package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	partnerapp "github.com/factoryerp/backend/internal/application/partner"
	"github.com/factoryerp/backend/internal/domain/partner"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCustomerTestRouter() (*gin.Engine, *MockCustomerRepository, *CustomerHandler) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockCustomerRepository)
	service := partnerapp.NewCustomerService(mockRepo)
	handler := NewCustomerHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		setJWTContext(c, billingTestTenantID, uuid.New())
		c.Next()
	})

	return router, mockRepo, handler
}

func TestCustomerHandler_Create(t *testing.T) {
	t.Run("should create customer successfully", func(t *testing.T) {
		router, mockRepo, handler := setupCustomerTestRouter()
		router.POST("/customers", handler.Create)

		mockRepo.On("ExistsByCode", mock.Anything, billingTestTenantID, "CUST001").
			Return(false, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).
			Return(nil)

		w := performJSON(router, http.MethodPost, "/customers", CreateCustomerRequest{
			Code:  "cust001",
			Name:  "Lanka Hardware",
			Phone: "+94112345678",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)

		var resp partnerapp.CustomerResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "CUST001", resp.Code)
		assert.Equal(t, "active", resp.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 409 for duplicate code", func(t *testing.T) {
		router, mockRepo, handler := setupCustomerTestRouter()
		router.POST("/customers", handler.Create)

		mockRepo.On("ExistsByCode", mock.Anything, billingTestTenantID, "CUST001").
			Return(true, nil)

		w := performJSON(router, http.MethodPost, "/customers", CreateCustomerRequest{
			Code: "CUST001",
			Name: "Lanka Hardware",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should return 400 for missing name", func(t *testing.T) {
		router, _, handler := setupCustomerTestRouter()
		router.POST("/customers", handler.Create)

		w := performJSON(router, http.MethodPost, "/customers", map[string]interface{}{
			"code": "CUST002",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomerHandler_GetByID(t *testing.T) {
	t.Run("should get customer by ID", func(t *testing.T) {
		router, mockRepo, handler := setupCustomerTestRouter()
		router.GET("/customers/:id", handler.GetByID)

		customerID := uuid.New()
		mockRepo.On("FindByID", mock.Anything, billingTestTenantID, customerID).
			Return(activeTestCustomer(t, customerID), nil)

		w := performJSON(router, http.MethodGet, "/customers/"+customerID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		var resp partnerapp.CustomerResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, customerID, resp.ID)
	})

	t.Run("should return 404 for unknown customer", func(t *testing.T) {
		router, mockRepo, handler := setupCustomerTestRouter()
		router.GET("/customers/:id", handler.GetByID)

		customerID := uuid.New()
		mockRepo.On("FindByID", mock.Anything, billingTestTenantID, customerID).
			Return(nil, nil)

		w := performJSON(router, http.MethodGet, "/customers/"+customerID.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCustomerHandler_List(t *testing.T) {
	t.Run("should list customers with status filter", func(t *testing.T) {
		router, mockRepo, handler := setupCustomerTestRouter()
		router.GET("/customers", handler.List)

		customers := []partner.Customer{*activeTestCustomer(t, uuid.New())}
		mockRepo.On("FindAll", mock.Anything, billingTestTenantID, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["status"] == "active" && filter.Page == 1
		})).Return(customers, nil)
		mockRepo.On("Count", mock.Anything, billingTestTenantID, mock.Anything).
			Return(int64(1), nil)

		w := performJSON(router, http.MethodGet, "/customers?status=active", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(1), env.Meta.Total)
	})
}

func TestCustomerHandler_Update(t *testing.T) {
	t.Run("should update only the provided fields", func(t *testing.T) {
		router, mockRepo, handler := setupCustomerTestRouter()
		router.PUT("/customers/:id", handler.Update)

		customerID := uuid.New()
		mockRepo.On("FindByID", mock.Anything, billingTestTenantID, customerID).
			Return(activeTestCustomer(t, customerID), nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).
			Return(nil)

		phone := "+94777654321"
		w := performJSON(router, http.MethodPut, "/customers/"+customerID.String(), UpdateCustomerRequest{
			Phone: &phone,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		var resp partnerapp.CustomerResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, phone, resp.Phone)
		assert.Equal(t, "Lanka Hardware", resp.Name)
	})
}

func TestCustomerHandler_Transitions(t *testing.T) {
	t.Run("should deactivate an active customer", func(t *testing.T) {
		router, mockRepo, handler := setupCustomerTestRouter()
		router.POST("/customers/:id/deactivate", handler.Deactivate)

		customerID := uuid.New()
		mockRepo.On("FindByID", mock.Anything, billingTestTenantID, customerID).
			Return(activeTestCustomer(t, customerID), nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).
			Return(nil)

		w := performJSON(router, http.MethodPost, "/customers/"+customerID.String()+"/deactivate", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		var resp partnerapp.CustomerResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "inactive", resp.Status)
	})

	t.Run("should return 422 when activating an active customer", func(t *testing.T) {
		router, mockRepo, handler := setupCustomerTestRouter()
		router.POST("/customers/:id/activate", handler.Activate)

		customerID := uuid.New()
		mockRepo.On("FindByID", mock.Anything, billingTestTenantID, customerID).
			Return(activeTestCustomer(t, customerID), nil)

		w := performJSON(router, http.MethodPost, "/customers/"+customerID.String()+"/activate", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
