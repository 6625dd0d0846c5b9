package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, params CreateParams) (*Subscription, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, id int) (*WithDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WithDetails), args.Error(1)
}

func (m *MockService) List(ctx context.Context, f ListFilter) (*ListResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ListResponse), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int, patch UpdatePatch) (*Subscription, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockService) Renew(ctx context.Context, id, durationDays int) (*Subscription, error) {
	args := m.Called(ctx, id, durationDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockService) Cancel(ctx context.Context, id int, reason string) (*Subscription, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockService) RecordPayment(ctx context.Context, id int, payment PaymentUpdate) (*Subscription, error) {
	args := m.Called(ctx, id, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockService) UpdatePayment(ctx context.Context, id int, patch PaymentPatch) (*Subscription, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) Stats(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

func (m *MockService) ExpiringSoon(ctx context.Context, days int) ([]WithDetails, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithDetails), args.Error(1)
}

func (m *MockService) ListByCoach(ctx context.Context, coachID int) ([]WithDetails, error) {
	args := m.Called(ctx, coachID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithDetails), args.Error(1)
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.GET("/api/subscriptions", h.List)
	r.GET("/api/subscriptions/stats", h.Stats)
	r.GET("/api/subscriptions/expiring-soon", h.ExpiringSoon)
	r.GET("/api/subscriptions/:id", h.Get)
	r.POST("/api/subscriptions", h.Create)
	r.PUT("/api/subscriptions/:id", h.Update)
	r.DELETE("/api/subscriptions/:id", h.Delete)
	r.POST("/api/subscriptions/:id/renew", h.Renew)
	r.POST("/api/subscriptions/:id/cancel", h.Cancel)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerCreate(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("Create", mock.Anything, mock.MatchedBy(func(p CreateParams) bool {
		return p.CoachID == 1 && p.PlanID == 2 &&
			p.StartDate.Equal(date(2024, 1, 1)) && p.EndDate.Equal(date(2024, 1, 31))
	})).Return(&Subscription{ID: 10, CoachID: 1, PlanID: 2, Status: StatusActive}, nil)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions", gin.H{
		"coach_id":   1,
		"plan_id":    2,
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.ID)
	svc.AssertExpectations(t)
}

func TestHandlerCreateBadDate(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions", gin.H{
		"coach_id":   1,
		"plan_id":    2,
		"start_date": "01/01/2024",
		"end_date":   "2024-01-31",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandlerCreateMissingFields(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions", gin.H{"coach_id": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandlerCreateOverlapConflict(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("Create", mock.Anything, mock.Anything).Return(nil, ErrOverlap)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions", gin.H{
		"coach_id":   1,
		"plan_id":    2,
		"start_date": "2024-01-31",
		"end_date":   "2024-02-15",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already has a subscription")
}

func TestHandlerGetNotFound(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("Get", mock.Anything, 404).Return(nil, ErrNotFound)

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerGetInvalidID(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestHandlerUpdateForwardsPointerPatch(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("Update", mock.Anything, 5, mock.MatchedBy(func(p UpdatePatch) bool {
		return p.EndDate != nil && p.EndDate.Equal(date(2024, 2, 15)) &&
			p.StartDate == nil && p.Status == nil
	})).Return(&Subscription{ID: 5}, nil)

	w := doJSON(t, r, http.MethodPut, "/api/subscriptions/5", gin.H{
		"end_date": "2024-02-15",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandlerRenew(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("Renew", mock.Anything, 5, 30).Return(&Subscription{
		ID: 5, EndDate: date(2024, 3, 1), Status: StatusActive,
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/5/renew", gin.H{
		"duration_days": 30,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "renewed successfully")
}

func TestHandlerRenewMissingDuration(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/5/renew", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Renew", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlerCancelWithoutBody(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("Cancel", mock.Anything, 5, "").Return(&Subscription{
		ID: 5, Status: StatusCancelled,
	}, nil)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/5/cancel", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cancelled successfully")
}

func TestHandlerDelete(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("Delete", mock.Anything, 5).Return(nil)

	w := doJSON(t, r, http.MethodDelete, "/api/subscriptions/5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "removed successfully")
}

func TestHandlerListPassesFilter(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("List", mock.Anything, mock.MatchedBy(func(f ListFilter) bool {
		return f.Status == StatusActive && f.Page == 2 && f.Limit == 5
	})).Return(&ListResponse{Total: 11, Page: 2, Pages: 3, Subscriptions: []WithDetails{}}, nil)

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions?status=active&page=2&limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandlerExpiringSoonDefaultWindow(t *testing.T) {
	svc := new(MockService)
	r := newTestRouter(svc)

	svc.On("ExpiringSoon", mock.Anything, 7).Return([]WithDetails{}, nil)

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions/expiring-soon", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
