package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
)

type fakeAlertService struct {
	alertdomain.Service

	lastFilters alertdomain.Filters
	lastUserID  *snowflake.ID
	ratingCalls int
	ratingValue int
	detailErr   error
}

func (f *fakeAlertService) ListPublic(ctx context.Context, userID *snowflake.ID, filters alertdomain.Filters) ([]alertdomain.Alert, int64, error) {
	f.lastUserID = userID
	f.lastFilters = filters
	return []alertdomain.Alert{{ID: 1, Title: "Flooding in Region A"}}, 1, nil
}

func (f *fakeAlertService) GetPublicDetail(ctx context.Context, alertID snowflake.ID, userID *snowflake.ID) (*alertdomain.AlertDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return &alertdomain.AlertDetail{Alert: &alertdomain.Alert{ID: alertID}}, nil
}

func (f *fakeAlertService) SetRating(ctx context.Context, userID, alertID snowflake.ID, rating int) (*alertdomain.UserAlert, error) {
	if err := alertdomain.ValidateRating(rating); err != nil {
		return nil, err
	}
	f.ratingCalls++
	f.ratingValue = rating
	return &alertdomain.UserAlert{UserID: userID, AlertID: alertID, Rating: &rating}, nil
}

type fakeSubscriptionService struct {
	subscriptiondomain.Service

	updateErr error
}

func (f *fakeSubscriptionService) Update(ctx context.Context, req subscriptiondomain.UpdateSubscriptionRequest) (*subscriptiondomain.Subscription, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &subscriptiondomain.Subscription{ID: req.ID, UserID: req.UserID}, nil
}

func newTestServer(alerts *fakeAlertService, subs *fakeSubscriptionService) *Server {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestLogger(zap.NewNop()))
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine:          engine,
		alertSvc:        alerts,
		subscriptionSvc: subs,
	}
	s.registerAPIRoutes()
	return s
}

func doRequest(t *testing.T, s *Server, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestListAlertsParsesFilters(t *testing.T) {
	alerts := &fakeAlertService{}
	s := newTestServer(alerts, &fakeSubscriptionService{})

	w := doRequest(t, s, http.MethodGet, "/api/alerts?shock_type_id=42&severity=3&active_only=true&limit=10&offset=5", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, alerts.lastFilters.ShockTypeID)
	assert.Equal(t, snowflake.ID(42), *alerts.lastFilters.ShockTypeID)
	require.NotNil(t, alerts.lastFilters.Severity)
	assert.Equal(t, 3, *alerts.lastFilters.Severity)
	assert.True(t, alerts.lastFilters.ActiveOnly)
	assert.Equal(t, 10, alerts.lastFilters.Limit)
	assert.Equal(t, 5, alerts.lastFilters.Offset)
	assert.Nil(t, alerts.lastUserID)
}

func TestListAlertsBindsUserHeader(t *testing.T) {
	alerts := &fakeAlertService{}
	s := newTestServer(alerts, &fakeSubscriptionService{})

	w := doRequest(t, s, http.MethodGet, "/api/alerts", "7", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, alerts.lastUserID)
	assert.Equal(t, snowflake.ID(7), *alerts.lastUserID)
}

func TestGetAlertNotFound(t *testing.T) {
	alerts := &fakeAlertService{detailErr: alertdomain.ErrNotFound}
	s := newTestServer(alerts, &fakeSubscriptionService{})

	w := doRequest(t, s, http.MethodGet, "/api/alerts/99", "", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Type)
}

func TestRateAlertRequiresUser(t *testing.T) {
	alerts := &fakeAlertService{}
	s := newTestServer(alerts, &fakeSubscriptionService{})

	w := doRequest(t, s, http.MethodPost, "/api/alerts/5/rating", "", map[string]any{"rating": 4})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, alerts.ratingCalls)
}

func TestRateAlertValidRating(t *testing.T) {
	alerts := &fakeAlertService{}
	s := newTestServer(alerts, &fakeSubscriptionService{})

	w := doRequest(t, s, http.MethodPost, "/api/alerts/5/rating", "7", map[string]any{"rating": 4})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, alerts.ratingCalls)
	assert.Equal(t, 4, alerts.ratingValue)
}

func TestRateAlertOutOfRange(t *testing.T) {
	alerts := &fakeAlertService{}
	s := newTestServer(alerts, &fakeSubscriptionService{})

	w := doRequest(t, s, http.MethodPost, "/api/alerts/5/rating", "7", map[string]any{"rating": 6})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "rating", resp.Error.Errors[0].Field)
	assert.Equal(t, "6", resp.Error.Errors[0].Value)
}

func TestUpdateSubscriptionForbidden(t *testing.T) {
	subs := &fakeSubscriptionService{updateErr: subscriptiondomain.ErrForbidden}
	s := newTestServer(&fakeAlertService{}, subs)

	w := doRequest(t, s, http.MethodPatch, "/api/subscriptions/9", "7", map[string]any{"frequency": "daily"})

	require.Equal(t, http.StatusForbidden, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "forbidden", resp.Error.Type)
}

func TestInvalidPathID(t *testing.T) {
	s := newTestServer(&fakeAlertService{}, &fakeSubscriptionService{})

	w := doRequest(t, s, http.MethodGet, "/api/alerts/not-a-number", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
