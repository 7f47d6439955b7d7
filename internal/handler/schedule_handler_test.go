package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olehvh/cek-outage-api/internal/models"
	"github.com/olehvh/cek-outage-api/internal/service"
	"github.com/olehvh/cek-outage-api/pkg/response"
)

type stubFeed struct {
	page string
	err  error
}

func (s *stubFeed) Fetch(ctx context.Context) (string, error) {
	return s.page, s.err
}

type stubProvider struct {
	schedule *models.GroupSchedule
	err      error
}

func (s *stubProvider) FetchSchedule(ctx context.Context, group string) (*models.GroupSchedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.schedule, nil
}

func newRouter(feedSrc *stubFeed, providerSrc *stubProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewOutageService(feedSrc, providerSrc, nil, nil, validator.New(), zap.NewNop())
	h := NewScheduleHandler(svc)

	r := gin.New()
	r.GET("/api/v1/schedule", h.ListFeed)
	r.GET("/api/v1/groups/:group/schedule", h.GetGroup)
	return r
}

func TestGetGroupScheduleOK(t *testing.T) {
	providerSrc := &stubProvider{schedule: &models.GroupSchedule{
		Today: &models.DayRecord{
			Status: models.StatusEmergencyShutdowns,
			Slots:  []models.Slot{{Start: 0, End: 1440, Type: models.SlotNotPlanned}},
		},
	}}
	r := newRouter(&stubFeed{page: "<html></html>"}, providerSrc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/2.1/schedule", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.GroupSchedule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Today)
	assert.Equal(t, models.StatusEmergencyShutdowns, envelope.Data.Today.Status)
}

func TestGetGroupScheduleInvalidGroup(t *testing.T) {
	r := newRouter(&stubFeed{page: "<html></html>"}, &stubProvider{err: errors.New("down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/bogus/schedule", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestGetGroupScheduleNoSources(t *testing.T) {
	r := newRouter(&stubFeed{err: errors.New("network down")}, &stubProvider{err: errors.New("down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/1.1/schedule", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "SOURCES_UNAVAILABLE", envelope.Error.Code)
}

func TestListFeedUpstreamError(t *testing.T) {
	r := newRouter(&stubFeed{err: errors.New("network down")}, &stubProvider{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
