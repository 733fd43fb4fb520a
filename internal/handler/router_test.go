package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/service"
	"github.com/Hardy101/Invix/internal/token"
	"github.com/Hardy101/Invix/pkg/middleware"
	"github.com/Hardy101/Invix/pkg/response"
)

const testSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAttendanceService lets each test decide what the scan endpoints return.
type stubAttendanceService struct {
	checkIn  func(presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error)
	checkOut func(presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error)
	status   func(guestID string) (*dto.AttendanceStatusResponse, error)
	resolve  func(presentedToken string) (*dto.TokenResolutionResponse, error)
}

func (s *stubAttendanceService) CheckIn(_ context.Context, presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error) {
	return s.checkIn(presentedToken, req)
}

func (s *stubAttendanceService) CheckOut(_ context.Context, presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error) {
	return s.checkOut(presentedToken, req)
}

func (s *stubAttendanceService) Status(_ context.Context, guestID string) (*dto.AttendanceStatusResponse, error) {
	return s.status(guestID)
}

func (s *stubAttendanceService) Resolve(_ context.Context, presentedToken string) (*dto.TokenResolutionResponse, error) {
	return s.resolve(presentedToken)
}

type stubEventService struct {
	create   func(req *dto.CreateEventRequest) (*dto.EventResponse, error)
	list     func(filter *dto.EventListFilter) (*dto.EventListResponse, error)
	getByID  func(id string, actor domain.Actor) (*dto.EventResponse, error)
	update   func(id string, req *dto.UpdateEventRequest, actor domain.Actor) (*dto.EventResponse, error)
	activate func(id string, actor domain.Actor) (*dto.EventResponse, error)
	remove   func(id string, actor domain.Actor) error
}

func (s *stubEventService) Create(_ context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	return s.create(req)
}

func (s *stubEventService) GetByID(_ context.Context, id string, actor domain.Actor) (*dto.EventResponse, error) {
	return s.getByID(id, actor)
}

func (s *stubEventService) List(_ context.Context, filter *dto.EventListFilter) (*dto.EventListResponse, error) {
	return s.list(filter)
}

func (s *stubEventService) Update(_ context.Context, id string, req *dto.UpdateEventRequest, actor domain.Actor) (*dto.EventResponse, error) {
	return s.update(id, req, actor)
}

func (s *stubEventService) Activate(_ context.Context, id string, actor domain.Actor) (*dto.EventResponse, error) {
	return s.activate(id, actor)
}

func (s *stubEventService) Delete(_ context.Context, id string, actor domain.Actor) error {
	return s.remove(id, actor)
}

type stubGuestService struct {
	search func(filter *dto.GuestSearchFilter, actor domain.Actor) (*dto.GuestListResponse, error)
}

func (s *stubGuestService) Create(_ context.Context, _ *dto.CreateGuestRequest, _ domain.Actor) (*dto.GuestResponse, error) {
	return nil, nil
}

func (s *stubGuestService) GetByID(_ context.Context, _ string) (*dto.GuestResponse, error) {
	return nil, service.ErrGuestNotFound
}

func (s *stubGuestService) ListByEvent(_ context.Context, _ string, _ domain.Actor) (*dto.GuestListResponse, error) {
	return nil, nil
}

func (s *stubGuestService) Search(_ context.Context, filter *dto.GuestSearchFilter, actor domain.Actor) (*dto.GuestListResponse, error) {
	return s.search(filter, actor)
}

func (s *stubGuestService) Update(_ context.Context, _ string, _ *dto.UpdateGuestRequest, _ domain.Actor) (*dto.GuestResponse, error) {
	return nil, nil
}

func (s *stubGuestService) Delete(_ context.Context, _ string, _ domain.Actor) error {
	return nil
}

func (s *stubGuestService) BulkImport(_ context.Context, _, _ string, _ io.Reader, _ domain.Actor) (*dto.BulkImportResponse, error) {
	return nil, nil
}

type stubAnalyticsService struct {
	summarize func(eventID string, query *dto.AnalyticsQuery, actor domain.Actor) (*dto.AnalyticsResponse, error)
}

func (s *stubAnalyticsService) Summarize(_ context.Context, eventID string, query *dto.AnalyticsQuery, actor domain.Actor) (*dto.AnalyticsResponse, error) {
	return s.summarize(eventID, query, actor)
}

type stubActivityService struct{}

func (s *stubActivityService) ListByEvent(_ context.Context, _ string, _ *dto.ActivityLogFilter, _ domain.Actor) (*dto.ActivityLogListResponse, error) {
	return &dto.ActivityLogListResponse{}, nil
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(_ context.Context) error {
	return p.err
}

type routerStubs struct {
	attendance *stubAttendanceService
	events     *stubEventService
	guests     *stubGuestService
	analytics  *stubAnalyticsService
	pinger     *stubPinger
}

func defaultStubs() *routerStubs {
	return &routerStubs{
		attendance: &stubAttendanceService{},
		events:     &stubEventService{},
		guests:     &stubGuestService{},
		analytics:  &stubAnalyticsService{},
		pinger:     &stubPinger{},
	}
}

func newTestRouter(s *routerStubs) *gin.Engine {
	return NewRouter(&RouterConfig{
		Events:     NewEventHandler(s.events),
		Guests:     NewGuestHandler(s.guests, nil),
		Attendance: NewAttendanceHandler(s.attendance, &stubActivityService{}),
		Analytics:  NewAnalyticsHandler(s.analytics),
		Health:     NewHealthHandler(s.pinger),
		Auth:       &middleware.AuthConfig{Secret: testSecret},
	})
}

func bearerToken(t *testing.T, actorID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  actorID,
		"role": "organizer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(router *gin.Engine, method, path, auth string, body io.Reader) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func TestCheckInEndpoint(t *testing.T) {
	stubs := defaultStubs()

	var gotToken string
	var gotMethod string
	stubs.attendance.checkIn = func(presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error) {
		gotToken = presentedToken
		gotMethod = req.Method
		return &dto.CheckResponse{
			GuestID:   "g-1",
			GuestName: "Ada",
			EventID:   "e-1",
			State:     string(domain.StateCheckedIn),
			At:        "2026-08-30T09:05:00Z",
		}, nil
	}
	router := newTestRouter(stubs)

	// scanners POST an empty body, the method defaults to qr_code
	w, envelope := doRequest(router, http.MethodPost, "/api/v1/check-in/tok-ada", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)
	assert.Equal(t, "tok-ada", gotToken)
	assert.Equal(t, domain.MethodQRCode, gotMethod)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ada", data["guest_name"])
	assert.Equal(t, string(domain.StateCheckedIn), data["state"])
}

func TestCheckInUnknownToken(t *testing.T) {
	stubs := defaultStubs()
	stubs.attendance.checkIn = func(string, *dto.CheckRequest) (*dto.CheckResponse, error) {
		return nil, token.ErrTokenNotFound
	}
	router := newTestRouter(stubs)

	w, envelope := doRequest(router, http.MethodPost, "/api/v1/check-in/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, response.ErrCodeGuestNotFound, envelope.Error.Code)
}

func TestCheckInAlreadyCheckedIn(t *testing.T) {
	stubs := defaultStubs()
	lastSeen := time.Date(2026, 8, 30, 9, 5, 0, 0, time.UTC)
	stubs.attendance.checkIn = func(string, *dto.CheckRequest) (*dto.CheckResponse, error) {
		return nil, &service.AlreadyCheckedInError{GuestName: "Ada", LastCheckInAt: lastSeen}
	}
	router := newTestRouter(stubs)

	w, envelope := doRequest(router, http.MethodPost, "/api/v1/check-in/tok-ada", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, response.ErrCodeAlreadyCheckedIn, envelope.Error.Code)
	assert.Contains(t, envelope.Error.Message, "Ada")
}

func TestCheckOutNotCheckedIn(t *testing.T) {
	stubs := defaultStubs()
	stubs.attendance.checkOut = func(string, *dto.CheckRequest) (*dto.CheckResponse, error) {
		return nil, &service.NotCheckedInError{GuestName: "Ada"}
	}
	router := newTestRouter(stubs)

	w, envelope := doRequest(router, http.MethodPost, "/api/v1/check-out/tok-ada", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, response.ErrCodeNotCheckedIn, envelope.Error.Code)
}

func TestCheckInRejectsBadMethod(t *testing.T) {
	stubs := defaultStubs()
	called := false
	stubs.attendance.checkIn = func(string, *dto.CheckRequest) (*dto.CheckResponse, error) {
		called = true
		return nil, nil
	}
	router := newTestRouter(stubs)

	body := strings.NewReader(`{"method":"telepathy"}`)
	w, envelope := doRequest(router, http.MethodPost, "/api/v1/check-in/tok-ada", "", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, response.ErrCodeValidationFailed, envelope.Error.Code)
	assert.False(t, called)
}

func TestResolveIsPublic(t *testing.T) {
	stubs := defaultStubs()
	stubs.attendance.resolve = func(presentedToken string) (*dto.TokenResolutionResponse, error) {
		return &dto.TokenResolutionResponse{
			Guest: &dto.GuestResponse{ID: "g-1", Name: "Ada", Token: presentedToken},
			State: string(domain.StateNotArrived),
		}, nil
	}
	router := newTestRouter(stubs)

	w, envelope := doRequest(router, http.MethodGet, "/api/v1/tokens/tok-ada", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	stubs := defaultStubs()
	stubs.events.list = func(filter *dto.EventListFilter) (*dto.EventListResponse, error) {
		return &dto.EventListResponse{}, nil
	}
	router := newTestRouter(stubs)

	w, _ := doRequest(router, http.MethodGet, "/api/v1/events", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventListScopedToTokenSubject(t *testing.T) {
	stubs := defaultStubs()
	var gotCreatedBy string
	stubs.events.list = func(filter *dto.EventListFilter) (*dto.EventListResponse, error) {
		gotCreatedBy = filter.CreatedBy
		return &dto.EventListResponse{}, nil
	}
	router := newTestRouter(stubs)

	w, envelope := doRequest(router, http.MethodGet, "/api/v1/events", bearerToken(t, "owner-1"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)
	assert.Equal(t, "owner-1", gotCreatedBy)
}

func TestAnalyticsEndpoint(t *testing.T) {
	stubs := defaultStubs()
	stubs.analytics.summarize = func(eventID string, query *dto.AnalyticsQuery, actor domain.Actor) (*dto.AnalyticsResponse, error) {
		return &dto.AnalyticsResponse{
			EventID:     eventID,
			TotalGuests: 10,
			CheckedIn:   4,
			CheckedOut:  3,
			Pending:     3,
		}, nil
	}
	router := newTestRouter(stubs)

	w, envelope := doRequest(router, http.MethodGet, "/api/v1/events/e-1/analytics", bearerToken(t, "owner-1"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "e-1", data["event_id"])
	assert.Equal(t, float64(10), data["total_guests"])
}

func TestAnalyticsForbiddenForIntruder(t *testing.T) {
	stubs := defaultStubs()
	stubs.analytics.summarize = func(string, *dto.AnalyticsQuery, domain.Actor) (*dto.AnalyticsResponse, error) {
		return nil, service.ErrNotEventOwner
	}
	router := newTestRouter(stubs)

	w, envelope := doRequest(router, http.MethodGet, "/api/v1/events/e-1/analytics", bearerToken(t, "intruder"), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, envelope.Error)
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	stubs := defaultStubs()
	stubs.pinger.err = context.DeadlineExceeded
	router := newTestRouter(stubs)

	w, envelope := doRequest(router, http.MethodGet, "/ready", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotNil(t, envelope.Error)

	stubs.pinger.err = nil
	w, _ = doRequest(router, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
