package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/conference-booking/internal/auth"
	"github.com/Shivanand-hulikatti/conference-booking/internal/cache"
	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/repository"
	"github.com/Shivanand-hulikatti/conference-booking/internal/service"
)

type testServer struct {
	t        *testing.T
	srv      *httptest.Server
	verifier *auth.Verifier
}

func newHandler() *ConferenceHandler {
	store := repository.NewMemoryStore()
	names := cache.NewDisplayNames(store.DisplayNames, time.Minute, time.Minute)
	policy := service.RetryPolicy{MaxAttempts: 10}

	return NewConferenceHandler(
		service.NewConferenceService(store, names, policy),
		service.NewRegistrationCoordinator(store, policy),
		service.NewProfileService(store, names, policy),
	)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	h := newHandler()
	verifier := auth.NewVerifier("handler-test-secret", "conferenced")
	srv := httptest.NewServer(NewRouter(h, verifier, RouterOptions{MetricsPath: "/metrics"}))
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, verifier: verifier}
}

func (s *testServer) token(userID string) string {
	s.t.Helper()
	tok, err := s.verifier.Issue(model.Identity{UserID: userID, Email: userID + "@example.com", Nickname: userID}, time.Hour)
	require.NoError(s.t, err)
	return tok
}

// do sends body as JSON (when non-nil) with a bearer token for userID (when
// non-empty) and decodes the response into out (when non-nil).
func (s *testServer) do(method, path, userID string, body, out any) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(userID))
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	var errResp model.ErrorResponse
	status := s.do(http.MethodPost, "/conferences", "", model.ConferenceForm{Name: strp("x")}, &errResp)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, errResp.Error, "authorization required")

	req, err := http.NewRequest(http.MethodGet, s.srv.URL+"/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer forged")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConferenceLifecycle(t *testing.T) {
	s := newTestServer(t)

	var conf model.Conference
	status := s.do(http.MethodPost, "/conferences", "org", model.ConferenceForm{
		Name: strp("GopherCon"), City: strp("denver"), MaxAttendees: intp(1), StartDate: strp("2026-07-14"),
	}, &conf)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Denver", conf.City)
	assert.Equal(t, 1, conf.SeatsAvailable)
	assert.Equal(t, 7, conf.Month)

	var got model.Conference
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/conferences/"+conf.Key, "", nil, &got))
	assert.Equal(t, "org", got.OrganizerDisplayName)

	var result model.BooleanResult
	path := "/conferences/" + conf.Key + "/registration"
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, path, "alice", nil, &result))
	assert.True(t, result.Data)

	var errResp model.ErrorResponse
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, path, "bob", nil, &errResp))
	assert.Contains(t, errResp.Error, "no seats")

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, path, "alice", nil, &errResp))
	assert.Contains(t, errResp.Error, "already registered")

	var attending []model.Conference
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/conferences/attending", "alice", nil, &attending))
	require.Len(t, attending, 1)
	assert.Equal(t, conf.Key, attending[0].Key)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, "alice", nil, &result))
	assert.True(t, result.Data)
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, "alice", nil, &result))
	assert.False(t, result.Data)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, path, "bob", nil, &result))
	assert.True(t, result.Data)
}

func TestUpdateConference(t *testing.T) {
	s := newTestServer(t)

	var conf model.Conference
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/conferences", "org", model.ConferenceForm{Name: strp("Old")}, &conf))

	var errResp model.ErrorResponse
	assert.Equal(t, http.StatusForbidden,
		s.do(http.MethodPut, "/conferences/"+conf.Key, "mallory", model.ConferenceForm{Name: strp("Mine")}, &errResp))

	assert.Equal(t, http.StatusBadRequest,
		s.do(http.MethodPut, "/conferences/"+conf.Key, "org", model.ConferenceForm{EndDate: strp("soon")}, &errResp))
	assert.Equal(t, "endDate", errResp.Field)

	var updated model.Conference
	require.Equal(t, http.StatusOK,
		s.do(http.MethodPut, "/conferences/"+conf.Key, "org", model.ConferenceForm{Name: strp("New")}, &updated))
	assert.Equal(t, "New", updated.Name)

	assert.Equal(t, http.StatusNotFound,
		s.do(http.MethodPut, "/conferences/missing", "org", model.ConferenceForm{Name: strp("x")}, &errResp))
}

func TestQueryConferences(t *testing.T) {
	s := newTestServer(t)
	for i, city := range []string{"London", "Paris", "London"} {
		form := model.ConferenceForm{Name: strp(fmt.Sprintf("Conf %d", i)), City: strp(city), MaxAttendees: intp(10 * (i + 1))}
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/conferences", "org", form, nil))
	}

	var confs []model.Conference
	req := model.QueryRequest{Filters: []model.FilterSpec{
		{Field: "CITY", Operator: "EQ", Value: "london"},
		{Field: "MAX_ATTENDEES", Operator: "GTEQ", Value: "20"},
	}}
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/conferences/query", "", req, &confs))
	require.Len(t, confs, 1)
	assert.Equal(t, "Conf 2", confs[0].Name)

	var errResp model.ErrorResponse
	bad := model.QueryRequest{Filters: []model.FilterSpec{{Field: "COLOR", Operator: "EQ", Value: "red"}}}
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/conferences/query", "", bad, &errResp))
	assert.Equal(t, "filters", errResp.Field)

	confs = nil
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/conferences/query", "", nil, &confs))
	assert.Len(t, confs, 3)
}

func TestQueryConferences_EmptyChunkedBody(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/conferences/query", io.NopCloser(strings.NewReader("")))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec := httptest.NewRecorder()
	h.QueryConferences(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/conferences/query", io.NopCloser(strings.NewReader(`{"filters":`)))
	req.ContentLength = -1
	rec = httptest.NewRecorder()
	h.QueryConferences(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)

	var prof model.Profile
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/profile", "ann", nil, &prof))
	assert.Equal(t, "ann", prof.DisplayName)
	assert.Equal(t, model.SizeNotSpecified, prof.TeeShirtSize)

	require.Equal(t, http.StatusOK,
		s.do(http.MethodPost, "/profile", "ann", model.ProfileForm{DisplayName: "Ann", TeeShirtSize: model.SizeSW}, &prof))
	assert.Equal(t, "Ann", prof.DisplayName)
	assert.Equal(t, model.SizeSW, prof.TeeShirtSize)

	var errResp model.ErrorResponse
	assert.Equal(t, http.StatusBadRequest,
		s.do(http.MethodPost, "/profile", "ann", map[string]string{"nickname": "x"}, &errResp))

	var created []model.Conference
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/conferences/created", "ann", nil, &created))
	assert.Empty(t, created)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, s.srv.URL+"/conferences", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/health", "", nil, nil)

	resp, err := http.Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), `http_requests_total{method="GET",path="/health",status="200"}`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.NewValidationError("name", "required"), http.StatusBadRequest},
		{model.ErrUnauthenticated, http.StatusUnauthorized},
		{model.ErrNotOrganizer, http.StatusForbidden},
		{model.ErrConferenceNotFound, http.StatusNotFound},
		{model.ErrAlreadyRegistered, http.StatusConflict},
		{model.ErrNoSeats, http.StatusConflict},
		{fmt.Errorf("%w: retry later", model.ErrTransient), http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
