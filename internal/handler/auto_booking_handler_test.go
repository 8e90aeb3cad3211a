package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/seatbook-api/internal/dto"
	"github.com/noah-isme/seatbook-api/internal/middleware"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
)

type autoBookingServiceMock struct {
	req      dto.RunAutoBookingRequest
	actorID  string
	ctxErr   error
	err      error
	preview  *dto.AutoBookingPreview
	cacheHit bool
}

func (m *autoBookingServiceMock) Run(ctx context.Context, req dto.RunAutoBookingRequest, actorID string) (*dto.AutoBookingResult, error) {
	m.req = req
	m.actorID = actorID
	m.ctxErr = ctx.Err()
	if m.err != nil {
		return nil, m.err
	}
	result := dto.NewAutoBookingResult("run-1", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	result.AddSuccess(dto.AutoBookingSuccess{UserID: "u1", Username: "alice", BookingsCreated: 3})
	return result, nil
}

func (m *autoBookingServiceMock) Preview(ctx context.Context) (*dto.AutoBookingPreview, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	return m.preview, m.cacheHit, nil
}

type ensurerMock struct {
	userID string
	err    error
}

func (m *ensurerMock) EnsureUser(userID string) (*dto.EnsureAutoBookingResponse, error) {
	m.userID = userID
	if m.err != nil {
		return nil, m.err
	}
	return &dto.EnsureAutoBookingResponse{UserID: userID, Weeks: []string{"2024-06-10"}, Queued: []string{"2024-06-10"}}, nil
}

func TestAutoBookingHandlerRun(t *testing.T) {
	svc := &autoBookingServiceMock{}
	h := NewAutoBookingHandler(svc, nil)

	c, w := newContext(http.MethodPost, "/admin/auto-bookings", `{"weekStartDate":"2024-06-10","userIds":["u1"]}`, adminClaims())
	h.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-06-10", svc.req.WeekStartDate)
	assert.Equal(t, []string{"u1"}, svc.req.UserIDs)
	assert.Equal(t, "admin-1", svc.actorID)

	env := decode(t, w)
	assert.Contains(t, string(env.Data), `"successful":1`)
	assert.Contains(t, string(env.Data), `"bookingsCreated":3`)
}

func TestAutoBookingHandlerRunSurvivesClientDisconnect(t *testing.T) {
	svc := &autoBookingServiceMock{}
	h := NewAutoBookingHandler(svc, nil)

	c, w := newContext(http.MethodPost, "/admin/auto-bookings", `{"weekStartDate":"2024-06-10"}`, adminClaims())
	ctx, cancel := context.WithCancel(c.Request.Context())
	cancel()
	c.Request = c.Request.WithContext(ctx)
	h.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, svc.ctxErr)
}

func TestAutoBookingHandlerRunErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"malformed body", `{"weekStartDate":`, nil, http.StatusBadRequest, appErrors.ErrValidation.Code},
		{"not a monday", `{"weekStartDate":"2024-06-12"}`, appErrors.Clone(appErrors.ErrValidation, "week start must be a Monday"), http.StatusBadRequest, appErrors.ErrValidation.Code},
		{"run in progress", `{"weekStartDate":"2024-06-10"}`, appErrors.ErrRunInProgress, http.StatusConflict, appErrors.ErrRunInProgress.Code},
		{"snapshot failure", `{"weekStartDate":"2024-06-10"}`, appErrors.Wrap(errors.New("boom"), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users"), http.StatusInternalServerError, appErrors.ErrInternal.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAutoBookingHandler(&autoBookingServiceMock{err: tc.err}, nil)
			c, w := newContext(http.MethodPost, "/admin/auto-bookings", tc.body, adminClaims())
			h.Run(c)

			assert.Equal(t, tc.status, w.Code)
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestAutoBookingHandlerPreferencesReportsCacheHit(t *testing.T) {
	svc := &autoBookingServiceMock{preview: &dto.AutoBookingPreview{TotalUsers: 4, EligibleForAutoBooking: 2}, cacheHit: true}
	h := NewAutoBookingHandler(svc, nil)

	c, w := newContext(http.MethodGet, "/admin/auto-bookings/preferences", "", adminClaims())
	middleware.WithResponseMeta()(c)
	h.Preferences(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, string(env.Data), `"totalUsers":4`)
	assert.Contains(t, string(env.Data), `"eligibleForAutoBooking":2`)
}

func TestAutoBookingHandlerEnsure(t *testing.T) {
	ensurer := &ensurerMock{}
	h := NewAutoBookingHandler(&autoBookingServiceMock{}, ensurer)

	c, w := newContext(http.MethodPost, "/bookings/auto/ensure", "", employeeClaims())
	h.Ensure(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "emp-1", ensurer.userID)
	assert.Contains(t, string(decode(t, w).Data), `"queued":["2024-06-10"]`)
}

func TestAutoBookingHandlerEnsureErrors(t *testing.T) {
	h := NewAutoBookingHandler(&autoBookingServiceMock{}, &ensurerMock{})
	c, w := newContext(http.MethodPost, "/bookings/auto/ensure", "", nil)
	h.Ensure(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h = NewAutoBookingHandler(&autoBookingServiceMock{}, nil)
	c, w = newContext(http.MethodPost, "/bookings/auto/ensure", "", employeeClaims())
	h.Ensure(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	h = NewAutoBookingHandler(&autoBookingServiceMock{}, &ensurerMock{err: appErrors.Clone(appErrors.ErrServiceUnavailable, "queue full")})
	c, w = newContext(http.MethodPost, "/bookings/auto/ensure", "", employeeClaims())
	h.Ensure(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
