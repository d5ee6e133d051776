package operations

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupstack/startupstack/internal/llm"
	"github.com/startupstack/startupstack/internal/quota"
)

func newTestHandler(gen *fakeGen, q *fakeQuota) *Handler {
	return NewHandler(NewService(gen, newFakeHistory(), q, nil))
}

func doDispatch(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/operations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Dispatch(rec, req)
	return rec
}

func TestDispatchHandler_Success(t *testing.T) {
	gen := &fakeGen{result: "1. Namely"}
	h := newTestHandler(gen, &fakeQuota{})

	rec := doDispatch(t, h, `{"operation":"generateBusinessNames","params":{"industry":"Technology","keywords":"innovation, AI"},"userId":"`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result string `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1. Namely", resp.Result)
}

func TestDispatchHandler_InvalidJSON(t *testing.T) {
	h := newTestHandler(&fakeGen{}, &fakeQuota{})

	rec := doDispatch(t, h, `{"operation":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON in request body")
}

func TestDispatchHandler_MissingOperation(t *testing.T) {
	h := newTestHandler(&fakeGen{}, &fakeQuota{})

	rec := doDispatch(t, h, `{"params":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Operation type is required")
}

func TestDispatchHandler_InvalidUserIDTreatedAsAnonymous(t *testing.T) {
	gen := &fakeGen{result: "ok"}
	q := &fakeQuota{}
	h := newTestHandler(gen, q)

	rec := doDispatch(t, h, `{"operation":"generateLogo","params":{"style":"minimal","industry":"Fintech"},"userId":"not-a-uuid"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, q.calls, "unmetered calls skip the quota check")
}

func TestDispatchHandler_UnsupportedOperation(t *testing.T) {
	h := newTestHandler(&fakeGen{}, &fakeQuota{})

	rec := doDispatch(t, h, `{"operation":"generatePoetry","params":{}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp unsupportedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Operation not supported: generatePoetry", resp.Error)
	assert.Equal(t, KindNames(), resp.SupportedOperations)
}

func TestDispatchHandler_MissingParams(t *testing.T) {
	h := newTestHandler(&fakeGen{}, &fakeQuota{})

	rec := doDispatch(t, h, `{"operation":"generateEmailTemplates","params":{"business":"Acme"}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required parameters: purpose, sequence for operation generateEmailTemplates")
}

func TestDispatchHandler_LimitIsHTTP200(t *testing.T) {
	q := &fakeQuota{err: quota.ErrLimitReached}
	h := newTestHandler(&fakeGen{result: "never"}, q)

	rec := doDispatch(t, h, `{"operation":"generateLogo","params":{"style":"minimal","industry":"Fintech"},"userId":"`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, "quota denials ride a success status")

	var resp limitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsLimit)
	assert.Equal(t, "FREE_TRIAL_LIMIT", resp.ErrorType)
	assert.Equal(t, quota.LimitMessage, resp.Error)
}

func TestDispatchHandler_BackendErrorStatuses(t *testing.T) {
	cases := []struct {
		name       string
		err        *llm.Error
		wantStatus int
		wantBody   string
	}{
		{"timeout", &llm.Error{Kind: llm.KindTimeout, Message: "deadline"}, http.StatusRequestTimeout, "Request to AI service timed out. Please try again."},
		{"network", &llm.Error{Kind: llm.KindNetworkUnavailable, Message: "refused"}, http.StatusServiceUnavailable, "Network error connecting to AI service. Please check your connection."},
		{"configuration", &llm.Error{Kind: llm.KindConfiguration, Message: "no key"}, http.StatusInternalServerError, ConfigErrorMessage},
		{"malformed", &llm.Error{Kind: llm.KindMalformedResponse, Message: "no choices"}, http.StatusInternalServerError, "No response from AI service"},
		{"backend fault", &llm.Error{Kind: llm.KindBackendFault, Message: "status 502"}, http.StatusInternalServerError, "AI service error: status 502"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(&fakeGen{err: tc.err}, &fakeQuota{})
			rec := doDispatch(t, h, `{"operation":"generateLogo","params":{"style":"minimal","industry":"Fintech"}}`)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}
