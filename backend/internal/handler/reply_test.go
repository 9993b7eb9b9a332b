package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replyRouter(h *Handler) chi.Router {
	router := chi.NewRouter()
	router.Post("/api/replies/{board}", h.CreateReply)
	router.Get("/api/replies/{board}", h.GetReplies)
	router.Put("/api/replies/{board}", h.ReportReply)
	router.Delete("/api/replies/{board}", h.DeleteReply)
	return router
}

func TestCreateReplyHandler(t *testing.T) {
	h := &Handler{}
	router := replyRouter(h)
	route := "/api/replies/general"

	t.Run("successful request", func(t *testing.T) {
		h.reply = &MockReplyService{MockCreate: func(threadId, text, password string) (domain.Thread, error) {
			assert.Equal(t, "t1", threadId)
			assert.Equal(t, "A reply", text)
			assert.Equal(t, "passr", password)
			return sampleThread(5), nil
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{"thread_id":"t1","text":"A reply","delete_password":"passr"}`)))

		require.Equal(t, http.StatusOK, rr.Code)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
		replies := raw["replies"].([]any)
		require.Len(t, replies, 5, "full view keeps every reply")
		assert.Equal(t, "r0", replies[0].(map[string]any)["_id"], "chronological order")
		assert.EqualValues(t, 5, raw["replycount"])
	})

	t.Run("thread not found", func(t *testing.T) {
		h.reply = &MockReplyService{MockCreate: func(string, string, string) (domain.Thread, error) {
			return domain.Thread{}, internal_errors.NotFound("thread not found")
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{"thread_id":"nope","text":"x","delete_password":"p"}`)))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"thread not found"}`, rr.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{"text":"x"}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"missing required fields: thread_id, delete_password"}`, rr.Body.String())
	})
}

func TestGetRepliesHandler(t *testing.T) {
	h := &Handler{}
	router := replyRouter(h)

	t.Run("found", func(t *testing.T) {
		h.reply = &MockReplyService{MockGet: func(threadId string) (domain.Thread, error) {
			assert.Equal(t, "t1", threadId)
			return sampleThread(2), nil
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/replies/general?thread_id=t1", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
		assert.Len(t, raw["replies"], 2)
		assert.NotContains(t, raw, "reported")
	})

	t.Run("not found", func(t *testing.T) {
		h.reply = &MockReplyService{MockGet: func(string) (domain.Thread, error) {
			return domain.Thread{}, internal_errors.NotFound("thread not found")
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/replies/general?thread_id=zzz", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing thread id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/replies/general", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"missing required fields: thread_id"}`, rr.Body.String())
	})
}

func TestReportReplyHandler(t *testing.T) {
	h := &Handler{}
	router := replyRouter(h)

	h.reply = &MockReplyService{MockReport: func(threadId, replyId string) error {
		assert.Equal(t, "t1", threadId)
		assert.Equal(t, "missing", replyId)
		return nil
	}}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, createRequest(t, http.MethodPut, "/api/replies/general", []byte(`{"thread_id":"t1","reply_id":"missing"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "reported", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, createRequest(t, http.MethodPut, "/api/replies/general", []byte(`{"thread_id":"t1"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteReplyHandler(t *testing.T) {
	h := &Handler{}
	router := replyRouter(h)
	body := []byte(`{"thread_id":"t1","reply_id":"r1","delete_password":"passr"}`)

	tests := []struct {
		name     string
		outcome  domain.DeleteOutcome
		err      error
		status   int
		expected string
	}{
		{"success", domain.DeleteSuccess, nil, http.StatusOK, "success"},
		{"wrong password", domain.DeleteWrongPassword, nil, http.StatusOK, "incorrect password"},
		{"not found", domain.DeleteNotFound, nil, http.StatusOK, "incorrect password"},
		{"service error", domain.DeleteNotFound, errors.New("db down"), http.StatusInternalServerError, `{"error":"internal server error"}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.reply = &MockReplyService{MockDelete: func(threadId, replyId, password string) (domain.DeleteOutcome, error) {
				assert.Equal(t, "t1", threadId)
				assert.Equal(t, "r1", replyId)
				assert.Equal(t, "passr", password)
				return tt.outcome, tt.err
			}}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, createRequest(t, http.MethodDelete, "/api/replies/general", body))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.expected, rr.Body.String())
		})
	}
}
