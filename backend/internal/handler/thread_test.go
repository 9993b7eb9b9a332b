package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threadRouter(h *Handler) chi.Router {
	router := chi.NewRouter()
	router.Post("/api/threads/{board}", h.CreateThread)
	router.Get("/api/threads/{board}", h.GetThreads)
	router.Put("/api/threads/{board}", h.ReportThread)
	router.Delete("/api/threads/{board}", h.DeleteThread)
	return router
}

func sampleThread(replies int) domain.Thread {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t := domain.Thread{
		Id: "t1", Board: "general", Text: "Hello",
		CreatedOn: created, BumpedOn: created.Add(time.Duration(replies) * time.Minute),
		Reported: true, DeletePassword: "hash",
		Replies: []domain.Reply{},
	}
	for i := 0; i < replies; i++ {
		t.Replies = append(t.Replies, domain.Reply{
			Id: "r" + string(rune('0'+i)), Text: "reply", CreatedOn: created.Add(time.Duration(i+1) * time.Minute),
			Reported: true, DeletePassword: "hash",
		})
	}
	return t
}

func TestCreateThreadHandler(t *testing.T) {
	h := &Handler{cfg: &config.Config{Public: config.Default().Public}}
	router := threadRouter(h)
	route := "/api/threads/general"

	t.Run("successful request", func(t *testing.T) {
		var gotBoard, gotText, gotPassword string
		h.thread = &MockThreadService{MockCreate: func(board, text, password string) (domain.Thread, error) {
			gotBoard, gotText, gotPassword = board, text, password
			return sampleThread(0), nil
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{"text":"Hello","delete_password":"pass123"}`)))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "general", gotBoard)
		assert.Equal(t, "Hello", gotText)
		assert.Equal(t, "pass123", gotPassword)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
		for _, field := range []string{"_id", "text", "created_on", "bumped_on", "replies", "replycount"} {
			assert.Contains(t, raw, field)
		}
		assert.NotContains(t, raw, "reported")
		assert.NotContains(t, raw, "delete_password")
		assert.Equal(t, []any{}, raw["replies"])
	})

	t.Run("form body", func(t *testing.T) {
		h.thread = &MockThreadService{MockCreate: func(board, text, password string) (domain.Thread, error) {
			assert.Equal(t, "from form", text)
			return sampleThread(0), nil
		}}
		body := url.Values{"text": {"from form"}, "delete_password": {"pw"}}.Encode()
		req := httptest.NewRequest(http.MethodPost, route, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		h.thread = &MockThreadService{MockCreate: func(string, string, string) (domain.Thread, error) {
			t.Fatal("service must not be called")
			return domain.Thread{}, nil
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{"text":"Hello"}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"missing required fields: delete_password"}`, rr.Body.String())
	})

	t.Run("invalid json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{ivalid json::}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service error", func(t *testing.T) {
		h.thread = &MockThreadService{MockCreate: func(string, string, string) (domain.Thread, error) {
			return domain.Thread{}, errors.New("mock create error")
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{"text":"Hello","delete_password":"pw"}`)))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
	})
}

func TestGetThreadsHandler(t *testing.T) {
	h := &Handler{cfg: &config.Config{Public: config.Default().Public}}
	router := threadRouter(h)

	t.Run("truncated view", func(t *testing.T) {
		h.thread = &MockThreadService{MockList: func(board string) ([]domain.Thread, error) {
			assert.Equal(t, "general", board)
			return []domain.Thread{sampleThread(5)}, nil
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/threads/general", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.EqualValues(t, 5, list[0]["replycount"])
		replies := list[0]["replies"].([]any)
		require.Len(t, replies, 3)
		assert.Equal(t, "r4", replies[0].(map[string]any)["_id"], "newest reply first")
		assert.NotContains(t, replies[0], "reported")
		assert.NotContains(t, replies[0], "delete_password")
	})

	t.Run("empty board", func(t *testing.T) {
		h.thread = &MockThreadService{}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/threads/empty", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]\n", rr.Body.String())
	})

	t.Run("service error", func(t *testing.T) {
		h.thread = &MockThreadService{MockList: func(string) ([]domain.Thread, error) {
			return nil, errors.New("db down")
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/api/threads/general", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestReportThreadHandler(t *testing.T) {
	h := &Handler{}
	router := threadRouter(h)

	t.Run("reported", func(t *testing.T) {
		var gotId string
		h.thread = &MockThreadService{MockReport: func(id string) error {
			gotId = id
			return nil
		}}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPut, "/api/threads/general", []byte(`{"thread_id":"t1"}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "reported", rr.Body.String())
		assert.Equal(t, "t1", gotId)
	})

	t.Run("missing thread id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPut, "/api/threads/general", []byte(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteThreadHandler(t *testing.T) {
	h := &Handler{}
	router := threadRouter(h)
	body := []byte(`{"thread_id":"t1","delete_password":"pw"}`)

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
			h.thread = &MockThreadService{MockDelete: func(board, id, password string) (domain.DeleteOutcome, error) {
				assert.Equal(t, "general", board)
				assert.Equal(t, "t1", id)
				assert.Equal(t, "pw", password)
				return tt.outcome, tt.err
			}}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, createRequest(t, http.MethodDelete, "/api/threads/general", body))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.expected, rr.Body.String())
		})
	}

	t.Run("missing password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodDelete, "/api/threads/general", []byte(`{"thread_id":"t1"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
