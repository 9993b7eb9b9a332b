package selftest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
)

const redactedText = "[deleted]"

type step struct {
	title string
	run   func(s *session) error
}

// session carries ids between steps; steps run in order.
type session struct {
	ctx      context.Context
	target   http.Handler
	board    string
	threadId string
	replyId  string
}

type thread struct {
	Id         string  `json:"_id"`
	Text       string  `json:"text"`
	Replies    []reply `json:"replies"`
	ReplyCount int     `json:"replycount"`
}

type reply struct {
	Id   string `json:"_id"`
	Text string `json:"text"`
}

var steps = []step{
	{"Create thread: POST /api/threads/{board}", func(s *session) error {
		rr, err := s.do(http.MethodPost, "/api/threads/"+s.board, map[string]string{
			"text": "Hello", "delete_password": "pass123",
		})
		if err != nil {
			return err
		}
		raw, err := decodeObject(rr)
		if err != nil {
			return err
		}
		for _, field := range []string{"_id", "text", "created_on", "bumped_on"} {
			if _, ok := raw[field]; !ok {
				return fmt.Errorf("expected property %q", field)
			}
		}
		if err := noPrivateFields(raw); err != nil {
			return err
		}
		var t thread
		if err := json.Unmarshal(rr.Body.Bytes(), &t); err != nil {
			return err
		}
		if t.Text != "Hello" {
			return fmt.Errorf("expected text %q, got %q", "Hello", t.Text)
		}
		s.threadId = t.Id
		return nil
	}},
	{"Get threads: GET /api/threads/{board}", func(s *session) error {
		rr, err := s.do(http.MethodGet, "/api/threads/"+s.board, nil)
		if err != nil {
			return err
		}
		if err := expectStatus(rr, http.StatusOK); err != nil {
			return err
		}
		var list []map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
			return fmt.Errorf("expected an array: %w", err)
		}
		if len(list) == 0 || len(list) > 10 {
			return fmt.Errorf("expected between 1 and 10 threads, got %d", len(list))
		}
		return noPrivateFields(list[0])
	}},
	{"Report thread: PUT /api/threads/{board}", func(s *session) error {
		rr, err := s.do(http.MethodPut, "/api/threads/"+s.board, map[string]string{"thread_id": s.threadId})
		if err != nil {
			return err
		}
		return expectText(rr, "reported")
	}},
	{"Create reply: POST /api/replies/{board}", func(s *session) error {
		rr, err := s.do(http.MethodPost, "/api/replies/"+s.board, map[string]string{
			"thread_id": s.threadId, "text": "A reply", "delete_password": "passr",
		})
		if err != nil {
			return err
		}
		t, err := decodeThread(rr)
		if err != nil {
			return err
		}
		if len(t.Replies) != 1 {
			return fmt.Errorf("expected 1 reply, got %d", len(t.Replies))
		}
		s.replyId = t.Replies[len(t.Replies)-1].Id
		return nil
	}},
	{"Get thread with all replies: GET /api/replies/{board}", func(s *session) error {
		rr, err := s.do(http.MethodGet, "/api/replies/"+s.board+"?thread_id="+url.QueryEscape(s.threadId), nil)
		if err != nil {
			return err
		}
		t, err := decodeThread(rr)
		if err != nil {
			return err
		}
		if t.Replies == nil {
			return fmt.Errorf("expected replies array")
		}
		return nil
	}},
	{"Report reply: PUT /api/replies/{board}", func(s *session) error {
		rr, err := s.do(http.MethodPut, "/api/replies/"+s.board, map[string]string{
			"thread_id": s.threadId, "reply_id": s.replyId,
		})
		if err != nil {
			return err
		}
		return expectText(rr, "reported")
	}},
	{"Delete reply (wrong password): DELETE /api/replies/{board}", func(s *session) error {
		rr, err := s.do(http.MethodDelete, "/api/replies/"+s.board, map[string]string{
			"thread_id": s.threadId, "reply_id": s.replyId, "delete_password": "wrong",
		})
		if err != nil {
			return err
		}
		return expectText(rr, "incorrect password")
	}},
	{"Delete reply (correct password): DELETE /api/replies/{board}", func(s *session) error {
		rr, err := s.do(http.MethodDelete, "/api/replies/"+s.board, map[string]string{
			"thread_id": s.threadId, "reply_id": s.replyId, "delete_password": "passr",
		})
		if err != nil {
			return err
		}
		return expectText(rr, "success")
	}},
	{"Deleted reply is redacted: GET /api/replies/{board}", func(s *session) error {
		rr, err := s.do(http.MethodGet, "/api/replies/"+s.board+"?thread_id="+url.QueryEscape(s.threadId), nil)
		if err != nil {
			return err
		}
		t, err := decodeThread(rr)
		if err != nil {
			return err
		}
		if t.ReplyCount != 1 || len(t.Replies) != 1 {
			return fmt.Errorf("expected the reply to be kept, got replycount %d", t.ReplyCount)
		}
		if t.Replies[0].Text != redactedText {
			return fmt.Errorf("expected text %q, got %q", redactedText, t.Replies[0].Text)
		}
		return nil
	}},
	{"Delete thread (wrong password): DELETE /api/threads/{board}", func(s *session) error {
		rr, err := s.do(http.MethodDelete, "/api/threads/"+s.board, map[string]string{
			"thread_id": s.threadId, "delete_password": "nope",
		})
		if err != nil {
			return err
		}
		return expectText(rr, "incorrect password")
	}},
	{"Delete thread (correct password): DELETE /api/threads/{board}", func(s *session) error {
		rr, err := s.do(http.MethodDelete, "/api/threads/"+s.board, map[string]string{
			"thread_id": s.threadId, "delete_password": "pass123",
		})
		if err != nil {
			return err
		}
		return expectText(rr, "success")
	}},
	{"Deleted thread is not listed: GET /api/threads/{board}", func(s *session) error {
		rr, err := s.do(http.MethodGet, "/api/threads/"+s.board, nil)
		if err != nil {
			return err
		}
		if err := expectStatus(rr, http.StatusOK); err != nil {
			return err
		}
		var list []thread
		if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
			return fmt.Errorf("expected an array: %w", err)
		}
		for _, t := range list {
			if t.Id == s.threadId {
				return fmt.Errorf("thread %s is still listed", s.threadId)
			}
		}
		return nil
	}},
}

func (s *session) do(method, target string, body any) (*httptest.ResponseRecorder, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
	}
	req := httptest.NewRequestWithContext(s.ctx, method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.target.ServeHTTP(rr, req)
	return rr, nil
}

func expectStatus(rr *httptest.ResponseRecorder, status int) error {
	if rr.Code != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	return nil
}

func expectText(rr *httptest.ResponseRecorder, text string) error {
	if err := expectStatus(rr, http.StatusOK); err != nil {
		return err
	}
	if got := rr.Body.String(); got != text {
		return fmt.Errorf("expected %q, got %q", text, got)
	}
	return nil
}

func decodeObject(rr *httptest.ResponseRecorder) (map[string]any, error) {
	if err := expectStatus(rr, http.StatusOK); err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("expected a json object: %w", err)
	}
	return raw, nil
}

func decodeThread(rr *httptest.ResponseRecorder) (thread, error) {
	raw, err := decodeObject(rr)
	if err != nil {
		return thread{}, err
	}
	if err := noPrivateFields(raw); err != nil {
		return thread{}, err
	}
	replies, _ := raw["replies"].([]any)
	for _, r := range replies {
		if obj, ok := r.(map[string]any); ok {
			if err := noPrivateFields(obj); err != nil {
				return thread{}, err
			}
		}
	}
	var t thread
	if err := json.Unmarshal(rr.Body.Bytes(), &t); err != nil {
		return thread{}, err
	}
	return t, nil
}

func noPrivateFields(raw map[string]any) error {
	for _, field := range []string{"reported", "delete_password"} {
		if _, ok := raw[field]; ok {
			return fmt.Errorf("unexpected property %q", field)
		}
	}
	return nil
}
