package api

import (
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
)

// Request DTOs

type CreateThreadRequest struct {
	Text           string `json:"text" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

type ReportThreadRequest struct {
	ThreadId string `json:"thread_id" validate:"required"`
}

type DeleteThreadRequest struct {
	ThreadId       string `json:"thread_id" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

// Response DTOs

// ThreadResponse is the public view of a thread. It never carries the
// delete password or the reported flag.
type ThreadResponse struct {
	Id         domain.ThreadId `json:"_id"`
	Text       domain.MsgText  `json:"text"`
	CreatedOn  time.Time       `json:"created_on"`
	BumpedOn   time.Time       `json:"bumped_on"`
	Replies    []ReplyResponse `json:"replies"`
	ReplyCount int             `json:"replycount"`
}

// NewThreadResponse projects t into its public view. With fullReplies the
// replies keep chronological order; otherwise only the last previewReplies
// are kept, newest first. ReplyCount is always the untruncated total.
func NewThreadResponse(t domain.Thread, fullReplies bool, previewReplies int) ThreadResponse {
	resp := ThreadResponse{
		Id:         t.Id,
		Text:       t.Text,
		CreatedOn:  t.CreatedOn,
		BumpedOn:   t.BumpedOn,
		ReplyCount: len(t.Replies),
	}

	if fullReplies {
		resp.Replies = make([]ReplyResponse, 0, len(t.Replies))
		for _, r := range t.Replies {
			resp.Replies = append(resp.Replies, newReplyResponse(r))
		}
		return resp
	}

	n := min(previewReplies, len(t.Replies))
	resp.Replies = make([]ReplyResponse, 0, n)
	for i := len(t.Replies) - 1; i >= len(t.Replies)-n; i-- {
		resp.Replies = append(resp.Replies, newReplyResponse(t.Replies[i]))
	}
	return resp
}

// NewThreadListResponse applies the preview projection to every thread.
func NewThreadListResponse(threads []domain.Thread, previewReplies int) []ThreadResponse {
	resp := make([]ThreadResponse, 0, len(threads))
	for _, t := range threads {
		resp = append(resp, NewThreadResponse(t, false, previewReplies))
	}
	return resp
}

// ReportedThreadResponse is the moderator's view: flags included, passwords never.
type ReportedThreadResponse struct {
	Id        domain.ThreadId         `json:"_id"`
	Board     domain.BoardShortName   `json:"board"`
	Text      domain.MsgText          `json:"text"`
	CreatedOn time.Time               `json:"created_on"`
	BumpedOn  time.Time               `json:"bumped_on"`
	Reported  bool                    `json:"reported"`
	Replies   []ReportedReplyResponse `json:"replies"`
}

func NewReportedThreadResponse(t domain.Thread) ReportedThreadResponse {
	resp := ReportedThreadResponse{
		Id:        t.Id,
		Board:     t.Board,
		Text:      t.Text,
		CreatedOn: t.CreatedOn,
		BumpedOn:  t.BumpedOn,
		Reported:  t.Reported,
		Replies:   make([]ReportedReplyResponse, 0, len(t.Replies)),
	}
	for _, r := range t.Replies {
		resp.Replies = append(resp.Replies, ReportedReplyResponse{
			ReplyResponse: newReplyResponse(r),
			Reported:      r.Reported,
		})
	}
	return resp
}
