package api

import (
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
)

// Request DTOs

type CreateReplyRequest struct {
	ThreadId       string `json:"thread_id" validate:"required"`
	Text           string `json:"text" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

// GetRepliesRequest is read from the query string.
type GetRepliesRequest struct {
	ThreadId string `json:"thread_id" validate:"required"`
}

type ReportReplyRequest struct {
	ThreadId string `json:"thread_id" validate:"required"`
	ReplyId  string `json:"reply_id" validate:"required"`
}

type DeleteReplyRequest struct {
	ThreadId       string `json:"thread_id" validate:"required"`
	ReplyId        string `json:"reply_id" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

// Response DTOs

type ReplyResponse struct {
	Id        domain.ReplyId `json:"_id"`
	Text      domain.MsgText `json:"text"`
	CreatedOn time.Time      `json:"created_on"`
}

type ReportedReplyResponse struct {
	ReplyResponse
	Reported bool `json:"reported"`
}

func newReplyResponse(r domain.Reply) ReplyResponse {
	return ReplyResponse{Id: r.Id, Text: r.Text, CreatedOn: r.CreatedOn}
}
