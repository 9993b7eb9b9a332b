package domain

import (
	"time"
)

// RedactedText replaces the text of a reply deleted by its author.
// The reply itself stays in the thread so reply counts and ordering hold.
const RedactedText MsgText = "[deleted]"

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Board          BoardShortName
	Text           MsgText
	DeletePassword Password
}

type ReplyCreationData struct {
	ThreadId       ThreadId
	Text           MsgText
	DeletePassword Password
}

type Reply struct {
	Id             ReplyId
	Text           MsgText
	CreatedOn      time.Time
	Reported       bool
	DeletePassword Password
}

type Thread struct {
	Id             ThreadId
	Board          BoardShortName
	Text           MsgText
	CreatedOn      time.Time
	BumpedOn       time.Time
	Reported       bool
	DeletePassword Password
	Replies        []Reply // chronological
}

// Clone returns a copy of t that shares no memory with it.
func (t Thread) Clone() Thread {
	c := t
	c.Replies = make([]Reply, len(t.Replies))
	copy(c.Replies, t.Replies)
	return c
}

// Reply returns a pointer into t.Replies or nil.
func (t *Thread) Reply(id ReplyId) *Reply {
	for i := range t.Replies {
		if t.Replies[i].Id == id {
			return &t.Replies[i]
		}
	}
	return nil
}

// HasReports reports whether the thread or any of its replies was reported.
func (t Thread) HasReports() bool {
	if t.Reported {
		return true
	}
	for _, r := range t.Replies {
		if r.Reported {
			return true
		}
	}
	return false
}

// DeleteOutcome is the result of a password-authorized delete.
type DeleteOutcome int

const (
	DeleteNotFound DeleteOutcome = iota
	DeleteWrongPassword
	DeleteSuccess
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteSuccess:
		return "success"
	case DeleteWrongPassword:
		return "wrong password"
	default:
		return "not found"
	}
}
