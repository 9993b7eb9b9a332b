package domain

type (
	BoardShortName = string

	ThreadId = string
	ReplyId  = string

	MsgText  = string
	Password = string // plaintext on the way in, bcrypt hash once stored
)
