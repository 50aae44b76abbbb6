package domain

import (
	"time"

	"github.com/opsberry/deskfab/pkg/utils/cmp"
)

// Identity is who is asking. All fields default to "anonymous" when the
// caller presents no usable credential.
type Identity struct {
	UserId   string
	Username string
	Email    string
}

const Anonymous = "anonymous"

func AnonymousIdentity() Identity {
	return Identity{UserId: Anonymous, Username: Anonymous, Email: Anonymous}
}

// Turn is one persisted exchange: the user's query and the assistant's
// answer, with the reasoning trace captured along the way.
//
// Turns are append-only. They are partitioned by UserId and ordered by
// Timestamp; SessionId gives a secondary access path.
type Turn struct {
	UserId        string
	Timestamp     time.Time
	MessageId     string
	SessionId     string
	Username      string
	Email         string
	UserQuery     string
	Response      string
	ThinkingSteps []string
}

func (t Turn) Equal(o Turn) bool {
	return t.UserId == o.UserId &&
		t.Timestamp.Equal(o.Timestamp) &&
		t.MessageId == o.MessageId &&
		t.SessionId == o.SessionId &&
		t.Username == o.Username &&
		t.Email == o.Email &&
		t.UserQuery == o.UserQuery &&
		t.Response == o.Response &&
		cmp.SliceEq(t.ThinkingSteps, o.ThinkingSteps)
}

// SessionSummary is the newest turn of one session, as shown in a
// user's conversation history.
type SessionSummary struct {
	SessionId     string
	Timestamp     time.Time
	LatestMessage string
	Username      string
}
