package conversations

// Summary is one session in a user's conversation history,
// represented by its most recent turn.
type Summary struct {
	SessionId     string `json:"sessionId"`
	Timestamp     string `json:"timestamp"`
	LatestMessage string `json:"latestMessage"`
	Username      string `json:"username"`
}

type History struct {
	Conversations []Summary `json:"conversations"`
}

// Message is one stored exchange within a session.
type Message struct {
	Timestamp     string   `json:"timestamp"`
	UserQuery     string   `json:"userQuery"`
	Response      string   `json:"response"`
	ThinkingSteps []string `json:"thinkingSteps"`
}

type Messages struct {
	Messages  []Message `json:"messages"`
	SessionId string    `json:"sessionId"`
}

func (m Message) Equal(o Message) bool {
	if len(m.ThinkingSteps) != len(o.ThinkingSteps) {
		return false
	}
	for i := range m.ThinkingSteps {
		if m.ThinkingSteps[i] != o.ThinkingSteps[i] {
			return false
		}
	}
	return m.Timestamp == o.Timestamp &&
		m.UserQuery == o.UserQuery &&
		m.Response == o.Response
}
