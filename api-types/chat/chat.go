package chat

// Request is a question for the assistant.
//
// SessionId is optional. When it is empty, the server opens a new session
// and returns its id in Response.
type Request struct {
	Message   string `json:"message"`
	SessionId string `json:"sessionId,omitempty"`
}

// Response carries the assistant's answer for one Request.
//
// ThinkingSteps are the rationale texts emitted by the supervisor while
// routing the request, in the order they were produced.
type Response struct {
	Response      string   `json:"response"`
	ThinkingSteps []string `json:"thinkingSteps"`
	SessionId     string   `json:"sessionId"`
}

func (r Response) Equal(o Response) bool {
	if len(r.ThinkingSteps) != len(o.ThinkingSteps) {
		return false
	}
	for i := range r.ThinkingSteps {
		if r.ThinkingSteps[i] != o.ThinkingSteps[i] {
			return false
		}
	}
	return r.Response == o.Response && r.SessionId == o.SessionId
}
