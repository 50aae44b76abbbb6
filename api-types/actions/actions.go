package actions

// Invocation is the payload the agent platform sends when a prepared
// agent calls a function of one of its action groups.
type Invocation struct {
	ActionGroup    string      `json:"actionGroup"`
	Function       string      `json:"function"`
	Parameters     []Parameter `json:"parameters,omitempty"`
	MessageVersion string      `json:"messageVersion,omitempty"`
}

type Parameter struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// Result wraps the function outcome in the envelope the platform
// expects back from an action executor.
type Result struct {
	Response       FunctionResponse `json:"response"`
	MessageVersion string           `json:"messageVersion"`
}

type FunctionResponse struct {
	ActionGroup      string       `json:"actionGroup"`
	Function         string       `json:"function"`
	FunctionResponse ResponseBody `json:"functionResponse"`
}

type ResponseBody struct {
	ResponseBody map[string]TextBody `json:"responseBody"`
}

type TextBody struct {
	Body string `json:"body"`
}

// NewTextResult builds a Result answering inv with a plain text body.
func NewTextResult(inv Invocation, text string) Result {
	version := inv.MessageVersion
	if version == "" {
		version = "1.0"
	}
	return Result{
		Response: FunctionResponse{
			ActionGroup: inv.ActionGroup,
			Function:    inv.Function,
			FunctionResponse: ResponseBody{
				ResponseBody: map[string]TextBody{
					"TEXT": {Body: text},
				},
			},
		},
		MessageVersion: version,
	}
}
