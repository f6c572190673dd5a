package ai

// Role identifies who authored a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a structured request from the model to run one tool.
type ToolCall struct {
	// ID correlates the call with the tool-result message answering it.
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Message is one entry of the conversation log.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`

	// ToolCalls is only populated on assistant messages.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolName and ToolCallID are only populated on tool-result messages.
	ToolName   string `json:"tool_name,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Failed marks a tool result whose adapter reported a failure.
	Failed bool `json:"failed,omitempty"`
}

// HasToolCalls reports whether the message still requests a tool.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// IsTerminal reports whether an assistant message carries a final answer:
// natural-language content and no pending tool call.
func (m Message) IsTerminal() bool {
	return m.Role == RoleAssistant && m.Content != "" && !m.HasToolCalls()
}

// System builds a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ParamType enumerates the JSON types a tool parameter may take.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
	// Properties is used when Type is TypeObject.
	Properties []Param
}

// ToolSchema is the input contract a tool presents to the model.
type ToolSchema struct {
	Name        string
	Description string
	Params      []Param
}
