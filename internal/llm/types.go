package llm

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a text generation request. JSONMode asks the
// provider to return a single well-formed JSON object, which content
// generation relies on.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the provider's reply.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// ImageRequest asks for one generated image.
type ImageRequest struct {
	Prompt string
	Model  string
	Size   string
}

// ImageResponse carries the generated image, either as a hosted URL or
// as raw bytes, depending on what the provider returns.
type ImageResponse struct {
	URL  string
	Data []byte
}
