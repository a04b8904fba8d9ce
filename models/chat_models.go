package models

import "time"

// Role identifies who authored a turn in the conversation
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation log. It is never modified after creation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the body of POST /api/v1/chat. Subject and Context are
// omitted from the wire when empty.
type ChatRequest struct {
	Message string `json:"message"`
	Subject string `json:"subject,omitempty"`
	Context string `json:"context,omitempty"`
}

// ChatResponse is the success body of POST /api/v1/chat. Response is a
// pointer so a client can tell an absent field from an empty answer.
type ChatResponse struct {
	Response *string `json:"response,omitempty"`
	Model    string  `json:"model,omitempty"`
}

// SubjectsResponse is the body of GET /api/v1/subjects
type SubjectsResponse struct {
	Subjects *[]string `json:"subjects,omitempty"`
}

// LLMProvider represents the type of LLM provider
type LLMProvider string

const (
	ProviderAuto    LLMProvider = "auto"
	ProviderLocal   LLMProvider = "local"
	ProviderChatGPT LLMProvider = "chatgpt"
	ProviderDummy   LLMProvider = "dummy"
)
