package service

import "context"

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionClient produces an assistant reply for a system prompt and conversation.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt string, turns []ChatTurn) (string, error)
}
