package completion

import (
	"context"
	"fmt"
	"strings"

	iriscore "github.com/petal-labs/iris/core"
	"github.com/petal-labs/iris/providers"
	_ "github.com/petal-labs/iris/providers/anthropic"
	_ "github.com/petal-labs/iris/providers/ollama"
	_ "github.com/petal-labs/iris/providers/openai"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type chatProvider interface {
	Chat(ctx context.Context, req *iriscore.ChatRequest) (*iriscore.ChatResponse, error)
}

// IrisClient routes prompts through an iris provider (openai, anthropic, ollama).
type IrisClient struct {
	provider chatProvider
	model    string
}

func NewIrisClient(providerName, apiKey, model string) (*IrisClient, error) {
	provider, err := providers.Create(providerName, apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating provider %q: %w", providerName, err)
	}
	return newIrisClient(provider, model), nil
}

func newIrisClient(provider chatProvider, model string) *IrisClient {
	return &IrisClient{provider: provider, model: model}
}

func (c *IrisClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.provider.Chat(ctx, &iriscore.ChatRequest{
		Model: iriscore.ModelID(c.model),
		Messages: []iriscore.Message{{
			Role:    iriscore.RoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("provider chat failed: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Output) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Output), nil
}

var _ ports.CompletionClient = (*IrisClient)(nil)
