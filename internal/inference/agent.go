package inference

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Agent is the model backend used by a stage adapter.
type Agent interface {
	Chat(ctx context.Context, prompt string) (string, error)
	Vision(ctx context.Context, prompt string, images []string) (string, error)
}

type modelAgent struct {
	cfg gaconfig.AgentConfig
}

// NewAgent binds an Agent to a go-agents configuration.
// A fresh go-agents agent is created per call so concurrent runs share nothing.
func NewAgent(cfg gaconfig.AgentConfig) Agent {
	return &modelAgent{cfg: cfg}
}

func (m *modelAgent) Chat(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&m.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Content(), nil
}

func (m *modelAgent) Vision(ctx context.Context, prompt string, images []string) (string, error) {
	a, err := agent.New(&m.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Vision(ctx, prompt, images)
	if err != nil {
		return "", fmt.Errorf("vision call: %w", err)
	}

	return resp.Content(), nil
}
