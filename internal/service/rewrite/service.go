package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/exonizer/internal/logging"
)

const systemPrompt = `You rewrite AI-generated text so it reads as if a person wrote it.
Keep the meaning, language and approximate length of the input.
Vary sentence length, prefer plain words, drop filler and stock phrases.
Reply with the rewritten text only, without quotes or commentary.`

// Rewriter turns AI-generated text into humanized text.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// Service rewrites text with an eino chain over a chat model.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
	log   *logrus.Logger
}

// NewService compiles the rewrite chain for chatModel.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rewrite chain: %w", err)
	}

	return &Service{chain: runnable, log: logging.GetLogger()}, nil
}

// Rewrite runs the chain and returns the trimmed model output.
func (s *Service) Rewrite(ctx context.Context, text string) (string, error) {
	msg, err := s.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"text":   text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run rewrite chain: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("rewrite chain returned no message")
	}

	out := strings.TrimSpace(msg.Content)
	s.log.WithFields(logrus.Fields{
		"in":  len(text),
		"out": len(out),
	}).Debug("[rewrite] generated response")
	return out, nil
}

// Echo returns the input unchanged. Used when no chat model is configured.
type Echo struct{}

// Rewrite implements Rewriter.
func (Echo) Rewrite(_ context.Context, text string) (string, error) {
	return text, nil
}
