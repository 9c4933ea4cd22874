package openaiGen

import (
	"context"
	"errors"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/pipeline/testgen"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

// GetOpenAIClient is the alternate completion backend, selected with
// TESTGEN_PROVIDER=openai.
func GetOpenAIClient(modelName string, apikey string) testgen.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI api key missing")
			return
		}
		openaiClient = &llmClient{
			client:    openai.NewClient(option.WithAPIKey(apikey)),
			modelName: modelName,
		}
		logger.Info("OpenAI client created")
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.TestGenSystemInstruction),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		log.Error("Error generating test cases with OpenAI", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty openai response")
	}
	return completion.Choices[0].Message.Content, nil
}
