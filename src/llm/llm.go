// Package llm talks to an OpenAI-compatible chat completions endpoint
// (OpenRouter by default) and implements the two answering strategies.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL         = "https://openrouter.ai/api/v1/"
	DefaultVisionModel     = "openai/gpt-4o"
	DefaultAnswerModel     = "openai/o1-preview"
	appReferer             = "https://github.com/screen-answer-overlay/screen-answer-overlay"
	appTitle               = "Screen Answer Overlay"
	directAnswerPrompt     = "Answer to the test in the image attached, be concise and to the point"
	transcribeQuizPrompt   = "Your task is to extract text from the quiz on screen. If there's an image, you should explain the content of it for someone to be able to answer the question without having to look at the image. If there are multiple choices, transcribe those too. Ignore other things on screen."
	exactAnswerInstruction = "Your task is to provide only the exact answer without any explanations."
)

// ErrEmptyResponse is returned when the model produced no content.
var ErrEmptyResponse = errors.New("empty response from model")

// TransportError wraps a network or HTTP failure from the inference endpoint.
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("inference call to %s failed: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type Config struct {
	APIKey  string
	BaseURL string
	// DirectModel answers straight from the screenshot.
	DirectModel string
	// TranscribeModel turns the screenshot into quiz text.
	TranscribeModel string
	// AnswerModel extracts the exact answer from the transcription.
	AnswerModel string
	HTTPClient  *http.Client
}

// Client is safe for concurrent use; every triggered job shares one.
type Client struct {
	api openai.Client
	cfg Config
	log zerolog.Logger
}

// New validates cfg and builds a client. Retries are disabled: every call is
// a single request/response.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required")
	}
	if cfg.DirectModel == "" || cfg.TranscribeModel == "" || cfg.AnswerModel == "" {
		return nil, errors.New("direct, transcribe and answer models are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	cfg.BaseURL = baseURL

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHeader("HTTP-Referer", appReferer),
		option.WithHeader("X-Title", appTitle),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		api: openai.NewClient(opts...),
		cfg: cfg,
		log: log.With().Str("component", "llm").Logger(),
	}, nil
}

// Call sends one chat completion and returns the concatenated content of
// all choices.
func (c *Client) Call(ctx context.Context, model string, msgs []openai.ChatCompletionMessageParamUnion) (string, error) {
	start := time.Now()
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: msgs,
	})
	if err != nil {
		return "", &TransportError{Model: model, Err: err}
	}

	var b strings.Builder
	for _, choice := range completion.Choices {
		b.WriteString(choice.Message.Content)
	}
	text := strings.TrimSpace(b.String())
	c.log.Debug().
		Str("model", model).
		Int("choices", len(completion.Choices)).
		Int("chars", len(text)).
		Dur("took", time.Since(start)).
		Msg("completion received")

	if text == "" {
		return "", fmt.Errorf("%s: %w", model, ErrEmptyResponse)
	}
	return text, nil
}

// AnswerFromImage asks the direct model to answer the quiz in the image.
func (c *Client) AnswerFromImage(ctx context.Context, imageURL string) (string, error) {
	return c.Call(ctx, c.cfg.DirectModel, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(directAnswerPrompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL}),
		}),
	})
}

// AnswerFromImageViaTranscription transcribes the quiz first and then asks
// the answer model for the exact answer. The second call is skipped if the
// transcription fails.
func (c *Client) AnswerFromImageViaTranscription(ctx context.Context, imageURL string) (string, error) {
	quiz, err := c.Transcribe(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	answer, err := c.ExactAnswer(ctx, quiz)
	if err != nil {
		return "", fmt.Errorf("answer extraction failed: %w", err)
	}
	return answer, nil
}

// Transcribe returns the quiz on screen as text, including choices and a
// description of any picture.
func (c *Client) Transcribe(ctx context.Context, imageURL string) (string, error) {
	return c.Call(ctx, c.cfg.TranscribeModel, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(transcribeQuizPrompt),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL}),
		}),
	})
}

// ExactAnswer asks for only the answer to a transcribed quiz.
func (c *Client) ExactAnswer(ctx context.Context, quiz string) (string, error) {
	return c.Call(ctx, c.cfg.AnswerModel, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(exactAnswerInstruction),
		openai.UserMessage(quiz),
	})
}

// Models reports the configured model IDs for startup logging.
func (c *Client) Models() (direct, transcribe, answer string) {
	return c.cfg.DirectModel, c.cfg.TranscribeModel, c.cfg.AnswerModel
}
