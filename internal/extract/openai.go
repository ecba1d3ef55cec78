package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// receiptPrompt is the fixed instruction sent with every image. The model
// answers with a single JSON object matching the Fields schema, using null
// for anything it cannot read off the receipt.
const receiptPrompt = `Analyze this receipt image and extract the following information in JSON format: total amount (as a number), date (in YYYY-MM-DD format), and a brief description (like the store name). If a value cannot be found, use null. Respond with only the JSON object: {"amount": number|null, "date": string|null, "description": string|null}.`

// OpenAIExtractor calls a hosted vision model through the OpenAI-compatible
// chat completions API.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

var _ Extractor = (*OpenAIExtractor)(nil)

// NewOpenAI builds an extractor. baseURL is optional and supports
// OpenAI-compatible gateways; model defaults to gpt-4o-mini.
func NewOpenAI(apiKey, baseURL, model string) (*OpenAIExtractor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing extraction API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (e *OpenAIExtractor) Extract(ctx context.Context, img []byte, mimeType string) (Fields, error) {
	// Reject anything that is not a decodable image before spending a model
	// call on it.
	if _, _, err := image.Decode(bytes.NewReader(img)); err != nil {
		return Fields{}, fmt.Errorf("invalid image: %w", err)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(img))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL,
						},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: receiptPrompt,
					},
				},
			},
		},
	})
	if err != nil {
		return Fields{}, fmt.Errorf("extraction model call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Fields{}, errors.New("extraction model returned no choices")
	}

	return parseFields(resp.Choices[0].Message.Content)
}

// parseFields decodes the model's JSON answer, tolerating markdown fences
// some models wrap around JSON output.
func parseFields(content string) (Fields, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)
	if content == "" {
		return Fields{}, errors.New("extraction model returned empty response")
	}

	var f Fields
	if err := json.Unmarshal([]byte(content), &f); err != nil {
		return Fields{}, fmt.Errorf("decode extraction response: %w", err)
	}
	return f, nil
}
