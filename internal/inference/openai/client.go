package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"resty.dev/v3"

	"github.com/smartguide/smartguide/internal/inference"
)

type Client struct {
	httpClient  *resty.Client
	model       string
	retryConfig inference.RetryConfig
}

func NewClient(apiKey, model string, retryConfig inference.RetryConfig) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:  client,
		model:       model,
		retryConfig: retryConfig,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ResponseFormat constrains the completion to a JSON schema.
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

type JSONSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// evaluationSchema constrains the evaluation completion to a feedback string
// and a numeric rating in [1, 10].
var evaluationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"feedback": {
			"type": "string",
			"description": "Constructive feedback on the user's answer."
		},
		"rating": {
			"type": "number",
			"minimum": 1,
			"maximum": 10,
			"description": "A rating of the answer on a scale of 1 to 10."
		}
	},
	"required": ["feedback", "rating"],
	"additionalProperties": false
}`)

// GenerateQuestion implements the inference.Client interface
func (client *Client) GenerateQuestion(
	ctx context.Context,
	params inference.GenerateQuestionRequest,
) (inference.GenerateQuestionResponse, error) {
	var result inference.GenerateQuestionResponse
	if err := client.invokeWithRetry(ctx, func() error {
		response, err := client.generateQuestion(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.GenerateQuestionResponse{}, err
	}
	return result, nil
}

func (client *Client) generateQuestion(
	ctx context.Context,
	params inference.GenerateQuestionRequest,
) (inference.GenerateQuestionResponse, error) {
	prompt := fmt.Sprintf(
		"Generate a %s interview question. The question should be suitable for a software engineering role.",
		params.Topic,
	)

	requestBody := ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.7,
		Messages: []Message{
			{Role: RoleUser, Content: prompt},
		},
	}

	content, err := client.complete(ctx, requestBody)
	if err != nil {
		return inference.GenerateQuestionResponse{}, err
	}

	return inference.GenerateQuestionResponse{Question: strings.TrimSpace(content)}, nil
}

// EvaluateAnswer implements the inference.Client interface
func (client *Client) EvaluateAnswer(
	ctx context.Context,
	params inference.EvaluateAnswerRequest,
) (inference.EvaluateAnswerResponse, error) {
	var result inference.EvaluateAnswerResponse
	if err := client.invokeWithRetry(ctx, func() error {
		response, err := client.evaluateAnswer(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.EvaluateAnswerResponse{}, err
	}
	return result, nil
}

func (client *Client) evaluateAnswer(
	ctx context.Context,
	params inference.EvaluateAnswerRequest,
) (inference.EvaluateAnswerResponse, error) {
	prompt := fmt.Sprintf(`Evaluate the following answer to the interview question.
Provide constructive feedback and a rating from 1 to 10.
Question: %s
Answer: %s`, params.Question, params.Answer)

	requestBody := ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.2,
		Messages: []Message{
			{Role: RoleUser, Content: prompt},
		},
		ResponseFormat: &ResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   "answer_evaluation",
				Strict: true,
				Schema: evaluationSchema,
			},
		},
	}

	content, err := client.complete(ctx, requestBody)
	if err != nil {
		return inference.EvaluateAnswerResponse{}, err
	}

	var decoded inference.EvaluateAnswerResponse
	if err := json.NewDecoder(strings.NewReader(content)).Decode(&decoded); err != nil {
		slog.Default().Warn("Failed to parse evaluation response as JSON",
			"content", content,
			"error", err)
		return inference.EvaluateAnswerResponse{}, fmt.Errorf("json.Decode(%s): %v > %w", content, err, inference.ErrMalformedResponse)
	}
	return decoded, nil
}

// complete posts a chat completion and returns the first choice's content.
// Every transport failure is normalized into *inference.RequestError here so
// the classifier only sees the canonical shape.
func (client *Client) complete(ctx context.Context, requestBody ChatCompletionRequest) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", &inference.RequestError{Message: fmt.Sprintf("httpClient.Post > %v", err)}
	}
	if response.IsError() {
		return "", newRequestError(response)
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices > %w", inference.ErrMalformedResponse)
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content > %w", inference.ErrMalformedResponse)
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)
	return content, nil
}

func newRequestError(response *resty.Response) *inference.RequestError {
	reqErr := inference.RequestError{
		StatusCode: response.StatusCode(),
		Message:    response.String(),
	}
	var body errorResponse
	if err := json.Unmarshal(response.Bytes(), &body); err == nil && body.Error.Message != "" {
		reqErr.Code = body.Error.Code
		reqErr.Message = body.Error.Message
	}
	return &reqErr
}
