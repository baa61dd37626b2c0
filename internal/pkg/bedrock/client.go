package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const anthropicVersion = "bedrock-2023-05-31"

// Client invokes an Anthropic model through Bedrock. Two call shapes:
// text-only and text plus one base64 image.
type Client struct {
	runtime *bedrockruntime.Client
	modelID string
}

func NewClient(region, accessKeyID, secretAccessKey, modelID string) *Client {
	awsCfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
	}

	return &Client{
		runtime: bedrockruntime.NewFromConfig(awsCfg),
		modelID: modelID,
	}
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type invokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
}

type invokeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *Client) Analyze(ctx context.Context, prompt string, maxTokens int) (string, error) {
	blocks := []contentBlock{
		{Type: "text", Text: prompt},
	}
	return c.invoke(ctx, blocks, maxTokens)
}

func (c *Client) AnalyzeImage(ctx context.Context, prompt string, image []byte, mediaType string, maxTokens int) (string, error) {
	blocks := []contentBlock{
		{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: mediaType,
				Data:      base64.StdEncoding.EncodeToString(image),
			},
		},
		{Type: "text", Text: prompt},
	}
	return c.invoke(ctx, blocks, maxTokens)
}

func (c *Client) invoke(ctx context.Context, blocks []contentBlock, maxTokens int) (string, error) {
	body, err := json.Marshal(invokeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages: []message{
			{Role: "user", Content: blocks},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal model request: %w", err)
	}

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("model invocation failed: %w", err)
	}

	var parsed invokeResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}

	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("model returned no content")
	}

	return parsed.Content[0].Text, nil
}
