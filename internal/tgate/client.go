package tgate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/avdeev/channel-scout-go/internal/constants"
	"github.com/avdeev/channel-scout-go/pkg/errors"
	"go.uber.org/zap"
)

// Client talks to the MTProto session gateway over plain HTTP. It performs no
// retries of its own; resilience lives one layer up in the directory package.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.GatewayTimeout,
		},
		logger: logger,
	}
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doRequest(ctx, "GET", "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) Ping(ctx context.Context) bool {
	health, err := c.Health(ctx)
	return err == nil && health.OK
}

func (c *Client) Resolve(ctx context.Context, username string) (*ChannelRaw, error) {
	req := ResolveRequest{Username: username}
	var resp ResolveResponse

	if err := c.doRequest(ctx, "POST", "/resolve", req, &resp); err != nil {
		return nil, err
	}
	return resp.Channel, nil
}

func (c *Client) Recommendations(ctx context.Context, channelID int64) ([]ChannelRaw, error) {
	req := RecommendationsRequest{ChannelID: channelID}
	var resp ChannelsResponse

	if err := c.doRequest(ctx, "POST", "/recommendations", req, &resp); err != nil {
		return nil, err
	}
	return resp.Channels, nil
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]ChannelRaw, error) {
	req := SearchRequest{Query: query, Limit: limit}
	var resp ChannelsResponse

	if err := c.doRequest(ctx, "POST", "/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Channels, nil
}

func (c *Client) Participants(ctx context.Context, channelID int64, limit int) ([]ParticipantRaw, error) {
	req := ParticipantsRequest{ChannelID: channelID, Limit: limit}
	var resp ParticipantsResponse

	if err := c.doRequest(ctx, "POST", "/participants", req, &resp); err != nil {
		return nil, err
	}
	return resp.Participants, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	req := SendMessageRequest{ChatID: chatID, Text: text}

	if err := c.doRequest(ctx, "POST", "/sendMessage", req, nil); err != nil {
		c.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}
	return nil
}

func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	req := SendDocumentRequest{
		ChatID:   chatID,
		Filename: filename,
		Data:     base64.StdEncoding.EncodeToString(data),
		Caption:  caption,
	}

	if err := c.doRequest(ctx, "POST", "/sendDocument", req, nil); err != nil {
		c.logger.Error("Failed to send document",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("filename", filename),
		)
		return err
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, respBody any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return errors.NewAPIError("failed to marshal request", 400, map[string]any{
				"url": url,
			}).WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return errors.NewAPIError("failed to create request", 500, map[string]any{
			"url": url,
		}).WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAPIError("request failed", 500, map[string]any{
			"url": url,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return errors.NewAPIError(
			fmt.Sprintf("gateway error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{
				"url":  url,
				"body": string(bodyBytes),
			},
		)
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return errors.NewAPIError("failed to decode response", 500, map[string]any{
				"url": url,
			}).WithCause(err)
		}
	}

	return nil
}
