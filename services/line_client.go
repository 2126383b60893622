package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
)

// LineProfile is the public profile of a LINE user
type LineProfile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

// LineMessenger is the LINE Messaging API surface the service uses
type LineMessenger interface {
	PushText(ctx context.Context, to, text string) error
	ReplyText(ctx context.Context, replyToken, text string) error
	GetProfile(ctx context.Context, userID string) (*LineProfile, error)
}

type lineTextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type lineErrorResponse struct {
	Message string `json:"message"`
}

// lineMaxText is the LINE limit for one text message
const lineMaxText = 5000

// LineClient talks to the LINE Messaging API. Without an access token every
// call is skipped.
type LineClient struct {
	http    *resty.Client
	enabled bool
}

func NewLineClient(baseURL, accessToken string) *LineClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json")
	return &LineClient{http: client, enabled: accessToken != ""}
}

// Enabled reports whether an access token is configured
func (c *LineClient) Enabled() bool {
	return c.enabled
}

func (c *LineClient) PushText(ctx context.Context, to, text string) error {
	if !c.enabled {
		logger.Debugw("line_push_skip_disabled", "to", to)
		return nil
	}
	body := map[string]interface{}{
		"to":       to,
		"messages": []lineTextMessage{{Type: "text", Text: truncate(text, lineMaxText)}},
	}
	return c.post(ctx, "/v2/bot/message/push", body)
}

func (c *LineClient) ReplyText(ctx context.Context, replyToken, text string) error {
	if !c.enabled {
		logger.Debugw("line_reply_skip_disabled")
		return nil
	}
	body := map[string]interface{}{
		"replyToken": replyToken,
		"messages":   []lineTextMessage{{Type: "text", Text: truncate(text, lineMaxText)}},
	}
	return c.post(ctx, "/v2/bot/message/reply", body)
}

func (c *LineClient) GetProfile(ctx context.Context, userID string) (*LineProfile, error) {
	if !c.enabled {
		return &LineProfile{UserID: userID}, nil
	}
	var profile LineProfile
	var apiErr lineErrorResponse
	resp, err := c.http.R().SetContext(ctx).
		SetPathParam("userId", userID).
		SetResult(&profile).
		SetError(&apiErr).
		Get("/v2/bot/profile/{userId}")
	if err != nil {
		return nil, fmt.Errorf("line profile: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("line profile: status %d: %s", resp.StatusCode(), apiErr.Message)
	}
	return &profile, nil
}

func (c *LineClient) post(ctx context.Context, path string, body interface{}) error {
	var apiErr lineErrorResponse
	resp, err := c.http.R().SetContext(ctx).
		SetBody(body).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return fmt.Errorf("line %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("line %s: status %d: %s", path, resp.StatusCode(), apiErr.Message)
	}
	return nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
