package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// LineSignatureHeader carries the base64 HMAC-SHA256 of the raw webhook body
const LineSignatureHeader = "X-Line-Signature"

const (
	lineCallbackKey = "line_callback"
	maxWebhookBody  = 1 << 20
)

// LineWebhook verifies the channel signature and parses the callback body.
// An empty secret skips the signature check.
func LineWebhook(channelSecret string) gin.HandlerFunc {
	if channelSecret == "" {
		logger.Warnw("line_signature_check_disabled")
	}

	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)

		var (
			callback *webhook.CallbackRequest
			err      error
		)
		if channelSecret == "" {
			callback, err = parseUnsigned(c.Request.Body)
		} else {
			callback, err = webhook.ParseRequest(channelSecret, c.Request)
		}

		switch {
		case errors.Is(err, webhook.ErrInvalidSignature):
			logger.Warnw("line_signature_invalid", "request_id", GetRequestID(c))
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid signature")
			return
		case err != nil:
			logger.Debugw("line_callback_invalid", "request_id", GetRequestID(c), "error", err)
			abortWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid webhook body")
			return
		}

		c.Set(lineCallbackKey, callback)
		c.Next()
	}
}

func parseUnsigned(body io.Reader) (*webhook.CallbackRequest, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	var callback webhook.CallbackRequest
	if err := json.Unmarshal(raw, &callback); err != nil {
		return nil, err
	}
	return &callback, nil
}

// GetLineCallback returns the callback parsed by LineWebhook
func GetLineCallback(c *gin.Context) (*webhook.CallbackRequest, bool) {
	value, ok := c.Get(lineCallbackKey)
	if !ok {
		return nil, false
	}
	callback, ok := value.(*webhook.CallbackRequest)
	return callback, ok && callback != nil
}
