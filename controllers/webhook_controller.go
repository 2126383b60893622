package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/middleware"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

const (
	welcomeText       = "Welcome! You are now registered with our shop. Send \"status\" at any time to see your orders."
	recentOrdersLimit = 5
)

var statusCommands = map[string]bool{
	"status": true,
	"orders": true,
}

// WebhookController handles inbound LINE events
type WebhookController struct {
	members *services.MemberService
	orders  *services.OrderService
	line    services.LineMessenger
}

func NewWebhookController(members *services.MemberService, orders *services.OrderService, line services.LineMessenger) *WebhookController {
	return &WebhookController{members: members, orders: orders, line: line}
}

// HandleLine handles POST /api/v1/webhook/line after middleware.LineWebhook
// parsed the body. Event failures are logged; LINE always gets a 200.
func (ctl *WebhookController) HandleLine(c *gin.Context) {
	callback, ok := middleware.GetLineCallback(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid webhook body")
		return
	}

	ctx := c.Request.Context()
	for _, event := range callback.Events {
		switch e := event.(type) {
		case webhook.FollowEvent:
			if userID := sourceUserID(e.Source); userID != "" {
				ctl.handleFollow(ctx, userID, e.ReplyToken)
			}
		case webhook.MessageEvent:
			text, isText := e.Message.(webhook.TextMessageContent)
			if userID := sourceUserID(e.Source); userID != "" && isText {
				ctl.handleText(ctx, userID, e.ReplyToken, text.Text)
			}
		case webhook.UnfollowEvent:
			logger.Infow("line_unfollow", "line_user_id", sourceUserID(e.Source))
		default:
			logger.Debugw("line_event_ignored", "type", event.GetType())
		}
	}

	respondOK(c, http.StatusOK, gin.H{"events": len(callback.Events)})
}

// sourceUserID is the sender of an event, or "" when LINE withheld it
func sourceUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}

func (ctl *WebhookController) handleFollow(ctx context.Context, userID, replyToken string) {
	profile, err := ctl.line.GetProfile(ctx, userID)
	if err != nil {
		logger.Warnw("line_profile_failed", "line_user_id", userID, "error", err)
		profile = &services.LineProfile{UserID: userID}
	}

	if _, err := ctl.members.Register(ctx, services.RegisterInput{
		LineUserID:  userID,
		DisplayName: profile.DisplayName,
		PictureURL:  profile.PictureURL,
	}); err != nil {
		logger.Errorw("line_follow_register_failed", "line_user_id", userID, "error", err)
		return
	}
	ctl.reply(ctx, userID, replyToken, welcomeText)
}

func (ctl *WebhookController) handleText(ctx context.Context, userID, replyToken, text string) {
	if !statusCommands[strings.ToLower(strings.TrimSpace(text))] {
		return
	}

	orders, _, err := ctl.orders.ListCustomerOrders(ctx, userID, 1, recentOrdersLimit)
	if err != nil {
		logger.Errorw("line_status_lookup_failed", "line_user_id", userID, "error", err)
		return
	}
	ctl.reply(ctx, userID, replyToken, services.RecentOrdersText(orders))
}

func (ctl *WebhookController) reply(ctx context.Context, userID, replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := ctl.line.ReplyText(ctx, replyToken, text); err != nil {
		logger.Warnw("line_reply_failed", "line_user_id", userID, "error", err)
	}
}
