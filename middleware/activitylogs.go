package middleware

import (
	"context"
	"fmt"
	"time"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	activitylogs "github.com/evscomercial/storefront-backend/services/activity_logs"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/gin-gonic/gin"
)

// ActionKey is set by handlers that want a more precise action than
// "METHOD path" in the activity log.
const ActionKey = "activity_action"

type Recorder interface {
	Create(ctx context.Context, params activitylogs.CreateActivityLogParams) (db.ActivityLog, error)
}

type ActivityLogMiddleware struct {
	recorder Recorder
	logger   *logging.Logger
	timeout  time.Duration
}

func NewActivityLogMiddleware(recorder Recorder, logger *logging.Logger) *ActivityLogMiddleware {
	return &ActivityLogMiddleware{
		recorder: recorder,
		logger:   logger,
		timeout:  5 * time.Second,
	}
}

func (a *ActivityLogMiddleware) ActivityLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		params := activitylogs.CreateActivityLogParams{
			Action:     actionFromRequest(c),
			Path:       c.FullPath(),
			StatusCode: c.Writer.Status(),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		if user, err := utils.GetActiveUser(c); err == nil {
			userID := user.UserID
			params.UserID = &userID
		}

		// the gin context is recycled once the handler returns
		go a.record(params)
	}
}

func (a *ActivityLogMiddleware) record(params activitylogs.CreateActivityLogParams) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if _, err := a.recorder.Create(ctx, params); err != nil {
		a.logger.Warn(fmt.Sprintf("could not record activity %q: %v", params.Action, err))
	}
}

func actionFromRequest(c *gin.Context) string {
	if action := c.GetString(ActionKey); action != "" {
		return action
	}
	if c.FullPath() == "" {
		return fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
	return fmt.Sprintf("%s %s", c.Request.Method, c.FullPath())
}
