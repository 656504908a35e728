package handler

import (
	"net/http"
	"strconv"
	"time"

	"expense-approval/internal/models"
	"expense-approval/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler lists the audit trail and notification attempts.
type LogHandler struct {
	DB *gorm.DB
}

func NewLogHandler(db *gorm.DB) *LogHandler {
	return &LogHandler{DB: db}
}

type auditLogResp struct {
	ID        uint      `json:"id"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Action    string    `json:"action"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

type notificationResp struct {
	ID        uint      `json:"id"`
	RequestID string    `json:"request_id"`
	Kind      string    `json:"kind"`
	Recipient string    `json:"recipient"`
	Delivered bool      `json:"delivered"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListAuditLogs returns recent audit rows, newest first.
func (h *LogHandler) ListAuditLogs(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 100)

	var logs []models.AuditLog
	if err := h.DB.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]auditLogResp, 0, len(logs))
	for _, l := range logs {
		items = append(items, auditLogResp{
			ID:        l.ID,
			Method:    l.Method,
			Path:      l.Path,
			Action:    l.Action,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}
	util.Success(c, util.Response{"logs": items, "total": len(items)})
}

// ListNotifications returns notification attempts, optionally for one
// request via ?request_id=.
func (h *LogHandler) ListNotifications(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 100)

	q := h.DB.Order("created_at DESC").Limit(limit)
	if id := c.Query("request_id"); id != "" {
		q = q.Where("request_id = ?", id)
	}

	var attempts []models.NotificationLog
	if err := q.Find(&attempts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]notificationResp, 0, len(attempts))
	for _, a := range attempts {
		items = append(items, notificationResp{
			ID:        a.ID,
			RequestID: a.RequestID,
			Kind:      a.Kind,
			Recipient: a.Recipient,
			Delivered: a.Delivered,
			Error:     a.Error,
			CreatedAt: a.CreatedAt,
		})
	}
	util.Success(c, util.Response{"notifications": items, "total": len(items)})
}

func parseLimit(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 1000 {
		return def
	}
	return n
}
