package handler

import (
	"expense-approval/internal/config"
	"expense-approval/internal/util"

	"github.com/gin-gonic/gin"
)

// ApproverHandler serves the static approver roster the submission
// screen offers as a selector. This is a stand-in, not an auth boundary.
type ApproverHandler struct {
	Approvers []config.Approver
}

func NewApproverHandler(approvers []config.Approver) *ApproverHandler {
	return &ApproverHandler{Approvers: approvers}
}

type approverResp struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *ApproverHandler) List(c *gin.Context) {
	items := make([]approverResp, 0, len(h.Approvers))
	for _, a := range h.Approvers {
		items = append(items, approverResp{Name: a.Name, Email: a.Email})
	}
	util.Success(c, util.Response{"approvers": items})
}
