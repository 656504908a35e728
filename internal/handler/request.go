package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"expense-approval/internal/expense"
	"expense-approval/internal/models"
	"expense-approval/internal/repository"
	"expense-approval/internal/util"
	"expense-approval/internal/validate"
	"expense-approval/internal/workflow"

	"github.com/gin-gonic/gin"
)

// RequestHandler serves the submission and decision intakes plus the
// read-side queries the approver dashboard renders from.
type RequestHandler struct {
	Engine *workflow.Engine
	Repo   repository.Repository
}

func NewRequestHandler(engine *workflow.Engine, repo repository.Repository) *RequestHandler {
	return &RequestHandler{Engine: engine, Repo: repo}
}

// ---------- request/response shapes ----------

type submitReq struct {
	Name          string   `json:"name"`
	EmployeeID    string   `json:"employee_id"`
	ExpenseType   string   `json:"expense_type"`
	BillDate      string   `json:"bill_date"` // YYYY-MM-DD
	Amount        string   `json:"amount"`    // decimal string, e.g. "75.50"
	ApproverEmail string   `json:"approver_email"`
	Attachments   []string `json:"attachments"`
}

type decisionReq struct {
	Decision string `json:"decision"` // Approved / Rejected
	Comment  string `json:"comment"`
}

type commentReq struct {
	Author string `json:"author"`
	Body   string `json:"body" binding:"required,max=1024"`
}

type requestResp struct {
	ID            string     `json:"id"`
	EmployeeName  string     `json:"employee_name"`
	EmployeeID    string     `json:"employee_id"`
	ExpenseType   string     `json:"expense_type"`
	Amount        string     `json:"amount"`
	BillDate      string     `json:"bill_date"`
	ApproverEmail string     `json:"approver_email"`
	Status        string     `json:"status"`
	Attachments   []string   `json:"attachments,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type commentResp struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toRequestResp(r *models.ExpenseRequest) requestResp {
	var attachments []string
	if r.Attachments != "" {
		_ = json.Unmarshal([]byte(r.Attachments), &attachments)
	}
	return requestResp{
		ID:            r.ID,
		EmployeeName:  r.EmployeeName,
		EmployeeID:    r.EmployeeID,
		ExpenseType:   r.ExpenseType,
		Amount:        expense.FormatCents(r.AmountCent),
		BillDate:      r.BillDate.Format(validate.DateLayout),
		ApproverEmail: r.ApproverEmail,
		Status:        r.Status,
		Attachments:   attachments,
		DecidedAt:     r.DecidedAt,
		CreatedAt:     r.CreatedAt,
	}
}

// ---------- handlers ----------

// Submit is the submission intake: either the created request or a
// field-keyed error map, never a partially created request.
func (h *RequestHandler) Submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	created, warnings, err := h.Engine.Submit(c.Request.Context(), validate.Submission{
		Name:          req.Name,
		EmployeeID:    req.EmployeeID,
		ExpenseType:   req.ExpenseType,
		BillDate:      req.BillDate,
		Amount:        req.Amount,
		ApproverEmail: req.ApproverEmail,
		Attachments:   req.Attachments,
	})
	if err != nil {
		var fe validate.FieldErrors
		if errors.As(err, &fe) {
			util.FieldError(c, fe)
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "submit failed")
		return
	}

	util.Success(c, util.Response{
		"id":       created.ID,
		"status":   created.Status,
		"warnings": warningsOrEmpty(warnings),
	})
}

// Decide is the decision intake. A decision on a non-Pending request
// fails with 409; side-effect failures after the committed transition
// come back as warnings beside a 200.
func (h *RequestHandler) Decide(c *gin.Context) {
	var req decisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	decided, warnings, err := h.Engine.Decide(c.Request.Context(), c.Param("id"), req.Decision, req.Comment)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	util.Success(c, util.Response{
		"id":       decided.ID,
		"status":   decided.Status,
		"warnings": warningsOrEmpty(warnings),
	})
}

// Annotate records a reviewer comment independent of any decision.
func (h *RequestHandler) Annotate(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	comment, err := h.Engine.Annotate(c.Request.Context(), c.Param("id"), req.Author, req.Body)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	util.Success(c, util.Response{
		"comment": commentResp{
			ID:        comment.ID,
			Author:    comment.Author,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
		},
	})
}

// List renders the dashboard view, optionally filtered by ?status=.
func (h *RequestHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != string(expense.StatusPending) &&
		status != string(expense.StatusApproved) && status != string(expense.StatusRejected) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown status filter")
		return
	}

	reqs, err := h.Repo.List(c.Request.Context(), status)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list failed")
		return
	}

	items := make([]requestResp, 0, len(reqs))
	for i := range reqs {
		items = append(items, toRequestResp(&reqs[i]))
	}
	util.Success(c, util.Response{"requests": items, "total": len(items)})
}

// Get returns one request with its comments.
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	comments := make([]commentResp, 0, len(req.Comments))
	for _, cm := range req.Comments {
		comments = append(comments, commentResp{
			ID:        cm.ID,
			Author:    cm.Author,
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"request":  toRequestResp(req),
		"comments": comments,
	})
}

func writeWorkflowError(c *gin.Context, err error) {
	var fe validate.FieldErrors
	var ite *workflow.InvalidTransitionError
	switch {
	case errors.As(err, &fe):
		util.FieldError(c, fe)
	case errors.As(err, &ite):
		util.Error(c, http.StatusConflict, util.CodeConflict, ite.Error())
	case errors.Is(err, repository.ErrInvalidTransition):
		util.Error(c, http.StatusConflict, util.CodeConflict, "request already decided")
	case errors.Is(err, repository.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "request not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed")
	}
}

func warningsOrEmpty(ws []string) []string {
	if ws == nil {
		return []string{}
	}
	return ws
}
