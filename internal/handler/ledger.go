package handler

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"expense-approval/internal/ledger"
	"expense-approval/internal/util"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves read-only downloads of the decision ledger
// workbook. Rows are only ever appended by the recorder.
type LedgerHandler struct {
	Recorder *ledger.XLSXRecorder
}

func NewLedgerHandler(recorder *ledger.XLSXRecorder) *LedgerHandler {
	return &LedgerHandler{Recorder: recorder}
}

// Download streams the ledger workbook as an attachment.
func (h *LedgerHandler) Download(c *gin.Context) {
	path := h.Recorder.Path()
	if _, err := os.Stat(path); err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no decisions recorded yet")
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"decisions_%s.xlsx\"",
		time.Now().Format("20060102")))
	c.File(path)
}
