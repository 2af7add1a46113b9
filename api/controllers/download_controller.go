package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/qrdrop/api/models"
	"github.com/moyoez/qrdrop/tool"
	"github.com/moyoez/qrdrop/types"
)

// DownloadController serves the single token-gated resource. The session is
// injected at construction; nothing here reaches for globals.
type DownloadController struct {
	session *types.Session
}

func NewDownloadController(session *types.Session) *DownloadController {
	return &DownloadController{session: session}
}

// HandleDownload handles GET /:token. The password may arrive as the
// X-Password header or the 'passed' query parameter; the header wins when
// both are present.
func (ctrl *DownloadController) HandleDownload(c *gin.Context) {
	token := c.Param("token")
	password := c.GetHeader("X-Password")
	if password == "" {
		password = c.Query("passed")
	}

	verdict := models.Validate(ctrl.session, token, password, time.Now())
	if verdict != types.VerdictOK {
		tool.DefaultLogger.Infof("[Download] Rejected request from %s: %s", c.ClientIP(), verdict)
		c.JSON(verdict.HTTPStatus(), tool.FastReturnError(rejectionMessage(verdict)))
		return
	}

	// Counted at start-of-stream: the server cannot observe client-side
	// completion, so a dropped transfer still counts as one delivery.
	total := ctrl.session.IncrementDownloads()
	tool.DefaultLogger.Infof("[Download] Serving %s to %s (download #%d)", ctrl.session.FileName, c.ClientIP(), total)

	c.Header("Content-Disposition", "attachment; filename=\""+ctrl.session.FileName+"\"")
	c.Header("Content-Type", "application/octet-stream")
	c.File(ctrl.session.FilePath)
}

// HandleUnknownPath answers anything that is not GET /:token. The body is
// identical to a wrong-token rejection so path probing learns nothing.
func HandleUnknownPath(c *gin.Context) {
	c.JSON(types.VerdictNotFound.HTTPStatus(), tool.FastReturnError(rejectionMessage(types.VerdictNotFound)))
}

func rejectionMessage(v types.Verdict) string {
	switch v {
	case types.VerdictUnauthorized:
		return "Unauthorized. Provide password via '?passed=SECRET' or header X-Password."
	case types.VerdictGone:
		return "Link expired"
	default:
		return "Not found"
	}
}
