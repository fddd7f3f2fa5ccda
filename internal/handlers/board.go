package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard-api/internal/dragdrop"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// BoardHandler serves boards, their columns, labels, shares and reports.
type BoardHandler struct {
	boards *services.BoardService
	drag   *dragdrop.Engine
	logger zerolog.Logger
	now    func() time.Time
}

func NewBoardHandler(boards *services.BoardService, logger zerolog.Logger) *BoardHandler {
	return &BoardHandler{
		boards: boards,
		drag:   dragdrop.NewEngine(boards.Store(), logger),
		logger: logger,
		now:    time.Now,
	}
}

// ListBoards returns the boards visible to the current user with their role
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"boards": h.boards.VisibleBoards(userID),
	})
}

// CreateBoard creates a board owned by the current user
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boards.Store().CreateBoard(req.Name, req.Color, userID)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, services.BoardView{Board: board, Role: models.RoleOwner})
}

// GetBoard returns the board loaded by RequireBoardAccess
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}
	role, _ := middleware.GetBoardRole(c)

	c.JSON(http.StatusOK, services.BoardView{Board: board, Role: role})
}

// UpdateBoard renames or recolors the board
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	var req dto.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.boards.Store().UpdateBoard(actor, board.ID, req.Name, req.Color)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteBoard deletes the board and all of its tasks
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	if err := h.boards.Store().DeleteBoard(board.ID, actor.ID); err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	h.logger.Info().Str("board_id", board.ID).Str("user_id", actor.ID).Msg("board deleted")
	c.JSON(http.StatusOK, gin.H{
		"message": "Board deleted successfully",
	})
}

// ShareBoard grants or changes a user's role on the board
func (h *BoardHandler) ShareBoard(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.boards.Store().ShareBoard(actor, board.ID, req.UserID, req.Role)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UnshareBoard removes a user's access
func (h *BoardHandler) UnshareBoard(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	updated, err := h.boards.Store().UnshareBoard(actor, board.ID, c.Param("user_id"))
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Drag applies a finished drag gesture. Gestures that change nothing
// report applied=false and leave the board untouched.
func (h *BoardHandler) Drag(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	var gesture dragdrop.Gesture
	if err := c.ShouldBindJSON(&gesture); err != nil {
		apierrors.BadRequest(c, "Invalid gesture")
		return
	}
	gesture.BoardID = board.ID

	applied, err := h.drag.Drop(actor, gesture)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	current, err := h.boards.Store().Board(board.ID)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"board":   current,
	})
}

// PutLabel creates a label, or updates it when the id is known
func (h *BoardHandler) PutLabel(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	var req dto.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	label, err := h.boards.Store().AddOrUpdateLabel(actor, board.ID, req.ToLabel())
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, label)
}

// DeleteLabel removes the label from the board and from every task
func (h *BoardHandler) DeleteLabel(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	if err := h.boards.Store().DeleteLabel(actor, board.ID, c.Param("label_id")); err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Label deleted successfully",
	})
}

// ReportView is a scheduled report with its next firing time
type ReportView struct {
	models.ScheduledReport
	NextRun *time.Time `json:"nextRun,omitempty"`
}

// ListReports returns the board's scheduled reports
func (h *BoardHandler) ListReports(c *gin.Context) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	now := h.now()
	reports := h.boards.Store().Reports(board.ID)
	out := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		view := ReportView{ScheduledReport: r}
		if next, err := services.NextRun(r.Schedule, now); err == nil {
			view.NextRun = &next
		}
		out = append(out, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": out,
	})
}

// CreateReport schedules a report for the board
func (h *BoardHandler) CreateReport(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.boards.Store().AddScheduledReport(actor, req.ToReport(board.ID))
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// DeleteReport removes a scheduled report of the board
func (h *BoardHandler) DeleteReport(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	reportID := c.Param("report_id")
	for _, r := range h.boards.Store().Reports(board.ID) {
		if r.ID != reportID {
			continue
		}
		if err := h.boards.Store().DeleteScheduledReport(actor, reportID); err != nil {
			apierrors.FromDomain(c, err)
			return
		}
		break
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report deleted successfully",
	})
}

// boardAndActor reads what RequireAuth and RequireBoardAccess stored. It
// writes the error response itself when either is missing.
func boardAndActor(c *gin.Context) (models.Board, models.Actor, bool) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return models.Board{}, models.Actor{}, false
	}

	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return models.Board{}, models.Actor{}, false
	}
	return board, actor, true
}
