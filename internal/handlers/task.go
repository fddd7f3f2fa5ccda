package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard-api/internal/calendar"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/ics"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/projection"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

const draftTimeout = 30 * time.Second

type TaskHandler struct {
	boards    *services.BoardService
	aiService *services.AIService
	formatter calendar.Formatter
	logger    zerolog.Logger
	now       func() time.Time
}

func NewTaskHandler(boards *services.BoardService, aiService *services.AIService, formatter calendar.Formatter, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		boards:    boards,
		aiService: aiService,
		formatter: formatter,
		logger:    logger,
		now:       time.Now,
	}
}

// ListTasks projects the board's tasks for one of the views.
// The list view is paginated.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	q, err := parseQuery(c, board.ID)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.boards.Tasks(actor.ID, q)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	resp := dto.TaskListResponse{Tasks: tasks}
	if q.View == projection.ViewList {
		page, meta := utils.Paginate(tasks, utils.GetPaginationParams(c))
		resp.Tasks = page
		resp.Pagination = &meta
	}
	c.JSON(http.StatusOK, resp)
}

func parseQuery(c *gin.Context, boardID string) (projection.Query, error) {
	q := projection.Query{
		BoardID:  boardID,
		View:     projection.View(c.Query("view")),
		Search:   c.Query("q"),
		Priority: c.Query("priority"),
		Sort:     projection.Sort{Field: projection.SortField(c.Query("sort"))},
	}
	if !q.View.Valid() {
		return projection.Query{}, fmt.Errorf("unknown view %q", q.View)
	}
	if !q.Sort.Field.Valid() {
		return projection.Query{}, fmt.Errorf("unknown sort field %q", q.Sort.Field)
	}
	if q.Priority != "" && q.Priority != projection.PriorityAll && !models.Priority(q.Priority).Valid() {
		return projection.Query{}, fmt.Errorf("unknown priority %q", q.Priority)
	}
	if desc := c.Query("desc"); desc != "" {
		v, err := strconv.ParseBool(desc)
		if err != nil {
			return projection.Query{}, fmt.Errorf("invalid desc %q", desc)
		}
		q.Sort.Desc = v
	}
	if labels := c.Query("labels"); labels != "" {
		for _, id := range strings.Split(labels, ",") {
			if id = strings.TrimSpace(id); id != "" {
				q.LabelIDs = append(q.LabelIDs, id)
			}
		}
	}
	return q, nil
}

// Calendar groups the board's dated tasks by day in the configured calendar
func (h *TaskHandler) Calendar(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	tasks, err := h.boards.Tasks(actor.ID, projection.Query{BoardID: board.ID, View: projection.ViewCalendar})
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"calendar": h.formatter.Name(),
		"days":     projection.CalendarBuckets(tasks, h.formatter),
	})
}

// ExportICS returns the board's dated tasks as an iCalendar file. An
// export with nothing in it is answered with a notification instead.
func (h *TaskHandler) ExportICS(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	tasks, err := h.boards.Tasks(actor.ID, projection.Query{BoardID: board.ID, View: projection.ViewCalendar})
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	data, err := ics.Export(board.Name, tasks, h.now())
	if errors.Is(err, ics.ErrNothingToExport) {
		c.JSON(http.StatusOK, dto.NotificationResponse{
			Notification: dto.NotificationDTO{
				Code:    apierrors.ErrCodeNothingToExport,
				Message: apierrors.Localized(c, "notifications.exportEmpty", err.Error(), nil),
			},
		})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("board_id", board.ID).Msg("ics export failed")
		apierrors.InternalError(c, "Failed to export calendar")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.ics"`, board.ID))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// CreateTask adds a task at the top of a column
func (h *TaskHandler) CreateTask(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.boards.Store().CreateTask(actor, board.ID, req.ColumnID, req.ToInput())
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask returns one task of the board
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, _, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask applies the fields present in the body. dueDate: null clears
// the due date.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]json.RawMessage
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	patch, err := dto.ParseTaskPatch(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	updated, err := h.boards.Store().UpdateTask(actor, task.ID, patch)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteTask deletes a task; tasks that are already gone are ignored
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	taskID := c.Param("task_id")
	if task, err := h.boards.Store().Task(taskID); err == nil && task.BoardID == board.ID {
		if err := h.boards.Store().DeleteTask(actor, taskID); err != nil {
			apierrors.FromDomain(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// MoveTask moves the task to another board
func (h *TaskHandler) MoveTask(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	var req dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	moved, err := h.boards.Store().MoveTaskToBoard(actor, task.ID, req.BoardID)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, moved)
}

// CompleteTask sets the completion flag
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	var req dto.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.boards.Store().ToggleTaskCompletion(actor, task.ID, *req.Completed)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ArchiveTask hides the task from every view but the archive
func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	updated, err := h.boards.Store().ArchiveTask(actor, task.ID)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// RestoreTask brings an archived task back
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	updated, err := h.boards.Store().RestoreTask(actor, task.ID)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Activity returns the task's log, oldest first
func (h *TaskHandler) Activity(c *gin.Context) {
	task, _, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	logs, err := h.boards.Store().Activity(task.ID)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
	})
}

// DraftTasks proposes tasks from free text. Nothing is stored.
func (h *TaskHandler) DraftTasks(c *gin.Context) {
	if _, _, ok := boardAndActor(c); !ok {
		return
	}

	var req dto.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// Check if AI service is available
	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), draftTimeout)
	defer cancel()

	drafts, err := h.aiService.DraftTasks(ctx, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			apierrors.ServiceUnavailable(c, err.Error())
		case errors.Is(err, services.ErrAINoTasksGenerated),
			errors.Is(err, services.ErrAINoValidTasks):
			apierrors.Unprocessable(c, err.Error())
		default:
			h.logger.Error().Err(err).Msg("task drafting failed")
			apierrors.InternalError(c, "Failed to generate tasks")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}

// taskAndActor loads :task_id and checks that it belongs to the loaded board
func (h *TaskHandler) taskAndActor(c *gin.Context) (models.Task, models.Actor, bool) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return models.Task{}, models.Actor{}, false
	}

	task, err := h.boards.Store().Task(c.Param("task_id"))
	if err != nil || task.BoardID != board.ID {
		apierrors.NotFound(c, apierrors.Localized(c, "errors.notFound", "Task not found", nil))
		return models.Task{}, models.Actor{}, false
	}
	return task, actor, true
}

// currentUserID is shared by handlers that do not need the board
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", false
	}
	return userID, true
}
