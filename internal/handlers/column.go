package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/models"
)

// CreateColumn appends a column to the board
func (h *BoardHandler) CreateColumn(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	var req dto.ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.boards.Store().CreateColumn(actor, board.ID, req.Title)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, column)
}

// RenameColumn changes a column's title
func (h *BoardHandler) RenameColumn(c *gin.Context) {
	columnID, actor, ok := columnAndActor(c)
	if !ok {
		return
	}

	var req dto.ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.boards.Store().RenameColumn(actor, columnID, req.Title)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, column)
}

// ArchiveColumn archives the column together with its active tasks
func (h *BoardHandler) ArchiveColumn(c *gin.Context) {
	columnID, actor, ok := columnAndActor(c)
	if !ok {
		return
	}

	column, err := h.boards.Store().ArchiveColumn(actor, columnID)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, column)
}

// RestoreColumn brings the column back with the tasks archived along with it
func (h *BoardHandler) RestoreColumn(c *gin.Context) {
	columnID, actor, ok := columnAndActor(c)
	if !ok {
		return
	}

	column, err := h.boards.Store().RestoreColumn(actor, columnID)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, column)
}

// CopyColumn duplicates the column and its tasks
func (h *BoardHandler) CopyColumn(c *gin.Context) {
	columnID, actor, ok := columnAndActor(c)
	if !ok {
		return
	}

	var req dto.ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.boards.Store().CopyColumn(actor, columnID, req.Title)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, column)
}

// DeleteColumn removes the column and its tasks. It requires ?confirm=true;
// columns that are already gone are ignored.
func (h *BoardHandler) DeleteColumn(c *gin.Context) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return
	}

	columnID := c.Param("column_id")
	if column, _ := board.Column(columnID); column != nil {
		confirmed, _ := strconv.ParseBool(c.Query("confirm"))
		if err := h.boards.Store().DeleteColumnPermanently(actor, columnID, confirmed); err != nil {
			apierrors.FromDomain(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Column deleted successfully",
	})
}

// columnAndActor checks that :column_id belongs to the loaded board
func columnAndActor(c *gin.Context) (string, models.Actor, bool) {
	board, actor, ok := boardAndActor(c)
	if !ok {
		return "", models.Actor{}, false
	}

	columnID := c.Param("column_id")
	if column, _ := board.Column(columnID); column == nil {
		apierrors.NotFound(c, "Column not found")
		return "", models.Actor{}, false
	}
	return columnID, actor, true
}
