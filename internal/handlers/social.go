package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
)

// AddComment appends a comment; viewers may comment
func (h *TaskHandler) AddComment(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	var req dto.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.boards.Store().AddComment(actor, task.ID, req.Text)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ToggleReaction adds the user's emoji, or removes it when already present
func (h *TaskHandler) ToggleReaction(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	var req dto.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reactions, err := h.boards.Store().AddReaction(actor, task.ID, req.Emoji)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reactions": reactions,
	})
}

// AddChecklistItem appends an unchecked item
func (h *TaskHandler) AddChecklistItem(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	var req dto.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.boards.Store().AddChecklistItem(actor, task.ID, req.Text)
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ToggleChecklistItem flips an item's done flag
func (h *TaskHandler) ToggleChecklistItem(c *gin.Context) {
	task, actor, ok := h.taskAndActor(c)
	if !ok {
		return
	}

	item, err := h.boards.Store().ToggleChecklistItem(actor, task.ID, c.Param("item_id"))
	if err != nil {
		apierrors.FromDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
