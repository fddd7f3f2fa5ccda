package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

// SnapshotHandler exposes the snapshot history kept by the board service
type SnapshotHandler struct {
	snapshots repository.SnapshotRepository
}

func NewSnapshotHandler(snapshots repository.SnapshotRepository) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// ListSnapshots returns snapshot metadata, newest first
func (h *SnapshotHandler) ListSnapshots(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	snapshots, total, err := h.snapshots.List(params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch snapshots")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshots": dto.ToSnapshotDTOs(snapshots),
		"pagination": utils.PaginationResponse{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      int(total),
			TotalPages: (int(total) + params.Limit - 1) / params.Limit,
		},
	})
}
