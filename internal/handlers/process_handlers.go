package handlers

import (
	"net/http"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ProcessHandler exposes preparation process groups and options.
type ProcessHandler struct {
	processService services.ProcessService
}

// NewProcessHandler creates a new ProcessHandler.
func NewProcessHandler(ps services.ProcessService) *ProcessHandler {
	return &ProcessHandler{processService: ps}
}

func (h *ProcessHandler) CreateProcessGroup(c *gin.Context) {
	var group models.ProcessGroup
	if err := c.ShouldBindJSON(&group); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.processService.CreateProcessGroup(&group)
	if err != nil {
		utils.LogError(err, "CreateProcessGroup: Error from processService.CreateProcessGroup")
		respondServiceError(c, err, "Failed to create process group.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ProcessHandler) GetProcessGroups(c *gin.Context) {
	groups, err := h.processService.GetProcessGroups()
	if err != nil {
		utils.LogError(err, "GetProcessGroups: Error from processService.GetProcessGroups")
		respondServiceError(c, err, "Failed to fetch process groups.")
		return
	}
	if groups == nil {
		groups = []models.ProcessGroup{}
	}
	c.JSON(http.StatusOK, gin.H{"data": groups})
}

func (h *ProcessHandler) DeleteProcessGroup(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.processService.DeleteProcessGroup(id); err != nil {
		respondServiceError(c, err, "Failed to delete process group.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Process group deleted successfully"})
}

func (h *ProcessHandler) AddProcessOption(c *gin.Context) {
	var option models.ProcessOption
	if err := c.ShouldBindJSON(&option); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.processService.AddProcessOption(&option)
	if err != nil {
		utils.LogError(err, "AddProcessOption: Error from processService.AddProcessOption")
		respondServiceError(c, err, "Failed to create process option.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ProcessHandler) DeleteProcessOption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.processService.DeleteProcessOption(id); err != nil {
		respondServiceError(c, err, "Failed to delete process option.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Process option deleted successfully"})
}
