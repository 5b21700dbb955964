package handler

import (
	"fmt"
	"net/http"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// OperationHandler handles operation-related HTTP requests
type OperationHandler struct {
	operations   usecase.OperationUseCase
	tagging      usecase.TaggingUseCase
	logger       coreport.Logger
	maxBatchSize int
}

// NewOperationHandler creates a new operation handler instance.
// maxBatchSize <= 0 disables the batch size limit.
func NewOperationHandler(
	operations usecase.OperationUseCase,
	tagging usecase.TaggingUseCase,
	logger coreport.Logger,
	maxBatchSize int,
) *OperationHandler {
	return &OperationHandler{
		operations:   operations,
		tagging:      tagging,
		logger:       logger,
		maxBatchSize: maxBatchSize,
	}
}

// List handles GET /operations
func (h *OperationHandler) List(c *gin.Context) {
	ops, err := h.operations.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Error listing operations", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOperationListResponse(ops))
}

// Triage handles GET /operations/triage
func (h *OperationHandler) Triage(c *gin.Context) {
	ops, err := h.operations.FindTriage(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Error listing triage operations", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOperationListResponse(ops))
}

// Get handles GET /operations/:id
func (h *OperationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	op, err := h.operations.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Error getting operation", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOperationResponse(op))
}

// bindBatch parses and converts a batch body, writing the error response itself
func (h *OperationHandler) bindBatch(c *gin.Context) (*dto.OperationBatchRequest, bool) {
	var req dto.OperationBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid operation batch format", map[string]any{"error": err.Error()})
		invalidRequest(c, "Invalid request format: "+err.Error())
		return nil, false
	}
	if h.maxBatchSize > 0 && len(req.Operations) > h.maxBatchSize {
		invalidRequest(c, fmt.Sprintf("Batch of %d operations exceeds the limit of %d", len(req.Operations), h.maxBatchSize))
		return nil, false
	}
	return &req, true
}

// InsertBatch handles POST /operations/batch
func (h *OperationHandler) InsertBatch(c *gin.Context) {
	req, ok := h.bindBatch(c)
	if !ok {
		return
	}
	ops, err := req.ToEntities()
	if err != nil {
		respondError(c, h.logger, "Invalid operation batch", err)
		return
	}

	inserted, err := h.operations.InsertBatch(c.Request.Context(), ops)
	if err != nil {
		respondError(c, h.logger, "Error inserting operations", err)
		return
	}
	c.JSON(http.StatusCreated, dto.InsertResponse{Inserted: inserted})
}

// Import handles POST /operations/import
func (h *OperationHandler) Import(c *gin.Context) {
	req, ok := h.bindBatch(c)
	if !ok {
		return
	}
	ops, err := req.ToEntities()
	if err != nil {
		respondError(c, h.logger, "Invalid operation batch", err)
		return
	}

	result, err := h.operations.Import(c.Request.Context(), ops)
	if err != nil {
		respondError(c, h.logger, "Error importing operations", err)
		return
	}
	c.JSON(http.StatusCreated, dto.ImportResponse{
		Inserted: result.Inserted,
		Flagged:  result.Flagged,
		Tagged:   result.Tagged,
	})
}

// RefreshCollisions handles POST /operations/collisions/refresh
func (h *OperationHandler) RefreshCollisions(c *gin.Context) {
	flagged, err := h.operations.DetectCollisions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Error detecting collisions", err)
		return
	}
	c.JSON(http.StatusOK, dto.CollisionResponse{Flagged: flagged})
}

// UpdateDetails handles PUT /operations/:id/details
func (h *OperationHandler) UpdateDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "Invalid request format: "+err.Error())
		return
	}

	op, err := h.operations.ResolveViaEdit(c.Request.Context(), id, *req.Details)
	if err != nil {
		respondError(c, h.logger, "Error updating operation details", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOperationResponse(op))
}

// Delete handles DELETE /operations/:id
func (h *OperationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.operations.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Error deleting operation", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyTags handles POST /operations/:id/tags/apply
func (h *OperationHandler) ApplyTags(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tagged, err := h.tagging.ApplyRules(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Error applying tag rules", err)
		return
	}
	c.JSON(http.StatusOK, dto.TaggedResponse{Tagged: tagged})
}
