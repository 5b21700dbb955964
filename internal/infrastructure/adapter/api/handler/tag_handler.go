package handler

import (
	"net/http"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TagHandler handles tag and tag rule HTTP requests
type TagHandler struct {
	tagging usecase.TaggingUseCase
	logger  coreport.Logger
}

// NewTagHandler creates a new tag handler instance
func NewTagHandler(tagging usecase.TaggingUseCase, logger coreport.Logger) *TagHandler {
	return &TagHandler{
		tagging: tagging,
		logger:  logger,
	}
}

// ListTags handles GET /tags
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagging.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Error listing tags", err)
		return
	}

	out := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, dto.NewTagResponse(tag))
	}
	c.JSON(http.StatusOK, out)
}

// SaveTag handles POST /tags
func (h *TagHandler) SaveTag(c *gin.Context) {
	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "Invalid request format: "+err.Error())
		return
	}

	tag, err := h.tagging.SaveTag(c.Request.Context(), req.ToEntity())
	if err != nil {
		respondError(c, h.logger, "Error saving tag", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTagResponse(tag))
}

// ListTagRules handles GET /tag-rules
func (h *TagHandler) ListTagRules(c *gin.Context) {
	rules, err := h.tagging.ListTagRules(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Error listing tag rules", err)
		return
	}

	out := make([]dto.TagRuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, dto.NewTagRuleResponse(rule))
	}
	c.JSON(http.StatusOK, out)
}

// SaveTagRule handles POST /tag-rules
func (h *TagHandler) SaveTagRule(c *gin.Context) {
	var req dto.TagRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "Invalid request format: "+err.Error())
		return
	}

	rule, err := req.ToEntity()
	if err != nil {
		respondError(c, h.logger, "Invalid tag rule bounds", err)
		return
	}

	saved, err := h.tagging.SaveTagRule(c.Request.Context(), rule)
	if err != nil {
		respondError(c, h.logger, "Error saving tag rule", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTagRuleResponse(saved))
}

// RetagAll handles POST /tag-rules/apply
func (h *TagHandler) RetagAll(c *gin.Context) {
	tagged, err := h.tagging.RetagAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Error applying tag rules", err)
		return
	}
	c.JSON(http.StatusOK, dto.TaggedResponse{Tagged: tagged})
}
