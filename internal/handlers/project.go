package handlers

import (
	"github.com/Abhishek40905/ancome-backend/internal/middleware"
	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/roster"
	"github.com/Abhishek40905/ancome-backend/internal/services"
	"github.com/Abhishek40905/ancome-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// ProjectHandler serves the member-facing project routes.
type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *ProjectHandler) render(c *gin.Context, p *models.Project) {
	response.Success(c, roster.Render(p, roster.ViewStandard, true))
}

// GetByID returns a project by ID
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	p, err := h.projectService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, p)
}

// RequestJoin files a join request for the current user
// POST /api/projects/:id/requests
func (h *ProjectHandler) RequestJoin(c *gin.Context) {
	requests, err := h.projectService.RequestJoin(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"requests": requests})
}

// UpdateSettings applies a project-admin partial update
// PUT /api/projects/:id/settings
func (h *ProjectHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// non-admins are refused before their input is judged
		if authErr := h.projectService.AuthorizeSettings(c.Request.Context(), middleware.GetActor(c), c.Param("id")); authErr != nil {
			respondError(c, authErr)
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.projectService.UpdateSettings(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, p)
}

// Approve accepts a pending join request
// POST /api/projects/:id/requests/:userId/approve
func (h *ProjectHandler) Approve(c *gin.Context) {
	p, err := h.projectService.ApproveRequest(c.Request.Context(), middleware.GetActor(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, p)
}

// Reject drops a pending join request
// POST /api/projects/:id/requests/:userId/reject
func (h *ProjectHandler) Reject(c *gin.Context) {
	p, err := h.projectService.RejectRequest(c.Request.Context(), middleware.GetActor(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, p)
}

// RemoveMember removes a member from the roster
// DELETE /api/projects/:id/members/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	p, err := h.projectService.RemoveMember(c.Request.Context(), middleware.GetActor(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, p)
}

// GET /api/projects/:id/comments
func (h *ProjectHandler) Comments(c *gin.Context) {
	comments, err := h.projectService.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, comments)
}

// POST /api/projects/:id/comments
func (h *ProjectHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.projectService.AddComment(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, p.Comments)
}

// POST /api/projects/:id/comments/:commentId/replies
func (h *ProjectHandler) AddReply(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.projectService.AddReply(c.Request.Context(), middleware.GetActor(c), c.Param("id"), c.Param("commentId"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, p.Comments)
}
