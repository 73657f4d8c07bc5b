package handlers

import (
	"strconv"

	"github.com/Abhishek40905/ancome-backend/internal/middleware"
	"github.com/Abhishek40905/ancome-backend/internal/roster"
	"github.com/Abhishek40905/ancome-backend/internal/services"
	"github.com/Abhishek40905/ancome-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the super-admin surface under /api/admin.
type AdminHandler struct {
	projectService *services.ProjectService
	authService    *services.AuthService
	auditService   *services.AuditService
}

func NewAdminHandler(projectService *services.ProjectService, authService *services.AuthService, auditService *services.AuditService) *AdminHandler {
	return &AdminHandler{
		projectService: projectService,
		authService:    authService,
		auditService:   auditService,
	}
}

// CreateProject creates a project with the caller as first admin
// POST /api/admin/projects
func (h *AdminHandler) CreateProject(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.projectService.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, roster.Render(p, roster.ViewListing, false))
}

// ListProjects returns every project, newest first, without comments
// GET /api/admin/projects
func (h *AdminHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]roster.ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, roster.Render(&projects[i], roster.ViewListing, false))
	}
	response.Success(c, views)
}

// UpdateProject applies a full admin update including roster reconciliation
// PUT /api/admin/projects/:id
func (h *AdminHandler) UpdateProject(c *gin.Context) {
	var req services.AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.projectService.AdminUpdate(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, roster.Render(p, roster.ViewListing, false))
}

// DeleteProject hard-deletes a project
// DELETE /api/admin/projects/:id
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, "project deleted")
}

// ListUsers returns every registered user
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, users)
}

// AuditLogs returns the most recent admin write operations
// GET /api/admin/audit-logs?limit=
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.auditService.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, logs)
}
