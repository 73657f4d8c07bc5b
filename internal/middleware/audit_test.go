package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abhishek40905/ancome-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type recordedAudit struct {
	entries []services.AuditEntry
}

func (r *recordedAudit) Record(_ context.Context, e services.AuditEntry) {
	r.entries = append(r.entries, e)
}

func TestAuditLog_RecordsWrites(t *testing.T) {
	rec := &recordedAudit{}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserID, "root")
		c.Set(ContextUsername, "root")
		c.Next()
	})
	router.Use(AuditLog(rec))
	router.GET("/api/admin/projects", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.PUT("/api/admin/projects/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/admin/projects", nil)
	router.ServeHTTP(w, req)
	if len(rec.entries) != 0 {
		t.Fatalf("GET should not be audited, got %d entries", len(rec.entries))
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PUT", "/api/admin/projects/p1", strings.NewReader(`{"name":"Garden","token":"abc"}`))
	router.ServeHTTP(w, req)

	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Module != "Projects" || e.Action != "Update" {
		t.Errorf("unexpected module/action %q/%q", e.Module, e.Action)
	}
	if e.UserID != "root" || e.Status != http.StatusOK {
		t.Errorf("unexpected user/status %q/%d", e.UserID, e.Status)
	}
	body := e.Extra.(map[string]interface{})["body"].(string)
	if strings.Contains(body, "abc") {
		t.Errorf("token should be masked, got %s", body)
	}
}

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		path, method   string
		module, action string
	}{
		{"/api/admin/projects/:id", "DELETE", "Projects", "Delete"},
		{"/api/admin/audit-logs", "POST", "Audit Logs", "Create"},
		{"/api/events", "POST", "Events", "Create"},
		{"", "PUT", "Unknown", "Update"},
	}
	for _, tt := range tests {
		module, action := parseRouteInfo(tt.path, tt.method)
		if module != tt.module || action != tt.action {
			t.Errorf("parseRouteInfo(%q, %q) = %q, %q; want %q, %q", tt.path, tt.method, module, action, tt.module, tt.action)
		}
	}
}
