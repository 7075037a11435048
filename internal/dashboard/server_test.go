package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toolbelt-dev/toolbelt/internal/db"
	"github.com/toolbelt-dev/toolbelt/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func seedStore(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	now := time.Now()
	turnID := uint(1)
	for _, v := range []interface{}{
		&models.Session{ID: "sess-1", Cwd: "/repo", Model: "claude-sonnet-4-5", InputTokens: 500, OutputTokens: 120, CostUSD: 0.05, StartedAt: now},
		&models.Turn{SessionID: "sess-1", Sequence: 1, StartedAt: now, EndedAt: &now},
		&models.ToolCall{SessionID: "sess-1", TurnID: &turnID, CallID: "c1", Name: "bash", StartedAt: now, EndedAt: &now},
		&models.ToolCall{SessionID: "sess-1", TurnID: &turnID, CallID: "c2", Name: "bash", StartedAt: now, EndedAt: &now},
		&models.ToolCall{SessionID: "sess-1", TurnID: &turnID, CallID: "c3", Name: "read", StartedAt: now, EndedAt: &now},
		&models.Message{SessionID: "sess-1", Role: "user", Content: "hi", CreatedAt: now},
	} {
		if err := gdb.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func testRouter(t *testing.T, gdb *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, gdb, newStatsCache(gdb))
	return router
}

func TestSessionList(t *testing.T) {
	gdb := testStore(t)
	seedStore(t, gdb)
	router := testRouter(t, gdb)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Sessions []SessionRow `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(body.Sessions))
	}
	if body.Sessions[0].Turns != 1 {
		t.Errorf("Turns = %d, want 1", body.Sessions[0].Turns)
	}
}

func TestSessionDetail(t *testing.T) {
	gdb := testStore(t)
	seedStore(t, gdb)
	router := testRouter(t, gdb)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/sess-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var detail SessionDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Session.ID != "sess-1" {
		t.Errorf("Session.ID = %q", detail.Session.ID)
	}
	if len(detail.ToolCalls) != 3 {
		t.Errorf("got %d tool calls, want 3", len(detail.ToolCalls))
	}
}

func TestSessionDetail_NotFound(t *testing.T) {
	router := testRouter(t, testStore(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStats(t *testing.T) {
	gdb := testStore(t)
	seedStore(t, gdb)
	router := testRouter(t, gdb)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var stats Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Sessions != 1 || stats.ToolCalls != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ToolUse["bash"] != 2 {
		t.Errorf("ToolUse[bash] = %d, want 2", stats.ToolUse["bash"])
	}
	if stats.InputTokens != 500 {
		t.Errorf("InputTokens = %d, want 500", stats.InputTokens)
	}
}
