package serve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/queries"
	"github.com/sharvarianand/tasktuner/pkg/config"
)

func newApp() *cli.App {
	deps := queries.Dependencies{}
	app := cli.NewApp(
		queries.NewPrioritizeTasksHandler(nil, deps),
		queries.NewScoreTaskHandler(nil, deps),
		queries.NewExplainTaskHandler(nil, deps),
	)
	app.SetCurrentUserID(uuid.MustParse("00000000-0000-0000-0000-000000000001"))
	return app
}

func TestNewServer(t *testing.T) {
	app := newApp()
	app.SetConfig(&config.Config{HTTPAddr: "127.0.0.1:0", RateLimitPerMin: 0})

	srv := NewServer(app, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/prioritize", strings.NewReader(`{"tasks": [{"title": "a"}]}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"aiRank":1`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := NewServer(newApp(), "127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ReportsListenErrors(t *testing.T) {
	srv := NewServer(newApp(), "256.0.0.1:bad")

	err := Run(context.Background(), srv)

	assert.Error(t, err)
}
