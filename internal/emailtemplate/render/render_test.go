package render

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/config"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate/repository"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
	"github.com/sentinel-ews/sentinel/pkg/db"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.EmailTemplate{}))

	return New(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		Repo:  repository.Provide(),
		Cache: cache.NewManager(cache.NewMemoryStore(), zap.NewNop()),
		Cfg:   config.Config{SiteURL: "http://localhost:8000"},
	})
}

func testAlert(title, text string) *alertdomain.Alert {
	return &alertdomain.Alert{
		ID:        snowflake.ParseInt64(12345),
		Title:     title,
		Text:      text,
		ShockType: shocktypedomain.ShockType{Name: "Flood"},
		ShockDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Severity:  3,
	}
}

func testUser() *userdomain.User {
	return &userdomain.User{
		Username:  "amina",
		Email:     "amina@example.org",
		FirstName: "Amina",
	}
}

func TestRenderUnknownTemplateFallsBackToStub(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), "no_such_template", RenderContext{User: testUser()})
	require.NoError(t, err)

	assert.Equal(t, "[Sentinel] Notification", out.Subject)
	assert.Equal(t, "Notification content not available", out.TextContent)
	assert.Contains(t, out.HTMLContent, "Notification content not available")
}

func TestRenderIndividualAlertFallback(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), domain.TemplateIndividualAlert, RenderContext{
		User:  testUser(),
		Alert: testAlert("X", "river levels rising"),
	})
	require.NoError(t, err)

	assert.Equal(t, "[Sentinel Alert] X", out.Subject)
	assert.Contains(t, out.TextContent, "X")
	assert.Contains(t, out.HTMLContent, "X")
	assert.Contains(t, out.TextContent, "Dear Amina")
}

func TestRenderDatabaseTemplateRoundTrip(t *testing.T) {
	r := newTestRenderer(t)
	ctx := context.Background()

	require.NoError(t, r.repo.Insert(ctx, r.db, &domain.EmailTemplate{
		ID:         snowflake.ParseInt64(1),
		Name:       domain.TemplateIndividualAlert,
		Subject:    "[Sentinel Alert] {{.alert.Title}}",
		HTMLHeader: "<p>Hello {{.user.FirstName}}</p>",
		HTMLFooter: "<p>bye</p>",
		TextHeader: "Hello {{.user.FirstName}}",
		TextFooter: "bye",
		Active:     true,
	}))

	out, err := r.Render(ctx, domain.TemplateIndividualAlert, RenderContext{
		User:  testUser(),
		Alert: testAlert("X", "details"),
	})
	require.NoError(t, err)

	assert.Equal(t, "[Sentinel Alert] X", out.Subject)
	assert.Contains(t, out.TextContent, "X")
	assert.Contains(t, out.HTMLContent, "X")
	assert.Contains(t, out.HTMLContent, "Hello Amina")
}

func TestRenderSplicePathKeepsRawHTML(t *testing.T) {
	r := newTestRenderer(t)
	ctx := context.Background()

	require.NoError(t, r.repo.Insert(ctx, r.db, &domain.EmailTemplate{
		ID:         snowflake.ParseInt64(2),
		Name:       domain.TemplateIndividualAlert,
		Subject:    "s",
		HTMLHeader: "<body>",
		HTMLFooter: "</body>",
		Active:     true,
	}))

	out, err := r.Render(ctx, domain.TemplateIndividualAlert, RenderContext{
		User:  testUser(),
		Alert: testAlert("T", "<b>bold</b>"),
	})
	require.NoError(t, err)

	// The splice path interpolates outside the escaping engine.
	assert.Contains(t, out.HTMLContent, "<b>bold</b>")
}

func TestRenderWrapperPathEscapes(t *testing.T) {
	r := newTestRenderer(t)
	ctx := context.Background()

	require.NoError(t, r.repo.Insert(ctx, r.db, &domain.EmailTemplate{
		ID:          snowflake.ParseInt64(3),
		Name:        domain.TemplateIndividualAlert,
		Subject:     "s",
		HTMLWrapper: "<div>{{.alert.Text}}</div>",
		Active:      true,
	}))

	out, err := r.Render(ctx, domain.TemplateIndividualAlert, RenderContext{
		User:  testUser(),
		Alert: testAlert("T", "<b>bold</b>"),
	})
	require.NoError(t, err)

	assert.NotContains(t, out.HTMLContent, "<b>bold</b>")
	assert.Contains(t, out.HTMLContent, "&lt;b&gt;")
}

func TestRenderSpliceWithoutAlertEmitsPlaceholder(t *testing.T) {
	r := newTestRenderer(t)
	ctx := context.Background()

	require.NoError(t, r.repo.Insert(ctx, r.db, &domain.EmailTemplate{
		ID:         snowflake.ParseInt64(4),
		Name:       domain.TemplateDailyDigest,
		Subject:    "digest",
		TextHeader: "head",
		TextFooter: "foot",
		Active:     true,
	}))

	out, err := r.Render(ctx, domain.TemplateDailyDigest, RenderContext{User: testUser()})
	require.NoError(t, err)

	assert.Equal(t, "head{{content}}foot", out.TextContent)
}
