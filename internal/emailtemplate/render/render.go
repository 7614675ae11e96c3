package render

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/config"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
)

// RenderContext carries the variables available to every template.
type RenderContext struct {
	User   *userdomain.User
	Alert  *alertdomain.Alert
	Alerts []alertdomain.Alert
	Extra  map[string]any
}

type RenderedEmail struct {
	Subject     string
	HTMLContent string
	TextContent string
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Cache *cache.Manager
	Cfg   config.Config
}

// Renderer resolves a named template, database-stored or hardcoded
// fallback, into subject, text and HTML bodies.
type Renderer struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	cache   *cache.Manager
	siteURL string
}

func New(p Params) *Renderer {
	return &Renderer{
		db:      p.DB,
		log:     p.Log.Named("emailtemplate.render"),
		repo:    p.Repo,
		cache:   p.Cache,
		siteURL: p.Cfg.SiteURL,
	}
}

// Render looks up the active template by name and renders it against the
// context. A missing template degrades to the hardcoded fallback rather
// than failing; a template that fails to parse or execute is an error.
func (r *Renderer) Render(ctx context.Context, name string, rc RenderContext) (*RenderedEmail, error) {
	template, err := r.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if template == nil {
		r.log.Error("email template not found or inactive, using fallback",
			zap.String("template", name))
		return r.renderFallback(name, rc), nil
	}

	data := r.templateData(rc)

	subject, err := renderText(template.Subject, data)
	if err != nil {
		return nil, fmt.Errorf("render subject for %q: %w", name, err)
	}

	htmlContent, err := r.renderHTMLBody(template, rc, data)
	if err != nil {
		return nil, fmt.Errorf("render html for %q: %w", name, err)
	}

	textContent, err := r.renderTextBody(template, rc, data)
	if err != nil {
		return nil, fmt.Errorf("render text for %q: %w", name, err)
	}

	return &RenderedEmail{
		Subject:     subject,
		HTMLContent: htmlContent,
		TextContent: textContent,
	}, nil
}

// lookup reads through the template cache. Cache failures degrade to a
// database read.
func (r *Renderer) lookup(ctx context.Context, name string) (*domain.EmailTemplate, error) {
	key := cache.TemplateKey(name)

	var cached domain.EmailTemplate
	if r.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	template, err := r.repo.FindActiveByName(ctx, r.db, name)
	if err != nil {
		return nil, err
	}
	if template != nil {
		r.cache.Set(ctx, key, template, cache.TemplatesTTL)
	}
	return template, nil
}

func (r *Renderer) templateData(rc RenderContext) map[string]any {
	data := map[string]any{
		"user":            rc.User,
		"alert":           rc.Alert,
		"alerts":          rc.Alerts,
		"site_url":        r.siteURL,
		"unsubscribe_url": r.UnsubscribeURL(),
		"settings_url":    r.SettingsURL(),
	}
	for k, v := range rc.Extra {
		data[k] = v
	}
	return data
}

// Raw insertion formats used on the non-wrapper path. The HTML variant
// splices the alert title and text verbatim, outside the escaping engine.
// Alert text is trusted pre-sanitized HTML here; changing this path to
// escape would break existing formatted alerts.
const (
	htmlSpliceFormat = "\n<div class=\"alert-content\">\n    <h3>%s</h3>\n    <div>%s</div>\n</div>\n"
	textSpliceFormat = "\n%s\n\n%s\n"

	// Emitted literally when no alert is in context on the splice path.
	contentPlaceholder = "{{content}}"
)

func (r *Renderer) renderHTMLBody(t *domain.EmailTemplate, rc RenderContext, data map[string]any) (string, error) {
	if t.HTMLWrapper != "" {
		return renderHTML(t.HTMLWrapper, data)
	}

	header, err := renderHTML(t.HTMLHeader, data)
	if err != nil {
		return "", err
	}
	footer, err := renderHTML(t.HTMLFooter, data)
	if err != nil {
		return "", err
	}

	content := contentPlaceholder
	if rc.Alert != nil {
		content = fmt.Sprintf(htmlSpliceFormat, rc.Alert.Title, rc.Alert.Text)
	}
	return header + content + footer, nil
}

func (r *Renderer) renderTextBody(t *domain.EmailTemplate, rc RenderContext, data map[string]any) (string, error) {
	if t.TextWrapper != "" {
		return renderText(t.TextWrapper, data)
	}

	header, err := renderText(t.TextHeader, data)
	if err != nil {
		return "", err
	}
	footer, err := renderText(t.TextFooter, data)
	if err != nil {
		return "", err
	}

	content := contentPlaceholder
	if rc.Alert != nil {
		content = fmt.Sprintf(textSpliceFormat, rc.Alert.Title, rc.Alert.Text)
	}
	return header + content + footer, nil
}

func (r *Renderer) UnsubscribeURL() string {
	return r.siteURL + "/subscriptions"
}

func (r *Renderer) SettingsURL() string {
	return r.siteURL + "/subscriptions"
}

func (r *Renderer) AlertURL(alert *alertdomain.Alert) string {
	return fmt.Sprintf("%s/alerts/%s", r.siteURL, alert.ID.String())
}

func renderHTML(src string, data map[string]any) (string, error) {
	tmpl, err := htmltemplate.New("email").Funcs(htmlFuncs).Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderText(src string, data map[string]any) (string, error) {
	tmpl, err := texttemplate.New("email").Funcs(textFuncs).Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
