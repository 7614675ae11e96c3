package render

import (
	"fmt"

	"github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
)

// renderFallback produces the hardcoded minimal email used when the
// database template is missing. Only individual alerts have a real
// fallback; everything else degrades to a generic stub. Degraded service,
// not a failure.
func (r *Renderer) renderFallback(name string, rc RenderContext) *RenderedEmail {
	if name == domain.TemplateIndividualAlert && rc.Alert != nil {
		return r.renderIndividualAlertFallback(rc)
	}

	return &RenderedEmail{
		Subject:     "[Sentinel] Notification",
		HTMLContent: "<p>Notification content not available</p>",
		TextContent: "Notification content not available",
	}
}

func (r *Renderer) renderIndividualAlertFallback(rc RenderContext) *RenderedEmail {
	alert := rc.Alert
	greeting := "Subscriber"
	if rc.User != nil {
		greeting = rc.User.DisplayName()
	}

	subject := fmt.Sprintf("[Sentinel Alert] %s", alert.Title)

	textContent := fmt.Sprintf(`
New Alert: %s

Dear %s,

A new %s alert has been issued that matches your subscription:

Title: %s
Date: %s
Severity: %s

%s

View full alert: %s

---
To unsubscribe: %s
To update preferences: %s
`,
		alert.Title,
		greeting,
		alert.ShockType.Name,
		alert.Title,
		alert.ShockDate.Format("2006-01-02"),
		alert.SeverityDisplay(),
		alert.Text,
		r.AlertURL(alert),
		r.UnsubscribeURL(),
		r.SettingsURL(),
	)

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .alert-header { background-color: #f8f9fa; padding: 15px; border-radius: 5px; }
        .alert-content { margin: 20px 0; }
        .footer { font-size: 12px; color: #6c757d; margin-top: 30px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="alert-header">
            <h2>New Alert: %s</h2>
        </div>

        <p>Dear %s,</p>

        <p>A new <strong>%s</strong> alert has been issued that matches your subscription:</p>

        <div class="alert-content">
            <p><strong>Date:</strong> %s</p>
            <p><strong>Severity:</strong> %s</p>

            <div>%s</div>
        </div>

        <p><a href="%s">View full alert</a></p>

        <div class="footer">
            <hr>
            <p>
                <a href="%s">Unsubscribe</a> |
                <a href="%s">Update Preferences</a>
            </p>
        </div>
    </div>
</body>
</html>
`,
		alert.Title,
		greeting,
		alert.ShockType.Name,
		alert.ShockDate.Format("2006-01-02"),
		alert.SeverityDisplay(),
		alert.Text,
		r.AlertURL(alert),
		r.UnsubscribeURL(),
		r.SettingsURL(),
	)

	return &RenderedEmail{
		Subject:     subject,
		HTMLContent: htmlContent,
		TextContent: textContent,
	}
}
