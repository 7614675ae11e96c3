package service

import "github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"

// defaultTemplates are the stock templates installed by SeedDefaults.
// Weekly, monthly and subscription-confirm templates are intentionally not
// seeded; those names resolve through the generic fallback until an
// operator creates them.
var defaultTemplates = []domain.EmailTemplate{
	{
		Name:        domain.TemplateIndividualAlert,
		Description: "Template for individual alert notifications",
		Subject:     "[Sentinel Alert] {{.alert.Title}}",
		HTMLHeader: `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; }
        .header { background-color: #dc3545; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f8f9fa; }
        .alert-info { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
        .btn { background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Sentinel Alert System</h1>
        </div>
        <div class="content">
            <h2>{{.alert.ShockType.Name}} Alert</h2>
            <p>Dear {{.user.FirstName | default "Subscriber"}},</p>
            <p>A new alert has been issued that matches your subscription preferences:</p>
            <div class="alert-info">
                <h3>{{.alert.Title}}</h3>
                <p><strong>Date:</strong> {{.alert.ShockDate | date}}</p>
                <p><strong>Severity:</strong> {{.alert.SeverityDisplay}}</p>
                <p><strong>Locations:</strong> {{range $i, $loc := .alert.Locations}}{{if $i}}, {{end}}{{$loc.Name}}{{end}}</p>
                <div>{{.alert.Text}}</div>
            </div>
            <p><a href="{{.site_url}}/alerts/{{.alert.ID}}" class="btn">View Full Alert</a></p>
        </div>
`,
		HTMLFooter: `
        <div class="footer">
            <hr>
            <p>You received this email because you subscribed to alerts for this region and type.</p>
            <p><a href="{{.unsubscribe_url}}">Unsubscribe</a> | <a href="{{.settings_url}}">Update Preferences</a></p>
        </div>
    </div>
</body>
</html>
`,
		TextHeader: `
Sentinel Alert System

{{.alert.ShockType.Name}} Alert

Dear {{.user.FirstName | default "Subscriber"}},

A new alert has been issued that matches your subscription preferences:

Title: {{.alert.Title}}
Date: {{.alert.ShockDate | date}}
Severity: {{.alert.SeverityDisplay}}
Locations: {{range $i, $loc := .alert.Locations}}{{if $i}}, {{end}}{{$loc.Name}}{{end}}

{{.alert.Text}}

View full alert: {{.site_url}}/alerts/{{.alert.ID}}
`,
		TextFooter: `

---
You received this email because you subscribed to alerts for this region and type.
Unsubscribe: {{.unsubscribe_url}}
Update Preferences: {{.settings_url}}
`,
		Active: true,
	},
	{
		Name:        domain.TemplateDailyDigest,
		Description: "Daily digest of alerts",
		Subject:     `[Sentinel] Daily Alert Digest - {{len .alerts}} alert{{len .alerts | pluralize}}`,
		HTMLHeader: `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; }
        .header { background-color: #28a745; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; }
        .alert-item { border: 1px solid #ddd; margin: 10px 0; padding: 15px; border-radius: 5px; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Daily Alert Digest</h1>
        </div>
        <div class="content">
            <p>Dear {{.user.FirstName | default "Subscriber"}},</p>
            <p>Here are the alerts from the last 24 hours that match your subscriptions:</p>
            {{range .alerts}}
            <div class="alert-item">
                <h3>{{.Title}}</h3>
                <p><strong>Type:</strong> {{.ShockType.Name}} | <strong>Severity:</strong> {{.SeverityDisplay}}</p>
                <p>{{.Text | truncatewords 30}}</p>
                <p><a href="{{$.site_url}}/alerts/{{.ID}}">Read more</a></p>
            </div>
            {{end}}
        </div>
`,
		HTMLFooter: `
        <div class="footer">
            <hr>
            <p><a href="{{.unsubscribe_url}}">Unsubscribe</a> | <a href="{{.settings_url}}">Update Preferences</a></p>
        </div>
    </div>
</body>
</html>
`,
		TextHeader: `
Sentinel - Daily Alert Digest

Dear {{.user.FirstName | default "Subscriber"}},

Here are the alerts from the last 24 hours that match your subscriptions:

{{range $i, $alert := .alerts}}
{{add $i 1}}. {{$alert.Title}}
   Type: {{$alert.ShockType.Name}} | Severity: {{$alert.SeverityDisplay}}
   {{$alert.Text | truncatewords 30}}
   View: {{$.site_url}}/alerts/{{$alert.ID}}

{{end}}
`,
		TextFooter: `
---
Unsubscribe: {{.unsubscribe_url}}
Update Preferences: {{.settings_url}}
`,
		Active: true,
	},
	{
		Name:        domain.TemplateEmailVerification,
		Description: "Email verification template",
		Subject:     "[Sentinel] Verify your email address",
		HTMLHeader: `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; }
        .header { background-color: #007bff; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; }
        .btn { background-color: #28a745; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Email Verification</h1>
        </div>
        <div class="content">
            <p>Dear {{.user.FirstName | default .user.Username}},</p>
            <p>Thank you for registering with the Sentinel Alert System.</p>
            <p>Please click the button below to verify your email address and enable email notifications:</p>
            <p style="text-align: center; margin: 30px 0;">
                <a href="{{.verification_url}}" class="btn">Verify Email Address</a>
            </p>
            <p>If the button doesn't work, copy and paste this link into your browser:</p>
            <p>{{.verification_url}}</p>
        </div>
`,
		HTMLFooter: `
        <div class="footer">
            <p>If you didn't request this verification, please ignore this email.</p>
        </div>
    </div>
</body>
</html>
`,
		TextHeader: `
Sentinel - Email Verification

Dear {{.user.FirstName | default .user.Username}},

Thank you for registering with the Sentinel Alert System.

Please verify your email address by clicking the link below:
{{.verification_url}}
`,
		TextFooter: `

If you didn't request this verification, please ignore this email.
`,
		Active: true,
	},
}
