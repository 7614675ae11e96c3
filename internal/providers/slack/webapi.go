package slack

import (
	"context"
	"fmt"
	"strings"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/config"
)

const (
	maxBodyLength = 500
	maxLocations  = 5
)

type chatPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// WebAPIProvider posts alerts to a Slack channel as Block Kit messages.
type WebAPIProvider struct {
	client  chatPoster
	channel string
	siteURL string
	log     *zap.Logger
}

func NewWebAPI(cfg config.Config, log *zap.Logger) *WebAPIProvider {
	return &WebAPIProvider{
		client:  slackapi.New(cfg.SlackBotToken),
		channel: cfg.SlackChannel,
		siteURL: cfg.SiteURL,
		log:     log.Named("slack"),
	}
}

func (p *WebAPIProvider) PostAlert(ctx context.Context, alert *alertdomain.Alert) bool {
	blocks := p.buildAlertBlocks(alert)

	_, _, err := p.client.PostMessageContext(ctx, p.channel,
		slackapi.MsgOptionBlocks(blocks...),
		slackapi.MsgOptionText(fmt.Sprintf("New Alert: %s", alert.Title), false),
	)
	if err != nil {
		p.log.Error("failed to post alert to slack",
			zap.String("alert_id", alert.ID.String()),
			zap.String("channel", p.channel),
			zap.Error(err))
		return false
	}

	p.log.Info("alert posted to slack",
		zap.String("alert_id", alert.ID.String()),
		zap.String("channel", p.channel))
	return true
}

func (p *WebAPIProvider) buildAlertBlocks(alert *alertdomain.Alert) []slackapi.Block {
	emoji, buttonStyle := severityConfig(alert.Severity)
	alertURL := fmt.Sprintf("%s/alerts/%s", p.siteURL, alert.ID.String())

	header := slackapi.NewHeaderBlock(
		slackapi.NewTextBlockObject(slackapi.PlainTextType,
			fmt.Sprintf("%s %s", emoji, alert.Title), true, false))

	fields := []*slackapi.TextBlockObject{
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("*Shock Type:*\n%s %s", alert.ShockType.Icon, alert.ShockType.Name), false, false),
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("*Severity:*\n%s %s", emoji, alert.SeverityDisplay()), false, false),
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("*Date:*\n%s", alert.ShockDate.Format("2006-01-02")), false, false),
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("*Locations:*\n%s", locationSummary(alert)), false, false),
	}
	fieldsBlock := slackapi.NewSectionBlock(nil, fields, nil)

	// Truncate on runes so a multi-byte cut never produces invalid UTF-8.
	body := alert.Text
	if runes := []rune(body); len(runes) > maxBodyLength {
		body = string(runes[:maxBodyLength-3]) + "..."
	}
	bodyBlock := slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType, body, false, false), nil, nil)

	contextBlock := slackapi.NewContextBlock("",
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("Source: %s | Created: %s",
				alert.DataSource.Name,
				alert.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")), false, false))

	button := slackapi.NewButtonBlockElement("view_alert", alert.ID.String(),
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "View Alert Details", true, false))
	button.URL = alertURL
	button.Style = buttonStyle
	actionsBlock := slackapi.NewActionBlock("", button)

	return []slackapi.Block{header, fieldsBlock, bodyBlock, contextBlock, actionsBlock}
}

func locationSummary(alert *alertdomain.Alert) string {
	names := make([]string, 0, maxLocations)
	for i, loc := range alert.Locations {
		if i == maxLocations {
			break
		}
		names = append(names, loc.Name)
	}
	summary := strings.Join(names, ", ")
	if extra := len(alert.Locations) - maxLocations; extra > 0 {
		summary += fmt.Sprintf(" (+%d more)", extra)
	}
	return summary
}

// severityConfig maps the 1..5 scale to an emoji and button style.
// Out-of-range severities fall back to a neutral marker.
func severityConfig(severity int) (string, slackapi.Style) {
	switch severity {
	case 1:
		return "🟢", slackapi.StylePrimary
	case 2:
		return "🟡", slackapi.StylePrimary
	case 3:
		return "🟠", slackapi.StylePrimary
	case 4, 5:
		return "🔴", slackapi.StyleDanger
	default:
		return "⚪", slackapi.StylePrimary
	}
}
