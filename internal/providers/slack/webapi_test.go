package slack

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
)

type fakePoster struct {
	err     error
	called  bool
	channel string
}

func (f *fakePoster) PostMessageContext(_ context.Context, channelID string, _ ...slackapi.MsgOption) (string, string, error) {
	f.called = true
	f.channel = channelID
	return channelID, "ts", f.err
}

func newTestProvider(poster chatPoster) *WebAPIProvider {
	return &WebAPIProvider{
		client:  poster,
		channel: "#alerts",
		siteURL: "http://localhost:8000",
		log:     zap.NewNop(),
	}
}

func testAlert(severity int, locationCount int) *alertdomain.Alert {
	locations := make([]locationdomain.Location, 0, locationCount)
	for i := 0; i < locationCount; i++ {
		locations = append(locations, locationdomain.Location{
			ID:   snowflake.ParseInt64(int64(100 + i)),
			Name: "Region " + string(rune('A'+i)),
		})
	}
	return &alertdomain.Alert{
		ID:         snowflake.ParseInt64(42),
		Title:      "River levels rising",
		Text:       "Evacuation recommended",
		Severity:   severity,
		ShockType:  shocktypedomain.ShockType{Name: "Flood", Icon: "🌊"},
		DataSource: alertdomain.DataSource{Name: "field reports"},
		ShockDate:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC),
		Locations:  locations,
	}
}

func TestPostAlertSuccess(t *testing.T) {
	poster := &fakePoster{}
	p := newTestProvider(poster)

	ok := p.PostAlert(context.Background(), testAlert(3, 2))

	assert.True(t, ok)
	assert.True(t, poster.called)
	assert.Equal(t, "#alerts", poster.channel)
}

func TestPostAlertAPIErrorReturnsFalse(t *testing.T) {
	poster := &fakePoster{err: errors.New("channel_not_found")}
	p := newTestProvider(poster)

	ok := p.PostAlert(context.Background(), testAlert(3, 1))
	assert.False(t, ok)
}

func TestBuildAlertBlocksShape(t *testing.T) {
	p := newTestProvider(&fakePoster{})

	blocks := p.buildAlertBlocks(testAlert(2, 2))
	require.Len(t, blocks, 5)

	header, ok := blocks[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Equal(t, "🟡 River levels rising", header.Text.Text)

	fields, ok := blocks[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	require.Len(t, fields.Fields, 4)
	assert.Contains(t, fields.Fields[0].Text, "Flood")
	assert.Contains(t, fields.Fields[3].Text, "Region A, Region B")

	contextBlock, ok := blocks[3].(*slackapi.ContextBlock)
	require.True(t, ok)
	text := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	assert.Contains(t, text.Text, "Source: field reports")
}

func TestBuildAlertBlocksTruncatesLongText(t *testing.T) {
	p := newTestProvider(&fakePoster{})

	alert := testAlert(1, 1)
	alert.Text = strings.Repeat("a", 600)

	blocks := p.buildAlertBlocks(alert)
	body := blocks[2].(*slackapi.SectionBlock)
	assert.Len(t, body.Text.Text, 500)
	assert.True(t, strings.HasSuffix(body.Text.Text, "..."))
}

func TestBuildAlertBlocksTruncatesMultiByteTextOnRunes(t *testing.T) {
	p := newTestProvider(&fakePoster{})

	alert := testAlert(1, 1)
	alert.Text = strings.Repeat("é", 600)

	blocks := p.buildAlertBlocks(alert)
	body := blocks[2].(*slackapi.SectionBlock)
	assert.True(t, utf8.ValidString(body.Text.Text))
	assert.Equal(t, 500, utf8.RuneCountInString(body.Text.Text))
	assert.True(t, strings.HasSuffix(body.Text.Text, "..."))
}

func TestBuildAlertBlocksLocationOverflow(t *testing.T) {
	p := newTestProvider(&fakePoster{})

	blocks := p.buildAlertBlocks(testAlert(1, 7))
	fields := blocks[1].(*slackapi.SectionBlock)
	assert.Contains(t, fields.Fields[3].Text, "(+2 more)")
}

func TestSeverityConfig(t *testing.T) {
	tests := []struct {
		severity int
		emoji    string
		style    slackapi.Style
	}{
		{1, "🟢", slackapi.StylePrimary},
		{2, "🟡", slackapi.StylePrimary},
		{3, "🟠", slackapi.StylePrimary},
		{4, "🔴", slackapi.StyleDanger},
		{5, "🔴", slackapi.StyleDanger},
		{0, "⚪", slackapi.StylePrimary},
		{9, "⚪", slackapi.StylePrimary},
	}
	for _, tt := range tests {
		emoji, style := severityConfig(tt.severity)
		assert.Equal(t, tt.emoji, emoji, "severity %d", tt.severity)
		assert.Equal(t, tt.style, style, "severity %d", tt.severity)
	}
}

func TestButtonStyleFollowsSeverity(t *testing.T) {
	p := newTestProvider(&fakePoster{})

	blocks := p.buildAlertBlocks(testAlert(5, 1))
	actions := blocks[4].(*slackapi.ActionBlock)
	button := actions.Elements.ElementSet[0].(*slackapi.ButtonBlockElement)
	assert.Equal(t, slackapi.StyleDanger, button.Style)
	assert.Equal(t, "http://localhost:8000/alerts/42", button.URL)
}
