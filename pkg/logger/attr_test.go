package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/piwik/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestTrackerAttrs(t *testing.T) {
	site := logger.SiteID(3)
	require.Equal(t, "site_id", site.Key)
	assert.Equal(t, int64(3), site.Value.Int64())

	visitor := logger.VisitorID("0123456789abcdef")
	require.Equal(t, "visitor_id", visitor.Key)
	assert.Equal(t, "0123456789abcdef", visitor.Value.String())
	assert.True(t, logger.VisitorID("").Equal(slog.Attr{}))

	assert.Equal(t, "pageview", logger.Kind("pageview").Value.String())
	assert.Equal(t, int64(204), logger.StatusCode(204).Value.Int64())
	assert.Equal(t, "url", logger.URL("https://stats.example.org/piwik.php").Key)
	assert.Equal(t, int64(20), logger.QueueSize(20).Value.Int64())
	assert.Equal(t, "_pk_id.1.1fff", logger.Cookie("_pk_id.1.1fff").Value.String())
	assert.Equal(t, "piwik.tracker", logger.Component("piwik.tracker").Value.String())
}
