package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedLoggers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	log := WithCampaign(42)
	log.Info().Msg("saved")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(42), line["campaign_id"])
	assert.Equal(t, "saved", line["message"])

	buf.Reset()
	reqLog := WithRequestID("abc123")
	reqLog.Warn().Msg("slow")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc123", line["request_id"])
	assert.Equal(t, "warn", line["level"])
}

func TestPrintfHelpers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Info("uploaded %d images", 3)
	assert.Contains(t, buf.String(), "uploaded 3 images")
}
