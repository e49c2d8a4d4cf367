package utils

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// DeviceIDHeader carries the client device fingerprint.
const DeviceIDHeader = "X-Device-Id"

const maxPeekBody = 1 << 20

// DeviceID returns the client device fingerprint from the X-Device-Id header,
// falling back to a "deviceId" field in a JSON body. The body is restored so
// handlers can still bind it.
func DeviceID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(DeviceIDHeader)); id != "" {
		return id
	}
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return ""
	}

	// Only the first maxPeekBody bytes are inspected; the rest is handed back unread.
	original := c.Request.Body
	raw, err := io.ReadAll(io.LimitReader(original, maxPeekBody))
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(raw), original), original}
	if err != nil {
		return ""
	}

	var body struct {
		DeviceID string `json:"deviceId"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.DeviceID)
}
