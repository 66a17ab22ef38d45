package handlers

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentor-backend/internal/http/response"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

const sseDone = "data: [DONE]\n\n"

// errStreamFailed is what clients see; provider and store detail is logged.
var errStreamFailed = errors.New("agent stream failed")

// streamSSE relays text chunks as server-sent events. An error before the
// first chunk is answered with a JSON 500; once the stream has started it is
// reported as an error event. The stream always ends with [DONE].
func streamSSE(c *gin.Context, log *logger.Logger, seq iter.Seq2[string, error]) {
	next, stop := iter.Pull2(seq)
	defer stop()

	chunk, err, ok := next()
	if ok && err != nil {
		log.Error("Agent stream failed before first chunk", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "agent_stream_failed", errStreamFailed)
		return
	}

	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	w := c.Writer
	for ok {
		if err != nil {
			log.Warn("Agent stream interrupted", "error", err)
			writeEvent(w, "error", errStreamFailed.Error())
			break
		}
		if chunk != "" {
			writeEvent(w, "", chunk)
			w.Flush()
		}
		chunk, err, ok = next()
	}
	_, _ = io.WriteString(w, sseDone)
	w.Flush()
}

// writeEvent writes one frame. Each line of data becomes its own data field
// so embedded newlines survive the SSE framing.
func writeEvent(w io.Writer, event, data string) {
	var b strings.Builder
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", strings.TrimSuffix(line, "\r"))
	}
	b.WriteString("\n")
	_, _ = io.WriteString(w, b.String())
}
