package transport

import (
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/rbright/talkd/internal/audio"
	"github.com/rbright/talkd/internal/daemon"
	"github.com/rbright/talkd/internal/fsm"
)

// HTTPServer adapts the daemon's command/response channel pair to
// gin-gonic/gin HTTP handlers under /voice. Each handler performs one full
// send-then-receive round trip; mu serializes round trips since the
// underlying channels carry one in-flight exchange at a time regardless of
// how many HTTP requests arrive concurrently.
type HTTPServer struct {
	commands  chan<- daemon.Command
	responses <-chan daemon.Response

	mu sync.Mutex
}

// NewHTTPServer builds an HTTPServer bound to a daemon loop's channel pair.
func NewHTTPServer(commands chan<- daemon.Command, responses <-chan daemon.Response) *HTTPServer {
	return &HTTPServer{commands: commands, responses: responses}
}

// Engine builds the gin router: a static index page plus the three /voice
// command endpoints.
func (s *HTTPServer) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", s.handleIndex)

	voice := engine.Group("/voice")
	voice.POST("/start", s.handleStart)
	voice.POST("/stop", s.handleStop)
	voice.POST("/mode", s.handleMode)

	return engine
}

func (s *HTTPServer) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

func (s *HTTPServer) handleStart(c *gin.Context) {
	var p sessionPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := s.roundTrip(daemon.Command{
		Kind: fsm.CommandStart,
		Session: audio.Session{
			InputDevice:    p.InputDevice,
			SampleRateHint: p.SampleRateHint,
			Prompt:         p.Prompt,
			Model:          p.Model,
		},
	})
	writeResponse(c, resp)
}

func (s *HTTPServer) handleStop(c *gin.Context) {
	resp := s.roundTrip(daemon.Command{Kind: fsm.CommandStop})
	writeResponse(c, resp)
}

func (s *HTTPServer) handleMode(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := decodeMode(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := s.roundTrip(daemon.Command{Kind: fsm.CommandMode, Mode: mode})
	writeResponse(c, resp)
}

// roundTrip sends cmd and blocks for the single matching response.
func (s *HTTPServer) roundTrip(cmd daemon.Command) daemon.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commands <- cmd
	return <-s.responses
}

// writeResponse renders resp using the same envelope encoding the socket
// transport writes, so both adapters present an identical payload.
func writeResponse(c *gin.Context, resp daemon.Response) {
	encoded, err := EncodeResponse(resp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", encoded)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>talkd</title></head>
<body><h1>talkd</h1><p>voice-transcription daemon</p></body>
</html>
`
