package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"stopwatch-widget/internal/stopwatch"
	"stopwatch-widget/internal/util"
	"stopwatch-widget/internal/widget"
)

const streamPath = "/api/stopwatch/stream"

// Config defines server dependencies.
type Config struct {
	Title           string
	RefreshInterval time.Duration
	AllowedOrigins  []string
}

// Server wires the stopwatch engine to HTTP handlers and the widget stream.
type Server struct {
	engine         *stopwatch.Engine
	notifier       *StopwatchNotifier
	page           *template.Template
	title          string
	allowedOrigins []string
}

// NewServer constructs the API server. Extra engine options are applied
// after the ones derived from cfg.
func NewServer(cfg Config, opts ...stopwatch.Option) (*Server, error) {
	page, err := widget.Page()
	if err != nil {
		return nil, fmt.Errorf("widget page: %w", err)
	}

	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = "Stopwatch"
	}

	server := &Server{
		notifier:       NewStopwatchNotifier(),
		page:           page,
		title:          title,
		allowedOrigins: cfg.AllowedOrigins,
	}

	engineOpts := []stopwatch.Option{
		stopwatch.WithRefreshInterval(cfg.RefreshInterval),
		stopwatch.WithListener(server.handleEngineEvent),
	}
	server.engine = stopwatch.New(append(engineOpts, opts...)...)

	server.notifier.Broadcast(stateEvent("", server.engine.Snapshot()))

	logrus.WithFields(logrus.Fields{
		"engine_id":        server.engine.ID(),
		"refresh_interval": server.engine.RefreshInterval(),
	}).Info("stopwatch engine ready")

	return server, nil
}

// Engine exposes the stopwatch driven by this server.
func (s *Server) Engine() *stopwatch.Engine {
	return s.engine
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()
	r.SetHTMLTemplate(s.page)

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/", s.handleIndex)
	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api/stopwatch")
	{
		api.GET("", s.handleStopwatch)
		api.POST("/toggle", s.handleCommand(CommandToggle))
		api.POST("/lap", s.handleCommand(CommandLap))
		api.POST("/reset", s.handleCommand(CommandReset))
		api.POST("/command", s.handleCommandRequest)
		api.GET("/stream", s.handleStream)
	}

	return r, nil
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, widget.PageName, widget.PageData{
		Title:     s.title,
		StreamURL: streamPath,
		View:      widget.Render(s.engine.Snapshot()),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"engine_id":           s.engine.ID(),
		"refresh_interval_ms": s.engine.RefreshInterval().Milliseconds(),
		"allowed_origins":     s.allowedOrigins,
		"connected_widgets":   s.notifier.ClientCount(),
	})
}

func (s *Server) handleStopwatch(c *gin.Context) {
	c.JSON(http.StatusOK, newStopwatchResponse(s.engine.Snapshot()))
}

func (s *Server) handleCommand(cmd Command) gin.HandlerFunc {
	return func(c *gin.Context) {
		lap, err := s.apply(cmd)
		if err != nil {
			s.renderError(c, http.StatusBadRequest, err)
			return
		}
		resp := newStopwatchResponse(s.engine.Snapshot())
		resp.Lap = lap
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) handleCommandRequest(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("decode command: %w", err))
		return
	}
	cmd, err := ParseCommand(req.Command)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	s.handleCommand(cmd)(c)
}

// apply runs a control operation. The returned lap is nil unless cmd
// recorded one.
func (s *Server) apply(cmd Command) (*widget.LapRow, error) {
	switch cmd {
	case CommandToggle:
		s.engine.ToggleStartPause()
	case CommandLap:
		lap, ok := s.engine.RecordLap()
		if !ok {
			return nil, nil
		}
		row := widget.RenderLap(lap)
		return &row, nil
	case CommandReset:
		s.engine.Reset()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	return nil, nil
}

func (s *Server) handleEngineEvent(ev stopwatch.Event) {
	if ev.Kind == stopwatch.EventTick {
		s.notifier.Broadcast(StreamEvent{
			Type:    eventTick,
			Display: stopwatch.FormatElapsed(ev.Snapshot.Elapsed),
		})
		return
	}

	fields := logrus.Fields{
		"event":      ev.Kind,
		"elapsed_ms": ev.Snapshot.Elapsed.Milliseconds(),
	}
	if ev.Lap != nil {
		fields["lap"] = ev.Lap.Index
	}
	logrus.WithFields(fields).Debug("stopwatch event")

	s.notifier.Broadcast(stateEvent(ev.Kind, ev.Snapshot))
}

func stateEvent(kind stopwatch.EventKind, snap stopwatch.Snapshot) StreamEvent {
	view := widget.Render(snap)
	return StreamEvent{
		Type:    eventState,
		Kind:    string(kind),
		Display: view.Display,
		View:    &view,
	}
}

func (s *Server) handleStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	connected := util.StartTimer()
	client := s.notifier.Register(conn)
	entry := logrus.WithFields(logrus.Fields{
		"remote": conn.RemoteAddr().String(),
		"client": client.id,
	})
	entry.Info("widget websocket connected")
	defer func() {
		s.notifier.Unregister(client)
		entry.WithField("connected_ms", connected.ElapsedMs()).Info("widget websocket disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				entry.Info("widget websocket closed")
			} else {
				entry.WithError(err).Warn("widget websocket unexpected close")
			}
			return
		}

		if err := s.handleStreamMessage(data); err != nil {
			entry.WithError(err).Warn("widget command rejected")
			_ = client.writeJSON(StreamEvent{
				Type:      eventError,
				Message:   err.Error(),
				Timestamp: time.Now().UTC(),
			})
		}
	}
}

func (s *Server) handleStreamMessage(data []byte) error {
	var req CommandRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	cmd, err := ParseCommand(req.Command)
	if err != nil {
		return err
	}
	_, err = s.apply(cmd)
	return err
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
