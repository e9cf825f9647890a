package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guilherme-santos/tabcalendar/internal"
)

type Store interface {
	UserIDByEmail(_ context.Context, email string) (int64, error)
	ListEvents(_ context.Context, _ internal.Tab, containerID, userID int64) ([]*internal.Event, error)
	CreateEvent(_ context.Context, _ internal.Tab, userID, containerID int64, _ internal.NewEvent) (*internal.Event, error)
	UpdateEvent(_ context.Context, eventID, userID int64, _ internal.EventUpdate) (*internal.Event, error)
	DeleteEvent(_ context.Context, eventID, userID int64) (*internal.Event, error)
}

type Server struct {
	router    *gin.Engine
	store     Store
	logger    *zap.Logger
	jwtSecret string
}

func NewServer(store Store, logger *zap.Logger, jwtSecret string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(requestID())
	router.Use(recovery(logger))
	router.Use(accessLog(logger))

	s := &Server{
		router:    router,
		store:     store,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")
	api.Use(jwtAuth(s.jwtSecret))
	api.Use(s.identity())
	{
		cal := api.Group("/calendar")
		cal.GET("/main/:id", s.handleList(internal.MainTab))
		cal.POST("/main/:id", s.handleCreate(internal.MainTab))
		cal.GET("/sub/:id", s.handleList(internal.SubTab))
		cal.POST("/sub/:id", s.handleCreate(internal.SubTab))
		cal.PATCH("/events/:id", s.handleUpdate())
		cal.DELETE("/events/:id", s.handleDelete())
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
