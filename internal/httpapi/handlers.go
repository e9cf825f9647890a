package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guilherme-santos/tabcalendar/internal"
)

type eventRequest struct {
	Name   *string        `json:"event_name"`
	Date   *internal.Date `json:"date"`
	Notes  *string        `json:"notes"`
	TaskID *int64         `json:"task_id"`
}

func (r eventRequest) newEvent() internal.NewEvent {
	e := internal.NewEvent{
		Notes:  r.Notes,
		TaskID: r.TaskID,
	}
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.Date != nil {
		e.Date = r.Date.Time
	}
	return e
}

func (r eventRequest) update() internal.EventUpdate {
	u := internal.EventUpdate{
		Name:  r.Name,
		Notes: r.Notes,
	}
	if r.Date != nil && !r.Date.IsZero() {
		u.Date = &r.Date.Time
	}
	return u
}

func (s *Server) handleList(tab internal.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		containerID, ok := idParam(c)
		if !ok {
			return
		}

		events, err := s.store.ListEvents(c.Request.Context(), tab, containerID, currentUserID(c))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func (s *Server) handleCreate(tab internal.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		containerID, ok := idParam(c)
		if !ok {
			return
		}
		req, ok := bindEvent(c)
		if !ok {
			return
		}

		e, err := s.store.CreateEvent(c.Request.Context(), tab, currentUserID(c), containerID, req.newEvent())
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := idParam(c)
		if !ok {
			return
		}
		req, ok := bindEvent(c)
		if !ok {
			return
		}

		e, err := s.store.UpdateEvent(c.Request.Context(), eventID, currentUserID(c), req.update())
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := idParam(c)
		if !ok {
			return
		}

		e, err := s.store.DeleteEvent(c.Request.Context(), eventID, currentUserID(c))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func bindEvent(c *gin.Context) (eventRequest, bool) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return req, false
	}
	return req, true
}

func (s *Server) respondError(c *gin.Context, err error) {
	var badReq *internal.BadRequestError
	switch {
	case errors.As(err, &badReq):
		c.JSON(http.StatusBadRequest, gin.H{"error": badReq.Error()})
	case errors.Is(err, internal.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, internal.ErrEventNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, internal.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		s.logger.Error("calendar request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
