package server

import (
	"errors"
	"net/http"
	"strconv"

	"ctchen222/tictactoe-solo/internal/api/response"
	"ctchen222/tictactoe-solo/internal/game"
	"ctchen222/tictactoe-solo/internal/hub"
	"ctchen222/tictactoe-solo/internal/session"
	"ctchen222/tictactoe-solo/pkg/proto"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (s *Server) health(c *gin.Context) {
	response.SuccessResponse(c, gin.H{"sessions": s.hub.Len()})
}

// createSession starts a session; the mode defaults to the configured one.
func (s *Server) createSession(c *gin.Context) {
	var req proto.CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	mode := s.opts.DefaultMode
	if req.Mode != "" {
		mode = session.Mode(req.Mode)
	}

	holder := s.hub.Create(c.Request.Context(), mode)
	response.CreatedResponse(c, holder.Snapshot())
}

func (s *Server) getSession(c *gin.Context) {
	holder, ok := s.lookup(c)
	if !ok {
		return
	}
	response.SuccessResponse(c, holder.Snapshot())
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.hub.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.lookupError(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Session closed"})
}

// selectCell is the human "select cell" action. A refused move is not an
// error: the client gets 409 and the unchanged session.
func (s *Server) selectCell(c *gin.Context) {
	holder, ok := s.lookup(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || !game.ValidIndex(index) {
		response.ErrorResponse(c, http.StatusBadRequest, "cell index must be between 0 and 8")
		return
	}
	trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.Int("cell.index", index))

	if !holder.SelectCell(c.Request.Context(), index) {
		response.RejectedResponse(c, holder.Snapshot())
		return
	}
	response.SuccessResponse(c, holder.Snapshot())
}

func (s *Server) setMode(c *gin.Context) {
	holder, ok := s.lookup(c)
	if !ok {
		return
	}

	var req proto.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	holder.SetMode(c.Request.Context(), mode)
	response.SuccessResponse(c, holder.Snapshot())
}

func (s *Server) resetSession(c *gin.Context) {
	holder, ok := s.lookup(c)
	if !ok {
		return
	}
	holder.Reset(c.Request.Context())
	response.SuccessResponse(c, holder.Snapshot())
}

func (s *Server) lookup(c *gin.Context) (*session.Holder, bool) {
	holder, err := s.hub.Get(c.Param("id"))
	if err != nil {
		s.lookupError(c, err)
		return nil, false
	}
	return holder, true
}

func (s *Server) lookupError(c *gin.Context, err error) {
	if errors.Is(err, hub.ErrSessionNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
}
