package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wellness/internal/chat"
	"wellness/internal/workspace"
)

type chatMessageRequest struct {
	Text string    `json:"text"`
	File string    `json:"file"`
	Kind chat.Kind `json:"kind"`
}

// chatHistory returns the session's history, reading it from the store on
// first use.
func (s *Server) chatHistory(c *gin.Context) (*workspace.Workspace, error) {
	ws := s.currentWorkspace(c)
	owner := currentSession(c).Username
	err := ws.LoadChat(c.Request.Context(), func(ctx context.Context) ([]chat.Message, error) {
		return s.store.ListMessages(ctx, owner)
	})
	return ws, err
}

func parseContact(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, fmt.Errorf("contact %q: %w", c.Param("id"), chat.ErrUnknownContact)
	}
	return id, nil
}

// handleChatContacts lists contacts, most recent conversation first.
func (s *Server) handleChatContacts(c *gin.Context) {
	ws, err := s.chatHistory(c)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"contacts": ws.Chat().Contacts()})
}

// handleChatMessages returns the rendered thread with one contact.
func (s *Server) handleChatMessages(c *gin.Context) {
	contactID, err := parseContact(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	ws, err := s.chatHistory(c)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	thread, err := ws.Chat().Messages(contactID)
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]chat.Rendered, len(thread))
	for i, m := range thread {
		out[i] = chat.Render(m)
	}
	respondSuccess(c, http.StatusOK, gin.H{"messages": out})
}

// handleSendChatMessage records an outgoing text or file, or a message the
// client received from the contact.
func (s *Server) handleSendChatMessage(c *gin.Context) {
	contactID, err := parseContact(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	ws, err := s.chatHistory(c)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	now := s.now()
	var msg chat.Message
	switch {
	case req.Kind == chat.KindIncoming:
		msg, err = chat.NewIncoming(contactID, req.Text, now)
	case req.File != "" || req.Kind == chat.KindFile:
		msg, err = chat.NewFile(contactID, req.File, now)
	default:
		msg, err = chat.NewText(contactID, req.Text, now)
	}
	if err != nil {
		s.respondError(c, statusOrBadRequest(err), err)
		return
	}

	if err := s.store.SaveMessage(c.Request.Context(), currentSession(c).Username, msg); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := ws.Chat().Add(msg); err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"message": chat.Render(msg)})
}
