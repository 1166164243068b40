package roster

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type membershipRequest struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// CreateRoom handles POST /create-room.
func CreateRoom(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.CreateRoom()
		if err != nil {
			log.Error().Err(err).Str("module", "roster").Msg("create room")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomId": id})
	}
}

// JoinRoom handles POST /join-room: 400 on missing fields, 404 if the
// store has no record of the room, 200 on success, 500 on store failure.
func JoinRoom(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membershipRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing roomId or userId"})
			return
		}
		ok, err := s.RoomExists(req.RoomID)
		if err != nil {
			log.Error().Err(err).Str("module", "roster").Msg("room lookup")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		if err := s.UpsertMember(req.RoomID, req.UserID); err != nil {
			log.Error().Err(err).Str("module", "roster").Msg("upsert member")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomId": req.RoomID, "userId": req.UserID})
	}
}

// LeaveRoom handles POST /leave-room with the same status contract.
func LeaveRoom(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membershipRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing roomId or userId"})
			return
		}
		ok, err := s.RoomExists(req.RoomID)
		if err != nil {
			log.Error().Err(err).Str("module", "roster").Msg("room lookup")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		if err := s.RemoveMember(req.RoomID, req.UserID); err != nil {
			log.Error().Err(err).Str("module", "roster").Msg("remove member")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomId": req.RoomID, "userId": req.UserID})
	}
}

// Members handles GET /rooms/:id/members.
func Members(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		rows, err := s.Members(roomID)
		if errors.Is(err, ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		if err != nil {
			log.Error().Err(err).Str("module", "roster").Msg("list members")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if rows == nil {
			rows = []MemberRow{}
		}
		c.JSON(http.StatusOK, gin.H{"roomId": roomID, "members": rows})
	}
}
