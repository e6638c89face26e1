package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/domain"
)

// registerRoomRoutes exposes read-only room state. Late clients use it to
// fetch final results during the grace window.
func registerRoomRoutes(api *gin.RouterGroup, store core.RoomStore) {
	// GET /api/rooms — list rooms
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": store.List()})
	})

	// GET /api/rooms/:id — room snapshot
	api.GET("/rooms/:id", func(c *gin.Context) {
		id := domain.NormalizeRoomID(c.Param("id"))
		room, ok := store.GetRoom(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": domain.NewRoomError(domain.ErrRoomNotFound, id).Error()})
			return
		}
		c.JSON(http.StatusOK, room)
	})
}
