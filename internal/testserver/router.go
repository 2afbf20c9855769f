// Package testserver is an in-process double of the chat API, used to run
// the case sequence in tests without the real server.
package testserver

import (
	"net/http/httptest"

	"chat-tester/internal/storage"

	"github.com/gin-gonic/gin"
)

func SetupRouter(r *gin.Engine, store *storage.Store, secret string) {
	hdl := &Handler{Store: store, Secret: secret}

	r.GET("/groups", hdl.ListGroups)
	r.POST("/groups/create", hdl.CreateGroup)

	group := r.Group("/groups/:group_id")
	{
		group.GET("/messages", hdl.RequireMember, hdl.ListMessages)
		group.POST("/messages", hdl.RequireMember, hdl.PostMessage)
		group.POST("/join", hdl.RequireNonMember, hdl.JoinGroup)
		group.DELETE("/leave", hdl.RequireMember, hdl.LeaveGroup)
	}
}

// NewEngine builds a gin engine serving the chat API.
func NewEngine(store *storage.Store, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	SetupRouter(r, store, secret)
	return r
}

// Start serves the chat API on a loopback listener.
func Start(store *storage.Store, secret string) *httptest.Server {
	return httptest.NewServer(NewEngine(store, secret))
}
