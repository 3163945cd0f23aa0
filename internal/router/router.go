package router

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/garden-network-api/internal/handler"
	"github.com/noah-isme/garden-network-api/internal/middleware"
	"github.com/noah-isme/garden-network-api/internal/models"
	"github.com/noah-isme/garden-network-api/internal/service"
)

// Handlers bundles the endpoint handlers registered under the API prefix.
type Handlers struct {
	Profile     *handler.ProfileHandler
	Discovery   *handler.DiscoveryHandler
	Connection  *handler.ConnectionHandler
	Challenge   *handler.ChallengeHandler
	Leaderboard *handler.LeaderboardHandler
}

// Register mounts the network routes on the given group. Every route is
// JWT-guarded; challenge close additionally requires the platform operator
// role.
func Register(api *gin.RouterGroup, auth *service.AuthService, h Handlers) {
	network := api.Group("/network")
	network.Use(middleware.JWT(auth))

	network.GET("/profile", h.Profile.Get)
	network.PUT("/profile", h.Profile.Upsert)
	network.DELETE("/profile", h.Profile.Disable)

	network.GET("/discover", h.Discovery.Discover)

	network.POST("/connections", h.Connection.Send)
	network.GET("/connections", h.Connection.List)
	network.GET("/connections/pending", h.Connection.ListPending)
	network.POST("/connections/:id/respond", h.Connection.Respond)
	network.POST("/connections/:id/block", h.Connection.Block)
	network.DELETE("/connections/:id", h.Connection.Remove)

	network.GET("/challenges", h.Challenge.ListActive)
	network.POST("/challenges/:id/join", h.Challenge.Join)
	network.DELETE("/challenges/:id/join", h.Challenge.Leave)
	network.GET("/challenges/:id/participation", h.Challenge.Participation)
	network.POST("/challenges/:id/close", middleware.RequireRole(models.RolePlatformAdmin), h.Challenge.Close)

	network.GET("/leaderboard", h.Leaderboard.Rank)
}
