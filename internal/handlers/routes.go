package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/liveview"
	"github.com/yukikurage/teamdesk-api/internal/middleware"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the services the HTTP surface is built on.
type Dependencies struct {
	DB       *gorm.DB
	Profiles *services.ProfileService
	Tasks    *services.TaskService
	Teams    *services.TeamService
	Inbox    *services.InboxService
	Rooms    *services.RoomService
	Calendar *services.CalendarService
	Uploads  *services.UploadService
	Registry *liveview.Registry
	Feed     realtime.Feed
	Logger   *zap.Logger
}

// RegisterRoutes mounts every API route on r.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB)
	authHandler := NewAuthHandler(deps.Profiles)
	taskHandler := NewTaskHandler(deps.Tasks)
	teamHandler := NewTeamHandler(deps.Teams)
	memberHandler := NewMemberHandler(deps.Profiles)
	inboxHandler := NewInboxHandler(deps.Inbox)
	roomHandler := NewRoomHandler(deps.Rooms)
	calendarHandler := NewCalendarHandler(deps.Calendar)
	uploadHandler := NewUploadHandler(deps.Uploads)
	liveHandler := NewLiveHandler(deps.Registry, deps.Tasks, deps.Inbox, deps.Feed, deps.Logger)

	requireAuth := middleware.RequireAuth(deps.Profiles)
	requireManager := middleware.RequireManager()
	requireTask := middleware.RequireTaskAccess(deps.Tasks)
	requireEvent := middleware.RequireEventAccess(deps.Calendar)

	r.GET("/health", healthHandler.Health)
	r.POST("/health/report", healthHandler.Report)

	// Share links work without an account
	r.GET("/public/rooms/:id", roomHandler.PublicRoom)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", requireTask, taskHandler.GetTask)
			tasks.PATCH("/:id", requireTask, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireTask, taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", requireTask, taskHandler.UpdateStatus)
			tasks.PATCH("/:id/priority", requireTask, taskHandler.UpdatePriority)
			tasks.POST("/:id/messages", requireTask, taskHandler.AddMessage)
		}

		inbox := api.Group("/inbox")
		inbox.Use(requireAuth)
		{
			inbox.GET("", inboxHandler.List)
			inbox.GET("/unread-count", inboxHandler.UnreadCount)
			inbox.POST("/read-all", inboxHandler.MarkAllRead)
			inbox.POST("/:id/read", inboxHandler.MarkRead)
		}

		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.POST("", requireManager, teamHandler.CreateTeam)
			teams.PATCH("/:id", requireManager, teamHandler.UpdateTeam)
			teams.DELETE("/:id", requireManager, teamHandler.DeleteTeam)
		}

		members := api.Group("/members")
		members.Use(requireAuth)
		{
			members.GET("", memberHandler.ListMembers)
			members.POST("", requireManager, memberHandler.CreateMember)
			members.PATCH("/:id", requireManager, memberHandler.UpdateMember)
			members.DELETE("/:id", requireManager, memberHandler.DeleteMember)
		}

		rooms := api.Group("/rooms")
		rooms.Use(requireAuth)
		{
			rooms.GET("", roomHandler.ListRooms)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.POST("", roomHandler.CreateRoom)
			rooms.PATCH("/:id", roomHandler.UpdateRoom)
			rooms.DELETE("/:id", roomHandler.DeleteRoom)
		}

		calendar := api.Group("/calendar")
		calendar.Use(requireAuth)
		{
			calendar.GET("", calendarHandler.ListEvents)
			calendar.POST("", calendarHandler.CreateEvent)
			calendar.PATCH("/:id", requireEvent, calendarHandler.UpdateEvent)
			calendar.DELETE("/:id", requireEvent, calendarHandler.DeleteEvent)
		}

		api.POST("/uploads", requireAuth, uploadHandler.Upload)

		live := api.Group("/live")
		live.Use(requireAuth)
		{
			live.GET("/board", liveHandler.Board)
			live.GET("/inbox", liveHandler.Inbox)
			live.GET("/:viewID", liveHandler.Snapshot)
			live.DELETE("/:viewID", liveHandler.Close)
			live.POST("/:viewID/tasks", liveHandler.CreateTask)
			live.PATCH("/:viewID/tasks/:id", liveHandler.EditTask)
			live.DELETE("/:viewID/tasks/:id", liveHandler.DeleteTask)
			live.PATCH("/:viewID/tasks/:id/status", liveHandler.MoveStatus)
			live.PATCH("/:viewID/tasks/:id/priority", liveHandler.SetPriority)
			live.POST("/:viewID/notifications/read-all", liveHandler.MarkAllRead)
			live.POST("/:viewID/notifications/:id/read", liveHandler.MarkRead)
		}
	}
}
