package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/api/handler"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/api/middleware"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/jwt"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/redis"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/response"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/storage"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Setup builds the gin engine. rdb may be nil when redis is unavailable.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	var (
		blacklist middleware.Blacklist
		limiter   middleware.Limiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Handler())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, 10006, "route not found")
	})

	// ── health / metrics ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	adminOnly := middleware.RoleAuth("admin")
	studentOnly := middleware.RoleAuth("student")

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth (public)
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(limiter, authRateLimit, authRateWindow))
		{
			auth.POST("/send-otp", h.Auth.SendOtp)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/forgot-password", h.Auth.ForgotPassword)
			auth.POST("/reset-password", h.Auth.ResetPassword)
		}

		// signed local downloads carry their own authorization
		if h.LocalFile != nil {
			v1.GET(storage.LocalDownloadPath[len("/api/v1"):]+"*key", h.LocalFile.Serve)
		}

		// public media is readable without a token
		publicMedia := v1.Group("/media")
		publicMedia.Use(middleware.OptionalJWTAuth(jwtMgr, blacklist, logger))
		{
			publicMedia.GET("/:id", h.Media.Get)
			publicMedia.GET("/:id/download-url", h.Media.DownloadURL)
			publicMedia.GET("/:id/download", h.Media.Download)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			profile := authorized.Group("/profile")
			{
				profile.GET("", h.Profile.Get)
				profile.PUT("", h.Profile.Update)
				profile.PUT("/avatar", h.Profile.UpdateAvatar)
				profile.PUT("/password", h.Profile.ChangePassword)
			}

			users := authorized.Group("/user", adminOnly)
			{
				users.GET("", h.User.List)
				users.GET("/:id", h.User.Get)
				users.PATCH("/:id/active", h.User.SetActive)
				users.PATCH("/:id/role", h.User.SetRole)
			}

			classrooms := authorized.Group("/classroom")
			{
				classrooms.GET("", h.Classroom.List)
				classrooms.GET("/deleted", adminOnly, h.Classroom.ListDeleted)
				classrooms.GET("/:id", h.Classroom.Get)
				classrooms.POST("", adminOnly, h.Classroom.Create)
				classrooms.PUT("/:id", adminOnly, h.Classroom.Update)
				classrooms.DELETE("/:id", adminOnly, h.Classroom.Delete)
				classrooms.PATCH("/:id/restore", adminOnly, h.Classroom.Restore)
				classrooms.PATCH("/:id/archive", adminOnly, h.Classroom.Archive)
				classrooms.PATCH("/:id/unarchive", adminOnly, h.Classroom.Unarchive)
				classrooms.GET("/:id/export", adminOnly, h.Export.ExportRoster)
			}

			members := authorized.Group("/classroom-student")
			{
				members.GET("/my", studentOnly, h.ClassroomStudent.MyClassrooms)
				members.GET("/:classroomId/students", adminOnly, h.ClassroomStudent.ListStudents)
				members.DELETE("/:classroomId/leave", studentOnly, h.ClassroomStudent.Leave)
				members.DELETE("/:classroomId/students/:studentId", adminOnly, h.ClassroomStudent.Remove)
				members.PATCH("/:classroomId/students/:studentId/block", adminOnly, h.ClassroomStudent.Block)
				members.PATCH("/:classroomId/students/:studentId/unblock", adminOnly, h.ClassroomStudent.Unblock)
			}

			joinRequests := authorized.Group("/join-request")
			{
				joinRequests.POST("", studentOnly, h.JoinRequest.Create)
				joinRequests.GET("/my", studentOnly, h.JoinRequest.ListMine)
				joinRequests.GET("", adminOnly, h.JoinRequest.List)
				joinRequests.PATCH("/:id/approve", adminOnly, h.JoinRequest.Approve)
				joinRequests.PATCH("/:id/reject", adminOnly, h.JoinRequest.Reject)
			}

			lectures := authorized.Group("/lecture")
			{
				lectures.GET("/classroom/:classroomId/tree", h.Lecture.Tree)
				lectures.GET("/:id", h.Lecture.Get)
				lectures.POST("", adminOnly, h.Lecture.Create)
				lectures.PUT("/:id", adminOnly, h.Lecture.Update)
				lectures.DELETE("/:id", adminOnly, h.Lecture.Delete)
			}

			media := authorized.Group("/media")
			{
				media.POST("/upload", h.Media.Upload)
				media.GET("", h.Media.List)
				media.PATCH("/:id/visibility", h.Media.UpdateVisibility)
				media.PATCH("/:id/rename", h.Media.Rename)
				media.PATCH("/:id/restore", h.Media.Restore)
				media.DELETE("/:id", h.Media.SoftDelete)
				media.DELETE("/:id/hard", h.Media.HardDelete)
			}
		}
	}

	return r, nil
}
