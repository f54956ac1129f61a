package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/config"
	"github.com/talentbridge/backend/internal/gateway"
	"github.com/talentbridge/backend/internal/handlers"
	"github.com/talentbridge/backend/internal/mailer"
	"github.com/talentbridge/backend/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	razorpayCfg, err := config.LoadRazorpayConfig()
	if err != nil {
		return fmt.Errorf("failed to load razorpay config: %v", err)
	}
	gatewayClient, err := config.InitRazorpayClient(razorpayCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize razorpay client: %v", err)
	}

	smtpCfg, err := config.LoadSMTPConfig()
	if err != nil {
		return fmt.Errorf("failed to load smtp config: %v", err)
	}
	m := mailer.New(smtpCfg)

	r := gin.Default()

	setupRoutes(r, db, gatewayClient, m)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, gatewayClient gateway.Client, m mailer.Mailer) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.GatewayMiddleware(gatewayClient))
	r.Use(middleware.MailerMiddleware(m))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		coursePublic := public.Group("/courses")
		coursePublic.Use(middleware.OptionalJWTAuthMiddleware())
		{
			coursePublic.GET("", handlers.ListCourses)
			coursePublic.GET("/:id", handlers.GetCourse)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.POST("/skills/scores", handlers.RecordSkillScore)

		courseProtected := protected.Group("/courses")
		{
			courseProtected.GET("/my", handlers.MyCourses)
			courseProtected.GET("/:id/progress", handlers.GetProgress)
			courseProtected.POST("/:id/progress", handlers.UpdateProgress)
			courseProtected.GET("/:id/questions", handlers.ListCourseQuestions)
			courseProtected.POST("/:id/test", handlers.SubmitCourseTest)
		}

		payments := protected.Group("/payments")
		{
			payments.POST("/manual", handlers.SubmitManualPayment)
			payments.GET("/status", handlers.PaymentStatus)
			payments.POST("/order", handlers.CreateOrder)
			payments.POST("/verify", handlers.VerifyPayment)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			adminCourses := admin.Group("/courses")
			{
				adminCourses.POST("", handlers.CreateCourse)
				adminCourses.PUT("/:id", handlers.UpdateCourse)
				adminCourses.DELETE("/:id", handlers.DeleteCourse)

				adminCourses.POST("/:id/lectures", handlers.AddLecture)
				adminCourses.PUT("/:id/lectures/:lectureId", handlers.UpdateLecture)
				adminCourses.DELETE("/:id/lectures/:lectureId", handlers.DeleteLecture)

				adminCourses.POST("/:id/questions", handlers.AddQuestion)
				adminCourses.PUT("/:id/questions/:questionId", handlers.UpdateQuestion)
				adminCourses.DELETE("/:id/questions/:questionId", handlers.DeleteQuestion)
			}

			adminTransactions := admin.Group("/transactions")
			{
				adminTransactions.GET("", handlers.ListTransactions)
				adminTransactions.POST("/:id/approve", handlers.ApproveTransaction)
				adminTransactions.POST("/:id/decline", handlers.DeclineTransaction)
			}
		}
	}
}
