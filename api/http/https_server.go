package http

import (
	"time"

	"SupportDesk/internal/config"
	jwtMiddleware "SupportDesk/internal/middleware/jwt"
	"SupportDesk/internal/middleware/requesthost"
	chatService "SupportDesk/internal/modules/chat/application/service"
	chatRepository "SupportDesk/internal/modules/chat/domain/repository"
	chatPersistence "SupportDesk/internal/modules/chat/infrastructure/persistence"
	chatHandler "SupportDesk/internal/modules/chat/interface/http"
	kbService "SupportDesk/internal/modules/kb/application/service"
	kbPersistence "SupportDesk/internal/modules/kb/infrastructure/persistence"
	kbHandler "SupportDesk/internal/modules/kb/interface/http"
	notificationService "SupportDesk/internal/modules/notification/application/service"
	notificationEntity "SupportDesk/internal/modules/notification/domain/entity"
	"SupportDesk/internal/modules/notification/infrastructure/cache"
	"SupportDesk/internal/modules/notification/infrastructure/mq"
	notificationPersistence "SupportDesk/internal/modules/notification/infrastructure/persistence"
	"SupportDesk/internal/modules/notification/infrastructure/webhook"
	notificationHandler "SupportDesk/internal/modules/notification/interface/http"
	ticketService "SupportDesk/internal/modules/ticket/application/service"
	ticketEntity "SupportDesk/internal/modules/ticket/domain/entity"
	ticketPersistence "SupportDesk/internal/modules/ticket/infrastructure/persistence"
	ticketHandler "SupportDesk/internal/modules/ticket/interface/http"
	userService "SupportDesk/internal/modules/user/application/service"
	userEntity "SupportDesk/internal/modules/user/domain/entity"
	userPersistence "SupportDesk/internal/modules/user/infrastructure/persistence"
	userHandler "SupportDesk/internal/modules/user/interface/http"
	"SupportDesk/pkg/hook"
	"SupportDesk/pkg/metrics"
	"SupportDesk/pkg/ssl"
	"SupportDesk/pkg/validate"
	"SupportDesk/pkg/ws"
	"SupportDesk/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server 组装好的 HTTP 服务及需要在退出时释放的资源
type Server struct {
	Engine *gin.Engine
	Hub    *ws.Hub
	Bus    *hook.Bus
	stream *mq.NotificationStream
}

// Close 关闭 Kafka 生产者
func (s *Server) Close() error {
	return s.stream.Close()
}

// NewServer 创建全部仓储、服务和路由。事件总线与默认处理器在这里只注册一次
func NewServer(conf *config.Config, db *gorm.DB, stream *mq.NotificationStream) *Server {
	registerValidators()

	GE := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	if conf.EnableTLSRedirect {
		GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}
	GE.Use(requesthost.Middleware())

	bus := hook.NewBus()
	wsHub := ws.NewHub()

	userRepo := userPersistence.NewUserRepository(db)
	ticketRepo := ticketPersistence.NewTicketRepository(db)
	commentRepo := ticketPersistence.NewCommentRepository(db)
	attachmentRepo := ticketPersistence.NewAttachmentRepository(db)
	testingRepo := ticketPersistence.NewTestingRepository(db)
	ticketUow := ticketPersistence.NewTicketUnitOfWork(db)
	articleRepo := kbPersistence.NewArticleRepository(db)
	notificationRepo := notificationPersistence.NewNotificationRepository(db)
	conversationRepo := chatPersistence.NewConversationRepository(db)
	messageRepo := chatPersistence.NewMessageRepository(db)
	receiptRepo := chatPersistence.NewReadReceiptRepository(db, chatRepository.StrategyOnConflict)

	// 通知投递
	listCache := cache.NewRedisListCache(time.Duration(conf.NotificationCacheSeconds) * time.Second)
	internalRoutes := webhook.NewInternalRoutes()
	dispatcher := webhook.NewDispatcher(webhook.NewUserTargetResolver(userRepo), wsHub, internalRoutes, webhook.Options{
		Timeout:    time.Duration(conf.WebhookConfig.TimeoutSeconds) * time.Second,
		UserAgent:  conf.WebhookConfig.UserAgent,
		ServerName: conf.ServerName,
	})
	notifier := notificationService.NewNotifier(notificationRepo, listCache, stream, dispatcher)
	fanout := notificationService.NewFanoutService(userRepo, notifier, conversationRepo, wsHub)
	if fanout.RegisterDefaults(bus) {
		zlog.Info("default notification handlers registered", zap.Int("events", len(hook.LifecycleEvents())))
	}
	inboxSvc := notificationService.NewInboxService(notificationRepo, listCache, webhook.NewUserTargetResolver(userRepo), dispatcher)
	internalRoutes.Handle(conf.ReceiverPath, notificationService.WebhookReceiver(inboxSvc))

	userSvc := userService.NewUserService(userRepo, bus)
	ticketSvc := ticketService.NewTicketService(ticketRepo, bus)
	commentSvc := ticketService.NewCommentService(ticketRepo, commentRepo, bus)
	attachmentSvc := ticketService.NewAttachmentService(ticketRepo, attachmentRepo, bus)
	testingSvc := ticketService.NewTestingService(ticketRepo, testingRepo, ticketUow, notifier)
	articleSvc := kbService.NewArticleService(articleRepo, bus)
	conversationSvc := chatService.NewConversationService(conversationRepo, bus)
	messageSvc := chatService.NewMessageService(conversationRepo, messageRepo, receiptRepo, bus)
	receiptSvc := chatService.NewReadReceiptService(conversationRepo, messageRepo, receiptRepo)

	userH := userHandler.NewUserHandler(userSvc)
	ticketH := ticketHandler.NewTicketHandler(ticketSvc)
	commentH := ticketHandler.NewCommentHandler(commentSvc)
	attachmentH := ticketHandler.NewAttachmentHandler(attachmentSvc)
	testingH := ticketHandler.NewTestingHandler(testingSvc)
	articleH := kbHandler.NewArticleHandler(articleSvc)
	notificationH := notificationHandler.NewNotificationHandler(inboxSvc)
	conversationH := chatHandler.NewConversationHandler(conversationSvc)
	messageH := chatHandler.NewMessageHandler(messageSvc, receiptSvc)
	wsH := chatHandler.NewWsHandler(wsHub, userRepo, conf.RealtimeConfig)

	GE.GET("/metrics", metrics.Handler())
	GE.GET("/wss", wsH.Connect)
	GE.POST("/api/auth/register", userH.Register)
	GE.POST("/api/auth/login", userH.Login)
	GE.POST(conf.ReceiverPath, notificationH.ReceiveWebhook)

	authed := GE.Group("/api")
	authed.Use(jwtMiddleware.Auth())

	authed.GET("/users/me", userH.Me)
	authed.PUT("/users/me/webhook", userH.SetWebhook)
	admin := authed.Group("/users")
	admin.Use(jwtMiddleware.RequireAdmin())
	admin.POST("", userH.Create)
	admin.PUT("/:id", userH.Update)
	admin.DELETE("/:id", userH.Delete)

	authed.POST("/tickets", ticketH.Create)
	authed.GET("/tickets", ticketH.List)
	authed.GET("/tickets/:id", ticketH.Get)
	authed.PUT("/tickets/:id", ticketH.Update)
	authed.DELETE("/tickets/:id", ticketH.Delete)
	authed.POST("/tickets/:id/comments", commentH.Create)
	authed.GET("/tickets/:id/comments", commentH.List)
	authed.PUT("/comments/:id", commentH.Update)
	authed.DELETE("/comments/:id", commentH.Delete)
	authed.POST("/tickets/:id/attachments", attachmentH.Create)
	authed.GET("/tickets/:id/attachments", attachmentH.List)
	authed.PUT("/attachments/:id", attachmentH.Update)
	authed.DELETE("/attachments/:id", attachmentH.Delete)

	authed.POST("/testing", testingH.Create)
	authed.GET("/testing", testingH.List)
	authed.GET("/testing/:id", testingH.Get)
	authed.PUT("/testing/:id", testingH.Update)
	authed.DELETE("/testing/:id", testingH.Delete)

	authed.GET("/kb/articles", articleH.List)
	authed.GET("/kb/articles/:id", articleH.Get)
	staff := authed.Group("/kb/articles")
	staff.Use(jwtMiddleware.RequireStaff())
	staff.POST("", articleH.Create)
	staff.PUT("/:id", articleH.Update)
	staff.DELETE("/:id", articleH.Delete)

	authed.GET("/notifications", notificationH.List)
	authed.POST("/notifications/read-all", notificationH.MarkAllRead)
	authed.POST("/notifications/:id/read", notificationH.MarkRead)
	authed.DELETE("/notifications/:id", notificationH.Delete)
	authed.POST("/notifications/webhooks/test", notificationH.TestWebhook)

	authed.POST("/conversations", conversationH.Create)
	authed.GET("/conversations", conversationH.List)
	authed.GET("/conversations/:id", conversationH.Get)
	authed.DELETE("/conversations/:id", conversationH.Delete)
	authed.GET("/conversations/:id/messages", messageH.List)
	authed.POST("/conversations/:id/messages", messageH.Send)
	authed.POST("/conversations/:id/read", messageH.MarkAllRead)
	authed.POST("/conversations/:id/read-up-to", messageH.MarkUpTo)
	authed.POST("/messages/:message_id/read", messageH.MarkRead)

	return &Server{Engine: GE, Hub: wsHub, Bus: bus, stream: stream}
}

// registerValidators 注册 binding 自定义 tag，重复注册会覆盖
func registerValidators() {
	v, ok := validate.Engine()
	if !ok {
		zlog.Warn("gin validator engine unavailable, custom tags not registered")
		return
	}
	errs := []error{
		validate.RegisterOneOf(v, "user_role", userEntity.RoleAdmin, userEntity.RoleAgent, userEntity.RoleCustomer),
		validate.RegisterOneOf(v, "notification_type", notificationEntity.Types()...),
		validate.RegisterOneOf(v, "testing_status", ticketEntity.TestingStatuses()...),
		validate.RegisterWebhookTarget(v),
	}
	for _, err := range errs {
		if err != nil {
			zlog.Error("register validator failed", zap.Error(err))
		}
	}
}
