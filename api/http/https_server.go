package http

import (
	"CaseForge/internal/config"
	"CaseForge/internal/initial"
	docService "CaseForge/internal/modules/document/application/service"
	docPersistence "CaseForge/internal/modules/document/infrastructure/persistence"
	docHandler "CaseForge/internal/modules/document/interface/http"
	genService "CaseForge/internal/modules/generation/application/service"
	"CaseForge/internal/modules/generation/infrastructure/llm"
	genPersistence "CaseForge/internal/modules/generation/infrastructure/persistence"
	"CaseForge/internal/modules/generation/infrastructure/secret"
	genHandler "CaseForge/internal/modules/generation/interface/http"
	projectService "CaseForge/internal/modules/project/application/service"
	projectPersistence "CaseForge/internal/modules/project/infrastructure/persistence"
	projectHandler "CaseForge/internal/modules/project/interface/http"
	"CaseForge/pkg/ssl"
	"CaseForge/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var GE *gin.Engine

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	cipher, err := secret.NewCipher(conf.SecretConfig.EncryptionKey)
	if err != nil {
		zlog.Fatal("初始化加密组件失败: " + err.Error())
	}

	projRepo := projectPersistence.NewProjectRepository(initial.GormDB)
	fileRepo := docPersistence.NewFileRepository(initial.GormDB)
	kbRepo := docPersistence.NewKnowledgeDocumentRepository(initial.GormDB)
	confRepo := genPersistence.NewConfigurationRepository(initial.GormDB)

	coordinator := docService.NewIngestCoordinator()
	tester := llm.NewConnectionTester()

	projSvc := projectService.NewProjectService(projRepo)
	fileSvc := docService.NewFileService(fileRepo, projRepo)
	kbSvc := docService.NewKnowledgeBaseService(coordinator, kbRepo, projRepo)
	confSvc := genService.NewConfigurationService(confRepo, projRepo, cipher, tester)

	projH := projectHandler.NewProjectHandler(projSvc)
	fileH := docHandler.NewFileHandler(fileSvc)
	kbH := docHandler.NewKnowledgeBaseHandler(kbSvc)
	confH := genHandler.NewConfigurationHandler(confSvc)

	GE.GET("/health", func(c *gin.Context) {
		status := "ok"
		db := "up"
		if sqlDB, dbErr := initial.GormDB.DB(); dbErr != nil || sqlDB.Ping() != nil {
			status = "degraded"
			db = "down"
		}
		c.JSON(200, gin.H{
			"status":   status,
			"database": db,
			"version":  conf.Version,
		})
	})

	api := GE.Group("/api")

	api.POST("/projects", projH.Create)
	api.GET("/projects", projH.List)
	api.GET("/projects/:projectUuid", projH.Get)
	api.PATCH("/projects/:projectUuid", projH.Update)
	api.DELETE("/projects/:projectUuid", projH.Delete)

	api.POST("/files/upload", fileH.Upload)
	api.GET("/projects/:projectUuid/files", fileH.ListByProject)
	api.GET("/files/:fileUuid", fileH.Get)
	api.DELETE("/files/:fileUuid", fileH.Delete)

	api.POST("/knowledge-base/upload", kbH.Upload)
	api.GET("/knowledge-base/documents", kbH.List)
	api.GET("/knowledge-base/documents/:docUuid", kbH.Get)
	api.PATCH("/knowledge-base/documents/:docUuid", kbH.Update)
	api.DELETE("/knowledge-base/documents/:docUuid", kbH.Delete)

	api.POST("/configurations", confH.Create)
	api.GET("/configurations", confH.List)
	api.GET("/configurations/:configUuid", confH.Get)
	api.GET("/projects/:projectUuid/configuration", confH.GetByProject)
	api.PATCH("/configurations/:configUuid", confH.Update)
	api.DELETE("/configurations/:configUuid", confH.Delete)
	api.POST("/configurations/test-connection", confH.TestConnection)
}
