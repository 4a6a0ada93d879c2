package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/go-task-manager/internal/config"
	v1 "github.com/dkovalev/go-task-manager/internal/delivery/http/v1"
	"github.com/dkovalev/go-task-manager/internal/repositories/tasks"
	"github.com/dkovalev/go-task-manager/internal/repositories/users"
	"github.com/dkovalev/go-task-manager/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	usersRepo := users.NewPostgresRepository(globalLogger, globalPostgresPool)
	tasksRepo := tasks.NewPostgresRepository(globalLogger, globalPostgresPool)

	tokenService := services.NewTokenService(
		jwtCfg.Issuer,
		jwtCfg.SigningKey,
		jwtCfg.TokenTTL,
	)
	hasher := services.NewPasswordHasher(nil)
	authService := services.NewAuthService(globalLogger, usersRepo, hasher, tokenService)
	taskService := services.NewTaskService(globalLogger, tasksRepo)

	v1Handler := v1.New(
		globalLogger,
		authService,
		taskService,
		tokenService,
		usersRepo,
	)
	router = router.Group("/api")

	authRouter := router.Group("/auth")
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/authenticate", v1Handler.HandleAuthenticate)

	taskRouter := router.Group("/tasks", v1Handler.HandleAuthMiddleware)
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.GET("", v1Handler.HandleGetTasks)
	taskRouter.GET("/:id", v1Handler.HandleGetTask)
	taskRouter.PUT("/:id", v1Handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", v1Handler.HandleDeleteTask)
}
