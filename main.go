package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/config"
	"github.com/vivemedellin/vivemedellin/routes"
	"github.com/vivemedellin/vivemedellin/services"
	"github.com/vivemedellin/vivemedellin/store"
	"github.com/vivemedellin/vivemedellin/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	backend, closeBackend, err := store.OpenBackend(cfg)
	if err != nil {
		utils.Sugar.Fatalf("open %s storage: %v", cfg.StorageDriver, err)
	}
	defer closeBackend()

	users := services.NewUserService(store.NewUsers(backend, cfg.UsersKey, utils.Logger), utils.Logger)
	notifications := services.NewNotificationService(store.NewNotifications(backend, cfg.NotificationsKey, utils.Logger), utils.Logger)
	groups := services.NewService(
		store.NewGroups(backend, cfg.GroupsKey, utils.Logger),
		services.WithNotifier(notifications),
		services.WithUserDirectory(users),
		services.WithLogger(utils.Logger),
		services.WithLatency(time.Duration(cfg.LatencyMS)*time.Millisecond),
	)

	r := routes.SetupRouter(cfg, routes.Services{
		Groups:        groups,
		Users:         users,
		Notifications: notifications,
	})

	utils.Logger.Info("starting server",
		zap.String("port", cfg.AppPort),
		zap.String("storage", cfg.StorageDriver),
	)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
