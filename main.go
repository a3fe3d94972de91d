package main

import (
	"log/slog"
	"os"

	"mentora-backend/config"
	"mentora-backend/controller"
	"mentora-backend/dao"
	"mentora-backend/router"
	"mentora-backend/service/llm"
	"mentora-backend/service/mentor"
)

const summaryCacheSize = 256

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	if err := dao.Init(); err != nil {
		slog.Error("Failed to init database", "err", err)
		os.Exit(1)
	}

	chatClient, err := llm.New(config.Cfg.Model.Name)
	if err != nil {
		slog.Error("Failed to create chat model client", "err", err)
		os.Exit(1)
	}

	summaryClient, err := llm.New(config.Cfg.Model.SummaryName)
	if err != nil {
		slog.Error("Failed to create summary model client", "err", err)
		os.Exit(1)
	}

	summaryCache, err := mentor.NewLRUSummaryCache(summaryCacheSize)
	if err != nil {
		slog.Error("Failed to create summary cache", "err", err)
		os.Exit(1)
	}

	controller.Init(mentor.NewEngine(chatClient, summaryClient, summaryCache))

	r := router.Register()
	if err := r.Run(":" + config.Cfg.Server.Port); err != nil {
		slog.Error("Server exited", "err", err)
		os.Exit(1)
	}
}
