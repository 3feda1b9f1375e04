package main

import (
	"github.com/NautilusNFTs/nautilus-interface/internal/config"
	"github.com/NautilusNFTs/nautilus-interface/internal/config/di"
	"github.com/NautilusNFTs/nautilus-interface/internal/server"
	"go.uber.org/zap"
	"net/http"
)

func main() {
	config.Init("valuationd")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}
	defer container.Delete()

	router := server.NewRouter(container.GetIndexer(), container.GetValuator(), config.Get().Marketplace.AppId)

	zap.L().With(zap.String("port", config.Get().ServerPort)).Info("Valuation server started")
	if err := http.ListenAndServe(":"+config.Get().ServerPort, router); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start valuation server")
	}
}
