// @title SkyLens MediaScope
// @version 0.1
// @description Batch media analysis service. Uploads go to S3, get analyzed by Bedrock and land as one consolidated project record.

// @host localhost:8080
// @BasePath /api
// @query.collection.format multi
// @schemes http

package main

import (
	"log"

	_ "skylens/mediascope/docs"
	"skylens/mediascope/internal/app"
	"skylens/mediascope/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	app.Run(cfg)
}
