// @title         LLM System with MongoDB Atlas
// @version       3.1.0
// @description   AI-powered document analysis system with MongoDB Atlas vector search. Submit a document URL and a list of questions, receive answers grounded in the document.
// @BasePath      /
// @schemes       http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Static API token. Format: "Bearer <token>".
package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hackrx/llm-atlas/docs"

	// internal imports
	httpapi "github.com/hackrx/llm-atlas/api/http"
	"github.com/hackrx/llm-atlas/api/http/handlers"
	"github.com/hackrx/llm-atlas/pkg/config"
	"github.com/hackrx/llm-atlas/pkg/document"
	"github.com/hackrx/llm-atlas/pkg/health"
	healthmongo "github.com/hackrx/llm-atlas/pkg/health/checkers"
	"github.com/hackrx/llm-atlas/pkg/ingest"
	"github.com/hackrx/llm-atlas/pkg/llm/googleai"
	"github.com/hackrx/llm-atlas/pkg/logging"
	"github.com/hackrx/llm-atlas/pkg/query"
	mongorepo "github.com/hackrx/llm-atlas/pkg/repository/mongodb"
	"github.com/hackrx/llm-atlas/pkg/security/bearer"
	storagemongo "github.com/hackrx/llm-atlas/pkg/storage/mongodb"
)

func main() {
	// Load configuration from env/.env
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	ctx := context.Background()

	// Google Generative AI client (chat + embeddings)
	ai, err := googleai.New(ctx, cfg.GoogleAPIKey, cfg.ChatModel, cfg.EmbedModel)
	if err != nil {
		logrus.Fatalf("init google ai client: %v", err)
	}

	// Connect to MongoDB Atlas. A failed connection is not fatal: the vector
	// repository re-dials on the first request.
	var client *mongo.Client
	connect := func(ctx context.Context) (*mongo.Collection, error) {
		c, err := storagemongo.Connect(ctx, cfg.MongoHost, cfg.MongoUser, cfg.MongoPass)
		if err != nil {
			return nil, err
		}
		client = c
		return c.Database(cfg.DBName).Collection(cfg.CollectionName), nil
	}
	vectorRepo := mongorepo.NewVectorRepository(connect, cfg.VectorIndex)
	if cfg.MongoConfigured() {
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		if _, err := connect(connectCtx); err != nil {
			logrus.Warnf("MongoDB connection failed during startup, will retry on first request: %v", err)
		} else {
			logrus.Info("Connection to MongoDB Atlas successful")
			vectorRepo = mongorepo.NewVectorRepositoryWithCollection(
				client.Database(cfg.DBName).Collection(cfg.CollectionName), cfg.VectorIndex)
		}
		cancel()
	} else {
		logrus.Warn("One or more MongoDB environment variables are not set")
	}

	// Wire dependencies (Clean Architecture)
	fetcher := document.NewFetcher(30*time.Second, cfg.MaxDocBytes)
	splitter := document.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	ingestUC := ingest.NewService(vectorRepo, fetcher, splitter, ai)
	queryUC := query.NewService(ingestUC, vectorRepo, ai, ai, cfg.TopK)
	runHandler := handlers.NewRunHandler(queryUC)

	// Health service: compose checkers
	var checkers []health.Checker
	if client != nil {
		checkers = append(checkers, healthmongo.NewMongoChecker(client))
	}
	readiness := health.NewService(checkers...)
	healthHandler := handlers.NewHealthHandler(readiness)

	// Bearer auth middleware for the protected route
	authMW := bearer.NewAuthMiddleware(cfg.APIBearerToken)

	app := fiber.New(fiber.Config{
		AppName: handlers.ServiceName,
	})
	app.Use(recover.New())

	// Register routes
	httpapi.Register(app, healthHandler, runHandler, authMW)

	// Swagger UI
	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/docs", func(c *fiber.Ctx) error { return c.Redirect("/docs/index.html") })

	// Start server
	logrus.Infof("HTTP server listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
