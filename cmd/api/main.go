// @title           TraceGraph API
// @version         1.0
// @description     Asynchronous requirements-to-test-case pipeline with knowledge graph traceability
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/data/store"
	jobmodel "github.com/akolanti/TraceGraph/internal/domain/jobModel"
	"github.com/akolanti/TraceGraph/internal/handlers"
	"github.com/akolanti/TraceGraph/internal/job"
	"github.com/akolanti/TraceGraph/internal/mcpserver"
	"github.com/akolanti/TraceGraph/internal/pipeline"
	"github.com/akolanti/TraceGraph/internal/pipeline/extract"
	"github.com/akolanti/TraceGraph/internal/pipeline/redact"
	"github.com/akolanti/TraceGraph/internal/pipeline/search"
	"github.com/akolanti/TraceGraph/internal/pipeline/testgen"
	"github.com/akolanti/TraceGraph/internal/pipeline/testgen/gemini"
	"github.com/akolanti/TraceGraph/internal/pipeline/testgen/openaiGen"
	"github.com/akolanti/TraceGraph/internal/server"
	"github.com/akolanti/TraceGraph/internal/worker"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

var (
	listenAddr        string
	mcpMode           bool
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.BoolVar(&mcpMode, "mcp", false, "serve the graph tools over stdio instead of HTTP")
	flag.Parse()

	if mcpMode {
		if err := mcpserver.Run(context.Background()); err != nil {
			logger.Error("MCP server stopped", "error", err)
		}
		return
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
		ResultStore:       store.GetRedisResultStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil || serviceConfig.ResultStore == nil {
		logger.Error("Redis stores are offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.ResultStore = store.InitInMemoryResultStore()
	}
	service := job.InitJobService(serviceConfig)

	pipelineService := pipeline.NewService(
		extract.NewLocalExtractor(),
		buildRedactor(),
		search.NewPolicySearcher(serviceContext),
		testgen.NewGenerator(buildProvider(serviceContext, logger)),
		serviceConfig.ResultStore,
	)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, pipelineService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildRedactor() redact.Redactor {
	if endpoint := config.RedactionEndpoint(); endpoint != "" {
		return redact.NewRemoteRedactor(endpoint)
	}
	return redact.NewRegexRedactor()
}

func buildProvider(ctx context.Context, logger *logger_i.Logger) testgen.Provider {
	switch config.TestGenProvider() {
	case "openai":
		return openaiGen.GetOpenAIClient(config.OpenAIModelName, config.OpenAIApiKey())
	case "none":
		logger.Info("Test generation runs rule-based only")
		return nil
	default:
		return gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GeminiApiKey())
	}
}
