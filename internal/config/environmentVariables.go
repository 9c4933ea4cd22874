package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = false //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//TODO:this will differ based on the request and provider
	EmbeddingOutputDimensionality int32 = 1536
	PolicyCollectionName                = "policy-corpus"
	PolicySearchLimit                   = 3
	PolicyMatchMinSimilarity            = 0.5
	HugeCorpusThreshold                 = 500 //passages; above this, embedding goes through the batch job API

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	//IdleWorkerTimeout = 1 * time.Second //fo tests

	//pipeline
	PipelineTimeout     = 120 * time.Second
	JobTimeout          = 180 * time.Second
	MaxChunkConcurrency = 4

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//models
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	EmbeddingModelName   = GoogleEmbeddingModel
	OpenAIModelName      = "gpt-4o-mini"

	ModelTemperature float32 = 0.7

	TestGenSystemInstruction = "You are a QA engineer generating test cases for compliance software. " +
		"Return only valid JSON matching the requested structure. Never invent requirement ids " +
		"that were not provided."

	TestGenRetryAttempts uint = 3

	//remote redaction service
	RedactRequestTimeout      = 10 * time.Second
	RedactRetryAttempts  uint = 3
	RedactRetryDelay          = 500 * time.Millisecond

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore    = 0
	RedisResultStore = 1

	RecentResultsKey = "recent_pipeline_runs"
	RecentRunsCount  = 10

	//redis timeouts
	RedisJobStoreTTL    = 24 * time.Hour
	RedisResultStoreTTL = 24 * time.Hour
)

var (
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	AuthToken     = os.Getenv("API_AUTH_TOKEN")
	NoAuthBypass  = os.Getenv("NO_AUTH_BYPASS") == "true"
)

func GeminiApiKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func OpenAIApiKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// Empty means PII masking stays local with the regex masker.
func RedactionEndpoint() string {
	return os.Getenv("REDACTION_ENDPOINT")
}

// "gemini" (default), "openai" or "none".
func TestGenProvider() string {
	provider := os.Getenv("TESTGEN_PROVIDER")
	if provider == "" {
		return "gemini"
	}
	return provider
}
