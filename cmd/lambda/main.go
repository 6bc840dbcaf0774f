package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/yohamza/meet2jira/handler"
	"github.com/yohamza/meet2jira/internal/extraction"
	"github.com/yohamza/meet2jira/internal/integrations/gdrive"
	"github.com/yohamza/meet2jira/internal/integrations/jira"
	"github.com/yohamza/meet2jira/internal/integrations/openai"
	"github.com/yohamza/meet2jira/internal/repository"
	"github.com/yohamza/meet2jira/internal/secrets"
	"github.com/yohamza/meet2jira/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	meetingsTable := mustEnv("MEETINGS_TABLE")
	paramPrefix := mustEnv("PARAM_PREFIX")
	openaiModel := envDefault("OPENAI_MODEL", "gpt-4o-mini")
	defaultProject := envDefault("JIRA_DEFAULT_PROJECT", "IWMP")
	extractionMode := envDefault("EXTRACTION_MODE", "model")
	jiraBaseURL := os.Getenv("JIRA_BASE_URL")
	jiraEmail := os.Getenv("JIRA_EMAIL")
	jiraAPIVersion := envDefault("JIRA_API_VERSION", "3")

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	secretStore, err := secrets.New(awsssm.NewFromConfig(cfg), paramPrefix)
	if err != nil {
		slog.Error("failed to create secret store", "err", err)
		os.Exit(1)
	}
	meetingStore, err := repository.New(awsdynamodb.NewFromConfig(cfg), meetingsTable)
	if err != nil {
		slog.Error("failed to create meeting store", "err", err)
		os.Exit(1)
	}
	driveClient, err := gdrive.NewClient(secretStore)
	if err != nil {
		slog.Error("failed to create drive client", "err", err)
		os.Exit(1)
	}

	// ---- Extraction path ----
	var extractor usecase.Extractor
	if strings.EqualFold(extractionMode, "heuristic") {
		slog.Info("using heuristic extraction")
		extractor = extraction.HeuristicExtractor{}
	} else {
		openaiClient, err := openai.NewClient(secretStore)
		if err != nil {
			slog.Error("failed to create OpenAI client", "err", err)
			os.Exit(1)
		}
		extractor, err = extraction.NewModelExtractor(openaiClient, openaiModel, defaultProject)
		if err != nil {
			slog.Error("failed to create model extractor", "err", err)
			os.Exit(1)
		}
	}

	// ---- Jira (optional) ----
	var poster usecase.CommentPoster
	if jiraBaseURL != "" && jiraEmail != "" {
		jiraClient, err := jira.NewClient(secretStore, jiraBaseURL, jiraEmail, jira.WithAPIVersion(jiraAPIVersion))
		if err != nil {
			slog.Error("failed to create Jira client", "err", err)
			os.Exit(1)
		}
		poster = jiraClient
	} else {
		slog.Info("JIRA_BASE_URL or JIRA_EMAIL not set, comment posting disabled")
	}

	// ---- Handler ----
	service, err := usecase.NewProcessService(driveClient, meetingStore, extractor, poster)
	if err != nil {
		slog.Error("failed to create process service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(service)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
