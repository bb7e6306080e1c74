package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donationswap/api/internal/application/cleanup"
	"github.com/donationswap/api/internal/config"
	"github.com/donationswap/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/donationswap/api/internal/infrastructure/jwt"
	"github.com/donationswap/api/internal/infrastructure/smtp"
	"github.com/donationswap/api/internal/infrastructure/sns"
	transporthttp "github.com/donationswap/api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS push sender (optional — graceful fallback).
	var pushSender sns.PushSender
	if sender, err := sns.NewSender(cfg); err == nil {
		pushSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	sweepRepo := dynamo.NewSweepRepo(dynamoClient,
		cfg.DynamoTables.Posts, cfg.DynamoTables.OTPCodes, cfg.DynamoTables.ResetTokens)

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		OTPRepo:          dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPRequests, cfg.DynamoTables.OTPCodes),
		TokenRepo:        dynamo.NewResetTokenRepo(dynamoClient, cfg.DynamoTables.ResetTokens),
		RatingRepo:       dynamo.NewRatingRepo(dynamoClient, cfg.DynamoTables.Ratings),
		PostRepo:         dynamo.NewPostRepo(dynamoClient, cfg.DynamoTables.Posts),
		MessageRepo:      dynamo.NewMessageRepo(dynamoClient, cfg.DynamoTables.Messages),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications),
		AuditRepo:        dynamo.NewAuditRepo(dynamoClient, cfg.DynamoTables.AuditLogs),
		SweepRepo:        sweepRepo,
		Mailer:           mailer,
		PushSender:       pushSender,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	// Background expiry sweeper.
	runnerCtx, stopRunner := context.WithCancel(context.Background())
	defer stopRunner()
	runner := cleanup.NewRunner(cleanup.NewService(sweepRepo), cfg.CleanupInterval)
	go runner.Run(runnerCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
