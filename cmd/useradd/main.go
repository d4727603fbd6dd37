package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/theta/internal/users"
	"github.com/angelmondragon/theta/pkg/config"
	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "useradd"})

	_ = godotenv.Load()

	email := flag.String("email", "", "user email (required)")
	password := flag.String("password", "", "password; a temporary one is generated when empty")
	activated := flag.Bool("activated", true, "whether the account may log in")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "useradd",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	result, err := users.Provision(ctx, users.NewRepository(redisClient), cfg.Password, users.ProvisionInput{
		Email:     *email,
		Password:  *password,
		Activated: *activated,
	})
	requireResource(ctx, logg, "provision user", err)

	ctx = logg.WithFields(ctx, map[string]any{
		"email":     result.User.Email,
		"activated": result.User.Activated,
		"created":   result.Created,
	})
	logg.Info(ctx, "user provisioned")
	if result.TempPassword != "" {
		fmt.Printf("temporary password: %s\n", result.TempPassword)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
