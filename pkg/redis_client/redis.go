package redis_client

import (
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmonitor/pkg/util"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const maxConnectRetries = 5

// Connect opens the shared client. An empty address falls back to the environment and then
// to localhost.
func Connect(ctx context.Context, address string) error {
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env[util.EnvironmentPrefix+"REDIS_ADDRESS"] != "" {
		address = env[util.EnvironmentPrefix+"REDIS_ADDRESS"]
	}
	if address == "" {
		address = defaultConnectionAddress
	}

	if env[util.EnvironmentPrefix+"REDIS_PASSWORD"] != "" {
		password = env[util.EnvironmentPrefix+"REDIS_PASSWORD"]
	}

	if env[util.EnvironmentPrefix+"REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env[util.EnvironmentPrefix+"REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	retryBackoff := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxConnectRetries),
		ctx,
	)

	err := backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, retryBackoff, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("address", address).Dur("wait", wait).Msg("Redis not reachable, retrying")
	})
	if err != nil {
		client.Close()
		return err
	}

	Client = client

	log.Info().Str("address", address).Int("database", database).Msg("Connected to Redis")

	return nil
}
