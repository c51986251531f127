package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/reroute-fukuoka/reroute/pkg/util"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

// Options reads the connection settings from REROUTE_REDIS_* variables.
func Options(env map[string]string) (*redis.Options, error) {
	options := &redis.Options{
		Addr:     defaultConnectionAddress,
		Password: defaultConnectionPassword,
		DB:       defaultDatabase,
	}

	if env["REROUTE_REDIS_ADDRESS"] != "" {
		options.Addr = env["REROUTE_REDIS_ADDRESS"]
	}

	if env["REROUTE_REDIS_PASSWORD"] != "" {
		options.Password = env["REROUTE_REDIS_PASSWORD"]
	}

	if env["REROUTE_REDIS_DATABASE"] != "" {
		n, err := strconv.Atoi(env["REROUTE_REDIS_DATABASE"])
		if err != nil {
			return nil, err
		}
		options.DB = n
	}

	return options, nil
}

func Connect() error {
	options, err := Options(util.GetEnvironmentVariables())
	if err != nil {
		return err
	}

	client := redis.NewClient(options)

	statusCmd := client.Ping(context.Background())
	if err := statusCmd.Err(); err != nil {
		return err
	}

	Client = client

	return nil
}
