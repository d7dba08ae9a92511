package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/montyhall/bot"
	"github.com/domino14/montyhall/config"
	"github.com/domino14/montyhall/report"
)

var cfg *config.Config
var nc *nats.Conn

const HardTimeLimit = 180 * time.Second

func HandleRequest(ctx context.Context, evt bot.LambdaEvent) (string, error) {
	// Return something but we have to block till we're done.

	logger := log.With().
		Str("requestID", evt.RequestID).
		Logger()

	ctx, cancel := context.WithTimeout(ctx, HardTimeLimit)
	defer cancel()

	b := bot.NewBot(cfg)
	sum, err := b.RunBatch(ctx, evt.BatchRequest())
	if err != nil {
		return "", err
	}

	if evt.ReplyChannel != "" {
		data, err := json.Marshal(&bot.BatchResponse{RequestID: evt.RequestID, Summary: &sum})
		if err != nil {
			return "", err
		}
		logger.Info().Msg("batch-success-sending-via-nats")
		err = retry.Do(
			func() error {
				_, err := nc.Request(evt.ReplyChannel, data, 3*time.Second)
				if err != nil {
					return err
				}
				// We're just waiting for an acknowledgement. The actual
				// data doesn't matter.
				return nil
			},
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				logger.Err(err).Uint("n", n).
					Msg("did-not-receive-ack-try-again")
				return retry.BackOffDelay(n, err, config)
			}),
		)
		if err != nil {
			logger.Err(err).Msg("batch-reply-failed")
		}
	}
	logger.Info().Msg("exiting-fn")

	var sb strings.Builder
	if err := report.WriteText(&sb, sum); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func main() {
	cfg = &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var err error
	nc, err = nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}

	lambda.Start(HandleRequest)
}
