// Package bot serves Monty Hall batches over NATS request/reply: a request
// names a trial count, and the reply carries the tabulated summary.
package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/config"
	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/report"
)

// BatchRequest asks the bot to run a batch. Threads and Seed are optional.
type BatchRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Trials    int    `json:"trials"`
	Threads   int    `json:"threads,omitempty"`
	Seed      string `json:"seed,omitempty"`
}

// BatchResponse has either a Summary or an Error.
type BatchResponse struct {
	RequestID string          `json:"request_id,omitempty"`
	Summary   *report.Summary `json:"summary,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type Bot struct {
	config *config.Config
}

func NewBot(config *config.Config) *Bot {
	return &Bot{config: config}
}

func errorResponse(requestID string, message string, err error) *BatchResponse {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &BatchResponse{RequestID: requestID, Error: msg}
}

// RunBatch plays the requested batch and summarizes it.
func (bot *Bot) RunBatch(ctx context.Context, req BatchRequest) (report.Summary, error) {
	runner := automatic.NewBatchRunner()
	threads := req.Threads
	if threads <= 0 && bot.config != nil && bot.config.Viper != nil {
		threads = bot.config.GetInt(config.ConfigThreads)
	}
	if threads > 0 {
		runner.SetThreads(threads)
	}
	if req.Seed != "" {
		seed, err := game.ParseSeed(req.Seed)
		if err != nil {
			return report.Summary{}, err
		}
		runner.SetSeed(seed)
	}
	res, err := runner.Run(ctx, req.Trials)
	if err != nil {
		return report.Summary{}, err
	}
	return report.NewSummary(res), nil
}

// HandleRequest decodes a JSON BatchRequest and answers it. Failures are
// reported in the response, never as a Go error.
func (bot *Bot) HandleRequest(ctx context.Context, data []byte) *BatchResponse {
	req := BatchRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("", "Could not parse request", err)
	}
	sum, err := bot.RunBatch(ctx, req)
	if err != nil {
		return errorResponse(req.RequestID, "Could not run batch", err)
	}
	log.Info().Str("batch", sum.ID).Str("requestID", req.RequestID).
		Int("trials", sum.Trials).Msg("batch-done")
	return &BatchResponse{RequestID: req.RequestID, Summary: &sum}
}

// Run answers batch requests on channel until ctx is done.
func (bot *Bot) Run(ctx context.Context, nc *nats.Conn, channel string) error {
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		resp := bot.HandleRequest(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, ideally, but we need to do something sensible here.
			m.Respond([]byte(err.Error()))
		} else {
			m.Respond(data)
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Msgf("Listening on [%s]", channel)

	<-ctx.Done()
	return sub.Unsubscribe()
}

// Main connects to the configured NATS server and serves until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := nats.Connect(bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()
	return bot.Run(ctx, nc, channel)
}
