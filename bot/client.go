package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/montyhall/report"
)

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultAttempts       = 3
)

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel, timeout: DefaultRequestTimeout}
}

// decodeResponse turns a bot reply into a summary. An error the bot
// reports is final; retrying the same request would fail the same way.
func decodeResponse(data []byte) (report.Summary, error) {
	resp := BatchResponse{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return report.Summary{}, retry.Unrecoverable(err)
	}
	if resp.Error != "" {
		return report.Summary{}, retry.Unrecoverable(errors.New("Bot returned: " + resp.Error))
	}
	if resp.Summary == nil {
		return report.Summary{}, retry.Unrecoverable(errors.New("should never happen"))
	}
	return *resp.Summary, nil
}

// RequestBatch sends a batch request to the bot and waits for the summary.
// Timeouts are retried with backoff.
func (c *Client) RequestBatch(ctx context.Context, req BatchRequest) (report.Summary, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return report.Summary{}, err
	}
	return retry.DoWithData(
		func() (report.Summary, error) {
			rctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			res, err := c.nc.RequestWithContext(rctx, c.channel, data)
			if err != nil {
				if c.nc.LastError() != nil {
					log.Error().Msgf("%v for request", c.nc.LastError())
				}
				return report.Summary{}, err
			}
			log.Debug().Msgf("res: %v", string(res.Data))
			return decodeResponse(res.Data)
		},
		retry.Context(ctx),
		retry.Attempts(DefaultAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("no-reply-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}
