package bot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/montyhall/config"
	"github.com/domino14/montyhall/game"
)

func testBot() *Bot {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigThreads, 2)
	return NewBot(&cfg)
}

func TestHandleRequest(t *testing.T) {
	is := is.New(t)
	resp := testBot().HandleRequest(context.Background(),
		[]byte(`{"request_id": "abc", "trials": 5000, "seed": "bot"}`))
	is.Equal(resp.Error, "")
	is.Equal(resp.RequestID, "abc")
	is.True(resp.Summary != nil)
	is.Equal(resp.Summary.Trials, 5000)
	is.Equal(resp.Summary.Threads, 2)

	sw, ok := resp.Summary.Row(game.Switch)
	is.True(ok)
	assert.InDelta(t, 2.0/3, sw.Win, 0.03)
}

func TestHandleRequestIsReproducible(t *testing.T) {
	is := is.New(t)
	b := testBot()
	req := []byte(`{"trials": 1000, "threads": 3, "seed": "again"}`)
	r1 := b.HandleRequest(context.Background(), req)
	r2 := b.HandleRequest(context.Background(), req)
	is.Equal(r1.Summary.Rows, r2.Summary.Rows)
	is.Equal(r1.Summary.Seed, r2.Summary.Seed)
}

func TestHandleBadRequests(t *testing.T) {
	is := is.New(t)
	b := testBot()

	resp := b.HandleRequest(context.Background(), []byte(`{"trials": `))
	is.True(resp.Summary == nil)
	is.True(strings.HasPrefix(resp.Error, "Could not parse request"))

	for _, n := range []string{"0", "-3"} {
		resp = b.HandleRequest(context.Background(), []byte(`{"request_id": "x", "trials": `+n+`}`))
		is.True(resp.Summary == nil)
		is.Equal(resp.RequestID, "x")
		is.True(strings.Contains(resp.Error, game.ErrInvalidArgument.Error()))
	}
}

func TestRunBatchErrors(t *testing.T) {
	is := is.New(t)
	_, err := testBot().RunBatch(context.Background(), BatchRequest{Trials: 0})
	is.True(errors.Is(err, game.ErrInvalidArgument))
}

func TestDecodeResponse(t *testing.T) {
	is := is.New(t)
	resp := testBot().HandleRequest(context.Background(), []byte(`{"trials": 10}`))
	data, err := json.Marshal(resp)
	is.NoErr(err)
	sum, err := decodeResponse(data)
	is.NoErr(err)
	is.Equal(sum.ID, resp.Summary.ID)
	is.Equal(sum.Trials, 10)

	_, err = decodeResponse([]byte(`{"error": "Could not run batch: boom"}`))
	is.Equal(err.Error(), "Bot returned: Could not run batch: boom")
	_, err = decodeResponse([]byte(`{}`))
	is.True(err != nil)
}

func TestLambdaEventRequest(t *testing.T) {
	is := is.New(t)
	evt := LambdaEvent{RequestID: "r", Trials: 7, Threads: 1, Seed: "s", ReplyChannel: "reply"}
	is.Equal(evt.BatchRequest(), BatchRequest{RequestID: "r", Trials: 7, Threads: 1, Seed: "s"})
}
