package bot

// LambdaEvent is the payload of a batch run as an AWS Lambda function. When
// ReplyChannel is set, the response is also published there over NATS.
type LambdaEvent struct {
	RequestID    string `json:"request_id"`
	Trials       int    `json:"trials"`
	Threads      int    `json:"threads"`
	Seed         string `json:"seed"`
	ReplyChannel string `json:"reply_channel"`
}

func (evt LambdaEvent) BatchRequest() BatchRequest {
	return BatchRequest{
		RequestID: evt.RequestID,
		Trials:    evt.Trials,
		Threads:   evt.Threads,
		Seed:      evt.Seed,
	}
}
