package notify

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SendTimeout bounds a send when the caller's context has no deadline
const SendTimeout = 15 * time.Second

// messageCreator is the single Twilio call the sender makes
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends messages through the Twilio REST API
type TwilioSender struct {
	api messageCreator
}

func NewTwilioSender(accountSID, authToken string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api}
}

type sendResult struct {
	msg *twilioApi.ApiV2010Message
	err error
}

// Send delivers body and returns the message SID. CreateMessage takes no
// context, so a cancelled or expired ctx returns early; the request itself
// may still reach Twilio.
func (t *TwilioSender) Send(ctx context.Context, from, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, SendTimeout)
		defer cancel()
	}

	done := make(chan sendResult, 1)
	go func() {
		msg, err := t.api.CreateMessage(params)
		done <- sendResult{msg: msg, err: err}
	}()

	var resp *twilioApi.ApiV2010Message
	var err error
	select {
	case <-ctx.Done():
		return "", &SendError{Detail: "SMS gateway did not respond in time", Err: ctx.Err()}
	case res := <-done:
		resp, err = res.msg, res.err
	}
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			return "", &SendError{Detail: restErr.Message, Err: err}
		}
		return "", &SendError{Detail: err.Error(), Err: err}
	}
	if resp.Sid == nil {
		return "", &SendError{Detail: "gateway returned no message id"}
	}
	return *resp.Sid, nil
}
