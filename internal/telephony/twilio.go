package telephony

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioConfig holds the REST credentials for one Twilio account.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string

	// BaseURL redirects API requests to another host (tests, proxies).
	BaseURL string

	HTTPClient *http.Client
}

// TwilioProvider creates calls through the twilio-go REST client.
type TwilioProvider struct {
	accountSID string
	authToken  string
	rest       *twilio.RestClient
}

func NewTwilioProvider(cfg TwilioConfig) *TwilioProvider {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/")); err == nil && base.Host != "" {
		next := hc.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		copied := *hc
		copied.Transport = baseURLTransport{base: base, next: next}
		hc = &copied
	}

	base := &twclient.Client{
		Credentials: twclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient:  hc,
	}
	base.SetAccountSid(cfg.AccountSID)

	return &TwilioProvider{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		rest:       twilio.NewRestClientWithParams(twilio.ClientParams{Client: base}),
	}
}

func (p *TwilioProvider) Name() string { return "twilio" }

// CreateCall creates the call with inline TwiML. The SDK call does not take a
// context; the HTTP client timeout bounds it.
func (p *TwilioProvider) CreateCall(ctx context.Context, req OutboundCallRequest) (OutboundCallResult, error) {
	if p.accountSID == "" || p.authToken == "" {
		return OutboundCallResult{}, errors.New("telephony: twilio credentials missing")
	}
	if req.To == "" || req.From == "" || req.TwiML == "" {
		return OutboundCallResult{}, errors.New("telephony: to, from and twiml are required")
	}
	if err := ctx.Err(); err != nil {
		return OutboundCallResult{}, err
	}

	call, err := p.rest.Api.CreateCall(createCallParams(p.accountSID, req))
	if err != nil {
		var rerr *twclient.TwilioRestError
		if errors.As(err, &rerr) {
			return OutboundCallResult{}, &ProviderError{
				Provider:   p.Name(),
				HTTPStatus: rerr.Status,
				Code:       rerr.Code,
				Message:    rerr.Message,
			}
		}
		return OutboundCallResult{}, fmt.Errorf("telephony: create call: %w", err)
	}
	if call == nil || call.Sid == nil || *call.Sid == "" {
		return OutboundCallResult{}, errors.New("telephony: create call response missing sid")
	}
	out := OutboundCallResult{ProviderCallID: *call.Sid}
	if call.Status != nil {
		out.Status = *call.Status
	}
	return out, nil
}

func createCallParams(accountSID string, req OutboundCallRequest) *twapi.CreateCallParams {
	params := &twapi.CreateCallParams{}
	params.SetPathAccountSid(accountSID)
	params.SetTo(req.To)
	params.SetFrom(req.From)
	params.SetTwiml(req.TwiML)
	if req.MachineDetection {
		params.SetMachineDetection("Enable")
	}
	if req.StatusCallbackURL != "" {
		params.SetStatusCallback(req.StatusCallbackURL)
		params.SetStatusCallbackMethod(http.MethodPost)
		if len(req.StatusCallbackEvents) > 0 {
			params.SetStatusCallbackEvent(req.StatusCallbackEvents)
		}
	}
	return params
}

// baseURLTransport sends every request to base instead of api.twilio.com.
type baseURLTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t baseURLTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	out := r.Clone(r.Context())
	out.URL.Scheme = t.base.Scheme
	out.URL.Host = t.base.Host
	out.URL.Path = t.base.Path + r.URL.Path
	out.Host = t.base.Host
	return t.next.RoundTrip(out)
}
