package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tournament-companion/internal/config"
	"tournament-companion/internal/constants"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// Client talks to the tournament GraphQL API.
type Client struct {
	url     string
	client  *fasthttp.Client
	limiter *rate.Limiter
}

func NewClient(cfg *config.Config) *Client {
	return newClient(cfg.APIURL, cfg.APIRateLimit, nil)
}

func newClient(url string, perSecond float64, dial fasthttp.DialFunc) *Client {
	return &Client{
		url: url,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
			Dial:                dial,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), constants.APIRateBurst),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// Error is returned when the API answers with GraphQL errors or no data.
type Error struct {
	Operation string
	Messages  []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s: empty response", e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

// StatusError is returned for non-200 answers.
type StatusError struct {
	Operation string
	Code      int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API error: %d", e.Operation, e.Code)
}

func doRequest[T any](ctx context.Context, client *Client, operation, query string, vars map[string]any) (*T, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", operation, err)
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", operation, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("%s: %w", operation, err)
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("%s: %w", operation, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{Operation: operation, Code: resp.StatusCode()}
	}

	var result graphQLResponse[T]
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if len(result.Errors) > 0 || result.Data == nil {
		apiErr := &Error{Operation: operation}
		for _, e := range result.Errors {
			apiErr.Messages = append(apiErr.Messages, e.Message)
		}
		return nil, apiErr
	}
	return result.Data, nil
}
