package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Query parameters are passed separately because the news API is entirely
// query-string driven; nil maps are valid and mean "none".
type Client interface {
	Get(ctx context.Context, url string, query map[string]string, headers map[string]string) (Response, error)
}
