package api

import (
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const maxRequestBody = 1 << 20

// ServeHTTP lets the same routes run behind net/http for local use.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		http.Error(w, `{"error":"read body"}`, http.StatusBadRequest)
		return
	}
	event := events.LambdaFunctionURLRequest{
		RawPath:        r.URL.Path,
		RawQueryString: r.URL.RawQuery,
		Body:           string(body),
		RequestContext: events.LambdaFunctionURLRequestContext{
			RequestID: r.Header.Get("X-Request-Id"),
			HTTP: events.LambdaFunctionURLRequestContextHTTPDescription{
				Method:    r.Method,
				Path:      r.URL.Path,
				SourceIP:  r.RemoteAddr,
				UserAgent: r.UserAgent(),
			},
		},
	}
	resp, _ := s.Handle(r.Context(), event)
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}
