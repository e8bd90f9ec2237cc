// Package api routes JSON requests to the ranker, the respec simulator and the
// base-trait client. The same router serves Lambda Function URL events and
// plain net/http requests.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/basetraits"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/rank"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/sets"
)

// BaseTraitSource looks up a gotchi's respec base traits.
type BaseTraitSource interface {
	RespecBaseTraits(ctx context.Context, tokenID string) ([]int, error)
}

var _ BaseTraitSource = (*basetraits.Client)(nil)

// Service is safe for concurrent use.
type Service struct {
	catalog      *sets.Catalog
	ranker       *rank.Ranker
	baseTraits   BaseTraitSource
	defaultLimit int
	log          *zap.Logger
}

// Options tunes a Service.
type Options struct {
	DefaultLimit int
	Logger       *zap.Logger
}

// NewService wires a Service. src may be nil, in which case token lookups
// always fall back.
func NewService(c *sets.Catalog, src BaseTraitSource, opts Options) *Service {
	s := &Service{
		catalog:      c,
		ranker:       rank.NewRanker(c),
		baseTraits:   src,
		defaultLimit: opts.DefaultLimit,
		log:          opts.Logger,
	}
	if s.defaultLimit < 1 {
		s.defaultLimit = 10
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type route struct {
	method string
	path   string
	fn     func(s *Service, ctx context.Context, body []byte) (int, any)
}

var routes = []route{
	{http.MethodGet, "/sets", (*Service).listSets},
	{http.MethodPost, "/best-sets", (*Service).bestSets},
	{http.MethodPost, "/respec/simulate", (*Service).simulate},
	{http.MethodPost, "/respec/base-traits", (*Service).lookupBaseTraits},
}

// Handle serves one Lambda Function URL event.
func (s *Service) Handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	start := time.Now()
	reqID := event.RequestContext.RequestID
	if reqID == "" {
		reqID = uuid.NewString()
	}
	method := strings.ToUpper(event.RequestContext.HTTP.Method)
	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}
	path = "/" + strings.Trim(path, "/")

	status, payload := s.dispatch(ctx, method, path, event)

	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "encode response: " + err.Error()})
	}
	log := s.log.Info
	if status >= 500 {
		log = s.log.Error
	}
	log("request",
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)))

	headers := map[string]string{"X-Request-Id": reqID}
	for k, v := range jsonHeader {
		headers[k] = v
	}
	return events.LambdaFunctionURLResponse{StatusCode: status, Headers: headers, Body: string(body)}, nil
}

func (s *Service) dispatch(ctx context.Context, method, path string, event events.LambdaFunctionURLRequest) (int, any) {
	pathFound := false
	for _, r := range routes {
		if r.path != path {
			continue
		}
		pathFound = true
		if r.method != method {
			continue
		}
		body := []byte(event.Body)
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(event.Body)
			if err != nil {
				return errResp(http.StatusBadRequest, "invalid base64 body")
			}
			body = decoded
		}
		return r.fn(s, ctx, body)
	}
	if pathFound {
		return errResp(http.StatusMethodNotAllowed, method+" not allowed on "+path)
	}
	return errResp(http.StatusNotFound, "no route for "+path)
}

func errResp(code int, msg string) (int, any) {
	return code, map[string]string{"error": msg}
}
