package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	meterusagev1 "github.com/milad/meterreads/internal/api/meterusage/v1"
	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/logger"
)

const (
	// NextPageTokenHeader carries the token for the next page of GET /meters.
	NextPageTokenHeader = "X-Next-Page-Token"

	maxBodyBytes = 1 << 20
)

type Server struct {
	client          MeterUsageClient
	log             *zap.Logger
	upstreamTimeout time.Duration
	router          chi.Router
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func WithUpstreamTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.upstreamTimeout = d
		}
	}
}

func New(client MeterUsageClient, opts ...Option) *Server {
	s := &Server{
		client:          client,
		log:             zap.NewNop(),
		upstreamTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(s.requestLog)
	r.Use(s.recoverer)

	r.Get("/meters", s.handleListReadings)
	r.Post("/meters", s.handleCreateReading)
	r.Get("/meters/monthlyUsage", s.handleMonthlyUsage)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, r, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	s.router = r
}

// handleListReadings returns readings in [start, end). Both bounds are optional
// ISO-8601 dates. With page_size set, the next page token is sent in a header.
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	pageSize, err := parseOptionalInt(q.Get("page_size"))
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "invalid page_size")
		return
	}
	if pageSize < 0 {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "page_size must be >= 0")
		return
	}
	pageToken := q.Get("page_token")
	if pageToken != "" && pageSize == 0 {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "page_token requires page_size")
		return
	}

	req := &meterusagev1.ListReadingsRequest{
		Start:     toTimestamp(start),
		End:       toTimestamp(end),
		PageSize:  int32(pageSize),
		PageToken: pageToken,
	}

	var resp *meterusagev1.ListReadingsResponse
	if !s.callUpstream(w, r, "ListReadings", func(ctx context.Context) (err error) {
		resp, err = s.client.ListReadings(ctx, req)
		return err
	}) {
		return
	}

	out := make([]readingJSON, 0, len(resp.GetReadings()))
	for _, rd := range resp.GetReadings() {
		j, err := fromWireReading(rd)
		if err != nil {
			writeAPIError(w, r, http.StatusBadGateway, "upstream_error", err.Error())
			return
		}
		out = append(out, j)
	}

	if next := resp.GetNextPageToken(); next != "" {
		w.Header().Set(NextPageTokenHeader, next)
	}
	_ = writeJSON(w, http.StatusOK, out)
}

// handleCreateReading stores one reading. cumulative must be a JSON number and
// readingDate an ISO-8601 string.
func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) {
	var body createReadingJSON
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "cumulative" {
			writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "'cumulative' must be number")
			return
		}
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "invalid JSON body")
		return
	}
	if body.Cumulative == nil {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "'cumulative' must be number")
		return
	}
	if body.ReadingDate == nil {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "'readingDate' must be a valid ISO date string")
		return
	}
	when, err := domain.ParseReadingDate(*body.ReadingDate)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "'readingDate' must be a valid ISO date string")
		return
	}

	req := &meterusagev1.CreateReadingRequest{Reading: &meterusagev1.Reading{
		ReadingDate: timestamppb.New(when),
		Cumulative:  *body.Cumulative,
		Unit:        body.Unit,
	}}

	var resp *meterusagev1.CreateReadingResponse
	if !s.callUpstream(w, r, "CreateReading", func(ctx context.Context) (err error) {
		resp, err = s.client.CreateReading(ctx, req)
		return err
	}) {
		return
	}

	out, err := fromWireReading(resp.GetReading())
	if err != nil {
		writeAPIError(w, r, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}
	_ = writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleMonthlyUsage(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}
	req := &meterusagev1.GetMonthlyUsageRequest{Start: toTimestamp(start), End: toTimestamp(end)}

	var resp *meterusagev1.GetMonthlyUsageResponse
	if !s.callUpstream(w, r, "GetMonthlyUsage", func(ctx context.Context) (err error) {
		resp, err = s.client.GetMonthlyUsage(ctx, req)
		return err
	}) {
		return
	}

	out := make([]usageJSON, 0, len(resp.GetUsage()))
	for _, u := range resp.GetUsage() {
		out = append(out, usageJSON{
			Cumulative:  u.GetCumulative(),
			ReadingDate: u.GetMonth(),
			Unit:        u.GetUnit(),
		})
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// callUpstream runs call with the upstream timeout and the request id in the
// outgoing metadata. On failure it writes the mapped error and returns false.
func (s *Server) callUpstream(w http.ResponseWriter, r *http.Request, method string, call func(ctx context.Context) error) bool {
	ctx, cancel := context.WithTimeout(r.Context(), s.upstreamTimeout)
	defer cancel()
	if id := chiMiddleware.GetReqID(r.Context()); id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", id)
	}

	start := time.Now()
	err := call(ctx)
	dur := time.Since(start)

	code := codes.OK
	if err != nil {
		code = codes.Unknown
		if st, ok := status.FromError(err); ok {
			code = st.Code()
		}
	}
	observeUpstreamGRPC(method, code.String(), dur)
	if err == nil {
		return true
	}

	st, _ := status.FromError(err)
	switch code {
	case codes.InvalidArgument:
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", st.Message())
	case codes.FailedPrecondition:
		writeAPIError(w, r, http.StatusUnprocessableEntity, "unprocessable", st.Message())
	case codes.DeadlineExceeded:
		writeAPIError(w, r, http.StatusGatewayTimeout, "upstream_timeout", "upstream timeout")
	default:
		logger.FromContext(r.Context()).Warn("upstream call failed",
			zap.String("method", method),
			zap.String("code", code.String()),
			zap.Error(err),
		)
		writeAPIError(w, r, http.StatusBadGateway, "upstream_error", "upstream error")
	}
	return false
}

func parseRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	q := r.URL.Query()
	start, err := parseOptionalDate(q.Get("start"))
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "invalid start")
		return nil, nil, false
	}
	end, err := parseOptionalDate(q.Get("end"))
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "invalid end")
		return nil, nil, false
	}
	if start != nil && end != nil && !start.Before(*end) {
		writeAPIError(w, r, http.StatusBadRequest, "invalid_argument", "invalid range: start must be before end")
		return nil, nil, false
	}
	return start, end, true
}

func fromWireReading(rd *meterusagev1.Reading) (readingJSON, error) {
	ts := rd.GetReadingDate()
	if ts == nil {
		return readingJSON{}, errors.New("upstream returned invalid reading")
	}
	if err := ts.CheckValid(); err != nil {
		return readingJSON{}, errors.New("upstream returned invalid timestamp")
	}
	return readingJSON{
		Cumulative:  rd.GetCumulative(),
		ReadingDate: domain.FormatReadingDate(ts.AsTime()),
		Unit:        rd.GetUnit(),
	}, nil
}

func toTimestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	_ = writeJSON(w, status, apiErrorJSON{
		Code:      code,
		Message:   message,
		RequestID: chiMiddleware.GetReqID(r.Context()),
	})
}

func parseOptionalInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
