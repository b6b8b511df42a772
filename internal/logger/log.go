package logger

import (
	"bytes"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// bodyLimit caps each logged body so a large search result does not flood the log
	bodyLimit = 16 * 1024
	// request log type
	requestType = "request"
	truncated   = "TRUNCATED..."
	// RequestIDHeader is echoed on every response
	RequestIDHeader = "X-Request-Id"
)

// requestRecord for Request Log
type requestRecord struct {
	RequestID       string
	Timestamp       time.Time
	HTTPStatusCode  int
	ErrorStackTrace string
	HTTPMethod      string
	RequestPath     string
	RequestQuery    string
	RequestBody     string
	ResponseBody    string
}

func (r *requestRecord) fields(duration time.Duration) []zap.Field {
	return []zap.Field{
		zap.String("type", requestType),
		zap.String("request_id", r.RequestID),
		zap.String("method", r.HTTPMethod),
		zap.String("path", r.RequestPath),
		zap.String("query", r.RequestQuery),
		zap.Int("status", r.HTTPStatusCode),
		zap.Duration("duration", duration),
		zap.String("request_body", limitBody(r.RequestBody)),
		zap.String("response_body", limitBody(r.ResponseBody)),
		zap.String("stack", r.ErrorStackTrace),
	}
}

// GinLogMiddleware writes one request log entry per HTTP request, even when a
// later handler panics.
func GinLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// overwrite the gin.Context.Writer to log response body
		respLogWriter := &respLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = respLogWriter

		record := initRequestRecord(c)
		c.Header(RequestIDHeader, record.RequestID)

		defer func() {
			// finally print request log even panic
			log.Info("http request", record.fields(time.Since(record.Timestamp))...)
		}()

		defer func() {
			if r := recover(); r != nil {
				record.HTTPStatusCode = http.StatusInternalServerError
				record.ErrorStackTrace = string(debug.Stack())
				// throw the panic to the later middlewares
				panic(r)
			}
		}()

		c.Next()

		// if response normally, fill in remain fields
		record.HTTPStatusCode = c.Writer.Status()
		record.ResponseBody = respLogWriter.body.String()
	}
}

// limitBody truncates body text past bodyLimit.
func limitBody(body string) string {
	if len(body) <= bodyLimit {
		return body
	}
	return body[:bodyLimit] + truncated
}

type respLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w respLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w respLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func initRequestRecord(ctx *gin.Context) *requestRecord {
	var requestBody string
	if ctx.Request.Body != nil {
		requestBodyBytes, err := io.ReadAll(ctx.Request.Body)
		if err == nil {
			// reattach request body for later use
			ctx.Request.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))
			requestBody = string(requestBodyBytes)
		}
	}

	return &requestRecord{
		RequestID:    requestID(ctx),
		Timestamp:    time.Now(),
		HTTPMethod:   ctx.Request.Method,
		RequestPath:  ctx.Request.URL.Path,
		RequestQuery: ctx.Request.URL.Query().Encode(),
		RequestBody:  requestBody,
	}
}

// requestID prefers the AWS request id when running behind API Gateway.
func requestID(ctx *gin.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx.Request.Context()); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	if id := ctx.GetHeader(RequestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
