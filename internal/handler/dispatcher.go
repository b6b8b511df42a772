package handler

import (
	"context"
	"fmt"
	"time"

	"jira_gateway/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier announces successful changes somewhere outside Jira.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Summarizer condenses a raw issue payload into prose.
type Summarizer interface {
	Summarize(ctx context.Context, issueKey string, issue any) (string, error)
}

// Options carries the optional collaborators of a Dispatcher.
type Options struct {
	Logger *zap.Logger
	// Notifier is called after successful mutating tools when set.
	Notifier Notifier
	// Summarizer registers summarize_issue when set.
	Summarizer Summarizer
}

// Dispatcher owns the fixed tool table and is the single place where tool
// outcomes become response text. It holds no mutable state after
// construction and is safe for concurrent use.
type Dispatcher struct {
	tools        map[string]Tool
	order        []string
	logger       *zap.Logger
	notifier     Notifier
	msgFormatter *ToolMessageFormatter
}

// NewDispatcher builds the tool table around a Jira client.
func NewDispatcher(client JiraClient, opts Options) *Dispatcher {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	d := &Dispatcher{
		tools:        make(map[string]Tool),
		logger:       log,
		notifier:     opts.Notifier,
		msgFormatter: NewToolMessageFormatter(),
	}
	for _, tool := range jiraTools(client, opts.Summarizer) {
		d.tools[tool.Descriptor.Name] = tool
		d.order = append(d.order, tool.Descriptor.Name)
	}
	return d
}

// Descriptors lists the registered tools in registration order.
func (d *Dispatcher) Descriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tools[name].Descriptor)
	}
	return out
}

// Call runs a tool and always returns response text. Unknown tools, invalid
// arguments, upstream failures and handler panics all come back as
// "Error: <message>".
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (text string) {
	traceID := uuid.NewString()
	log := d.logger.With(zap.String("tool", name), zap.String("trace_id", traceID))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("tool call panicked",
				zap.Any("args", args),
				zap.Any("panic", r),
				zap.Stack("stack"))
			text = Failure(fmt.Errorf("internal error: %v", r)).Render()
		}
	}()

	log.Debug("tool call", zap.Any("args", args))

	tool, ok := d.tools[name]
	if !ok {
		res := Failure(&UnknownToolError{Name: name})
		log.Error("tool call failed", zap.Any("args", args), zap.Error(res.Err()))
		return res.Render()
	}

	res := d.run(ctx, tool, args)
	if err := res.Err(); err != nil {
		log.Error("tool call failed",
			zap.String("summary", d.msgFormatter.FormatToolCallMessage(name, args, err)),
			zap.Any("args", args),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return res.Render()
	}

	log.Info("tool call succeeded", zap.Duration("duration", time.Since(start)))
	if tool.Mutating {
		d.notify(ctx, log, name, args)
	}
	return res.Render()
}

func (d *Dispatcher) run(ctx context.Context, tool Tool, raw map[string]any) Result {
	args, err := tool.Descriptor.Validate(raw)
	if err != nil {
		return Failure(err)
	}
	return tool.Handler(ctx, args)
}

// notify never changes the tool result; failures are only logged.
func (d *Dispatcher) notify(ctx context.Context, log *zap.Logger, name string, args map[string]any) {
	if d.notifier == nil {
		return
	}
	msg := d.msgFormatter.FormatToolCallMessage(name, args, nil)
	if err := d.notifier.Notify(ctx, msg); err != nil {
		log.Warn("failed to send change notification", zap.Error(err))
	}
}
