package mediator

import (
	"context"
	"fmt"
	"reflect"
)

// Mediator dispatches requests to their registered handlers, running
// registered middleware first. The CLI's run command dispatches its
// single-state request through it.
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	RegisterMiddleware(middleware Middleware)
}

type dispatcher struct {
	handlers    map[reflect.Type]RequestHandler
	middlewares []Middleware
}

// NewMediator creates an empty dispatcher.
func NewMediator() Mediator {
	return &dispatcher{handlers: make(map[reflect.Type]RequestHandler)}
}

func (d *dispatcher) Register(requestType reflect.Type, handler RequestHandler) error {
	if requestType == nil {
		return fmt.Errorf("request type cannot be nil")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	if _, exists := d.handlers[requestType]; exists {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}
	d.handlers[requestType] = handler
	return nil
}

func (d *dispatcher) RegisterMiddleware(middleware Middleware) {
	d.middlewares = append(d.middlewares, middleware)
}

func (d *dispatcher) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	requestType := reflect.TypeOf(request)
	handler, ok := d.handlers[requestType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for orchestrator command %s", RequestName(request))
	}

	next := handler.Handle
	for i := len(d.middlewares) - 1; i >= 0; i-- {
		middleware := d.middlewares[i]
		currentNext := next
		next = func(ctx context.Context, req Request) (Response, error) {
			return middleware(ctx, req, currentNext)
		}
	}
	return next(ctx, request)
}

// RegisterHandler registers a handler keyed by the concrete type T.
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	var zero T
	return m.Register(reflect.TypeOf(zero), handler)
}

// RequestName returns the unqualified type name of a request, the label
// Send's errors and the run command's logging middleware use rather than the full
// package-qualified %T (kyogre dispatches exactly one command or query per
// cobra invocation, so a short, stable name reads better in operator logs
// than a reflect.Type's String()).
func RequestName(request Request) string {
	t := reflect.TypeOf(request)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
