package mediator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRequest struct{ Name string }
type pongResponse struct{ Greeting string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request Request) (Response, error) {
	req := request.(pingRequest)
	return pongResponse{Greeting: "hello " + req.Name}, nil
}

func TestMediator_SendDispatchesToRegisteredHandler(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[pingRequest](m, pingHandler{}))

	resp, err := m.Send(context.Background(), pingRequest{Name: "cod"})
	require.NoError(t, err)
	assert.Equal(t, pongResponse{Greeting: "hello cod"}, resp)
}

func TestMediator_SendUnregisteredTypeErrors(t *testing.T) {
	m := NewMediator()
	_, err := m.Send(context.Background(), pingRequest{})
	assert.Error(t, err)
}

func TestMediator_RegisterDuplicateErrors(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[pingRequest](m, pingHandler{}))
	err := RegisterHandler[pingRequest](m, pingHandler{})
	assert.Error(t, err)
}

func TestMediator_MiddlewareWrapsHandlerInOrder(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[pingRequest](m, pingHandler{}))

	var order []string
	m.RegisterMiddleware(func(ctx context.Context, req Request, next HandlerFunc) (Response, error) {
		order = append(order, "outer-before")
		resp, err := next(ctx, req)
		order = append(order, "outer-after")
		return resp, err
	})
	m.RegisterMiddleware(func(ctx context.Context, req Request, next HandlerFunc) (Response, error) {
		order = append(order, "inner-before")
		resp, err := next(ctx, req)
		order = append(order, "inner-after")
		return resp, err
	})

	_, err := m.Send(context.Background(), pingRequest{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer-before", "inner-before", "inner-after", "outer-after"}, order)
}

func TestMediator_SendNilRequestErrors(t *testing.T) {
	m := NewMediator()
	_, err := m.Send(context.Background(), nil)
	assert.Error(t, err)
}
