package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testCommand struct {
	Value string
}

func (c testCommand) Validate() error {
	if c.Value == "" {
		return errors.New("value is required")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestCommandBus(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to the registered handler", func(t *testing.T) {
		bus := NewCommandBus()

		var got Command
		handler := CommandHandlerFunc(func(_ context.Context, cmd Command) error {
			got = cmd
			return nil
		})
		require.NoError(t, bus.Register(testCommand{}, handler))

		require.NoError(t, bus.Send(ctx, testCommand{Value: "x"}))
		assert.Equal(t, testCommand{Value: "x"}, got)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		bus := NewCommandBus()
		handler := CommandHandlerFunc(func(context.Context, Command) error { return nil })

		require.NoError(t, bus.Register(testCommand{}, handler))
		assert.Error(t, bus.Register(testCommand{}, handler))
	})

	t.Run("validates before dispatch", func(t *testing.T) {
		bus := NewCommandBus()
		called := false
		handler := CommandHandlerFunc(func(context.Context, Command) error {
			called = true
			return nil
		})
		require.NoError(t, bus.Register(testCommand{}, handler))

		err := bus.Send(ctx, testCommand{})
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.False(t, called)
	})

	t.Run("errors on unregistered command type", func(t *testing.T) {
		bus := NewCommandBus()
		assert.ErrorIs(t, bus.Send(ctx, otherCommand{}), ErrHandlerNotFound)
	})

	t.Run("wraps handler errors", func(t *testing.T) {
		bus := NewCommandBus()
		sentinel := errors.New("boom")
		handler := CommandHandlerFunc(func(context.Context, Command) error { return sentinel })
		require.NoError(t, bus.Register(testCommand{}, handler))

		err := bus.Send(ctx, testCommand{Value: "x"})
		assert.ErrorIs(t, err, sentinel)
	})
}

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	var order []string
	mk := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	handler := NewPipeline(mk("outer"), mk("inner"), LoggingMiddleware(zap.NewNop())).
		Execute(CommandHandlerFunc(func(context.Context, Command) error {
			order = append(order, "handler")
			return nil
		}))

	require.NoError(t, handler.Handle(ctx, testCommand{Value: "x"}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
