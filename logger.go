package reflux

import (
	"context"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
	"github.com/zoobzio/clockz"
)

// NewLogger returns a logger that writes every record to all handlers.
func NewLogger(handlers ...slog.Handler) *slog.Logger {
	return slog.New(slogmulti.Fanout(handlers...))
}

// WithLogger returns middleware that logs each action with the state before
// and after it, in the manner of redux-logger. Actions are logged at debug
// level, failures at error level. Thunks are logged by type only.
//
// A nil clock defaults to clockz.RealClock.
func WithLogger[S any](logger *slog.Logger, clock clockz.Clock) Middleware[S] {
	if clock == nil {
		clock = clockz.RealClock
	}

	return func(api API[S]) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				kind := kindOf(action)
				if _, ok := action.(Action); !ok {
					logger.DebugContext(ctx, "dispatching non-action", slog.String("kind", kind))
					return next(ctx, action)
				}

				start := clock.Now()
				logger.DebugContext(ctx, "action",
					slog.String("kind", kind),
					slog.Any("prev_state", api.GetState()),
				)

				result, err := next(ctx, action)
				duration := clock.Since(start)
				if err != nil {
					logger.ErrorContext(ctx, "action failed",
						slog.String("kind", kind),
						slog.Duration("duration", duration),
						slog.String("error", err.Error()),
					)
					return result, err
				}

				logger.DebugContext(ctx, "action applied",
					slog.String("kind", kind),
					slog.Any("next_state", api.GetState()),
					slog.Duration("duration", duration),
				)
				return result, nil
			}
		}
	}
}
