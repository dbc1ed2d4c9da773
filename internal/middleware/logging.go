package middleware

import (
	"context"
	"log/slog"
	"path"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// LoggingInterceptor logs one line per ledger RPC with the method and the group
// it addressed. Rejected requests are warnings; internal failures are errors.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("method", path.Base(req.Spec().Procedure)),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if scoped, ok := req.Any().(ledgerapi.GroupScoped); ok && scoped.GroupRef() != "" {
				attrs = append(attrs, slog.String("group_id", scoped.GroupRef()))
			}

			if err == nil {
				slog.LogAttrs(ctx, slog.LevelInfo, "Ledger call served", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs,
				slog.String("code", code.String()),
				slog.String("peer", req.Peer().Addr),
				slog.Any("error", err),
			)
			level := slog.LevelWarn
			if code == connect.CodeInternal || code == connect.CodeUnknown {
				level = slog.LevelError
			}
			slog.LogAttrs(ctx, level, "Ledger call rejected", attrs...)
			return resp, err
		}
	}
}
