// Package reqctx carries request-scoped metadata through context.Context.
//
// HTTP middleware stores a RequestMeta for every request; services read the
// request id back when logging:
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: id})
//	slog.InfoContext(ctx, "mood_logged", "request_id", reqctx.RequestIDFromContext(ctx))
package reqctx
