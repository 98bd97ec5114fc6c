package reqctx

import (
	"context"
	"testing"
)

func TestRequestIDFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "empty context", ctx: context.Background(), want: ""},
		{name: "nil meta", ctx: WithRequestMeta(context.Background(), nil), want: ""},
		{
			name: "with meta",
			ctx:  WithRequestMeta(context.Background(), &RequestMeta{RequestID: "req-1"}),
			want: "req-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequestIDFromContext(tt.ctx); got != tt.want {
				t.Errorf("RequestIDFromContext() = %q, want %q", got, tt.want)
			}
		})
	}
}
