package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

type contextKeyDevice struct{}

// Device is a compact client description derived from the User-Agent header,
// carried in request logs for the audit trail.
type Device struct {
	Browser string
	OS      string
	Mobile  bool
}

// GetDevice retrieves the parsed device description from the context.
func GetDevice(ctx context.Context) Device {
	if d, ok := ctx.Value(contextKeyDevice{}).(Device); ok {
		return d
	}
	return Device{}
}

// WithDevice injects a device description into a context for tests.
func WithDevice(ctx context.Context, d Device) context.Context {
	return context.WithValue(ctx, contextKeyDevice{}, d)
}

// ClientDevice parses the User-Agent header and adds the device description
// to the context. Apply early in the chain so Logger can see it.
func ClientDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.Header.Get("User-Agent"))
		browser, _ := ua.Browser()
		device := Device{
			Browser: browser,
			OS:      ua.OS(),
			Mobile:  ua.Mobile(),
		}
		next.ServeHTTP(w, r.WithContext(WithDevice(r.Context(), device)))
	})
}
