package exchange

import (
	"time"

	"github.com/maksyko/gun-http/transport"
	"github.com/maksyko/gun-http/version"
)

// DefaultTimeout bounds each wait for a protocol event.
const DefaultTimeout = 5 * time.Second

var userAgent = "gun-http/" + version.Current().String()

type Options struct {
	// Timeout bounds every blocking wait for a protocol event.
	// Zero means DefaultTimeout.
	Timeout time.Duration
	// Transport carries the exchange. Nil selects a NetTransport matching
	// the target scheme.
	Transport transport.Transport
	Auth      AuthOptions
}

type AuthOptions struct {
	Enabled  bool
	UserName string
	Password string
}

func (o *Options) timeout() time.Duration {
	if o.Timeout != 0 {
		return o.Timeout
	}
	return DefaultTimeout
}
