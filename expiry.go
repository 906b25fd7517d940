package sessionclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// maybeProactiveRefresh peeks at the access cookie's expiry and refreshes
// pre-emptively when it falls inside the configured leeway. Best effort: a
// failed proactive refresh leaves the regular 401 recovery path in charge.
func (c *Client) maybeProactiveRefresh(ctx context.Context) {
	if c.http.Jar == nil {
		return
	}

	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return
	}

	expiry, ok := cookieExpiry(c.http.Jar.Cookies(base), c.config.Recovery.AccessCookieName)
	if !ok {
		return
	}
	if time.Until(expiry) > c.config.Recovery.ExpiryLeeway {
		return
	}

	c.metrics.Inc(MetricProactiveRefresh)
	_ = c.refresh(ctx)
}

func cookieExpiry(cookies []*http.Cookie, name string) (time.Time, bool) {
	for _, ck := range cookies {
		if ck.Name != name {
			continue
		}
		return jwtExpiry(ck.Value)
	}
	return time.Time{}, false
}

// jwtExpiry reads the exp claim without verifying the signature. The client
// holds no keys; the server stays the only verifier.
func jwtExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
