package sessionclient

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

/*
====================================
CLASSIFICATION
====================================
*/

// recoverResponse classifies the first failed response of a request and runs
// at most one recovery attempt. Precedence: 401 refresh-and-replay, 403
// forced logout, 409 conflict notification, anything else propagates. Replay
// outcomes never come back here; replay classifies them itself.
func (c *Client) recoverResponse(ctx context.Context, rec *requestRecord, wire *wireResponse) (*Response, error) {
	original := newAPIError(wire.status, wire.body)
	c.metrics.Inc(MetricRequestFailure)
	c.emitAudit(ctx, auditRequestFailed, rec, wire.status, original.Error())

	switch wire.status {
	case http.StatusUnauthorized:
		rec.retried = true
		if err := c.refresh(ctx); err != nil {
			c.forceLogout(ctx, rec)
			return nil, original
		}
		return c.replay(ctx, rec)

	case http.StatusForbidden:
		rec.retried = true
		c.forceLogout(ctx, rec)
		return nil, original

	case http.StatusConflict:
		if c.config.Role.HandleConflict {
			rec.retried = true
			c.notifyConflict(ctx, rec, original)
		}
		return nil, original

	default:
		return nil, original
	}
}

/*
====================================
REPLAY
====================================
*/

func (c *Client) replay(ctx context.Context, rec *requestRecord) (*Response, error) {
	c.metrics.Inc(MetricReplayAttempt)

	wire, err := c.send(ctx, rec)
	if err != nil {
		c.metrics.Inc(MetricReplayFailure)
		c.metrics.Inc(MetricNetworkFailure)
		c.emitAudit(ctx, auditReplayFailure, rec, 0, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if wire.ok() {
		c.metrics.Inc(MetricReplaySuccess)
		c.metrics.Inc(MetricRequestSuccess)
		c.emitAudit(ctx, auditReplaySuccess, rec, wire.status, "")
		return wire.response(), nil
	}

	replayErr := newAPIError(wire.status, wire.body)
	c.metrics.Inc(MetricReplayFailure)
	c.metrics.Inc(MetricRequestFailure)
	c.emitAudit(ctx, auditReplayFailure, rec, wire.status, replayErr.Error())

	if wire.status == http.StatusForbidden {
		c.forceLogout(ctx, rec)
	}
	return nil, replayErr
}

/*
====================================
REFRESH
====================================
*/

// refresh renews the session credential through the role's refresh endpoint.
// The server's Set-Cookie side effect lands in the shared cookie jar; the
// body is discarded.
func (c *Client) refresh(ctx context.Context) error {
	if !c.config.Recovery.SingleFlightRefresh {
		return c.refreshOnce(ctx)
	}

	_, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		// The call is shared by every coalesced waiter, so it must not die
		// with the first caller. refreshOnce still applies RefreshTimeout.
		return nil, c.refreshOnce(context.WithoutCancel(ctx))
	})
	if shared {
		c.metrics.Inc(MetricRefreshCoalesced)
	}
	return err
}

func (c *Client) refreshOnce(ctx context.Context) error {
	c.metrics.Inc(MetricRefreshAttempt)
	c.emitAudit(ctx, auditRefreshAttempt, nil, 0, "")

	rctx, cancel := context.WithTimeout(ctx, c.config.Recovery.RefreshTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodPost, c.config.BaseURL+c.config.Role.RefreshPath, nil)
	if err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.emitAudit(ctx, auditRefreshFailure, nil, 0, err.Error())
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.metrics.Inc(MetricRefreshFailure)
		c.emitAudit(ctx, auditRefreshFailure, nil, res.StatusCode, fmt.Sprintf("refresh status %d", res.StatusCode))
		return fmt.Errorf("%w: status %d", ErrRefreshFailed, res.StatusCode)
	}

	c.metrics.Inc(MetricRefreshSuccess)
	c.emitAudit(ctx, auditRefreshSuccess, nil, res.StatusCode, "")
	return nil
}

/*
====================================
FORCED LOGOUT
====================================
*/

// forceLogout tears down the role's session. The local clear is synchronous
// and unconditional; the server notify is best effort with a short timeout
// and never reverses the clear. The caller keeps the error that triggered
// the logout.
func (c *Client) forceLogout(ctx context.Context, rec *requestRecord) {
	role := c.config.Role.Name
	c.metrics.Inc(MetricForcedLogout)

	// Local clear first. A concurrent IsAuthenticated check must not see a
	// live session once recovery decided on logout. Persistence failures
	// only affect the advisory snapshot.
	if err := c.store.Logout(context.WithoutCancel(ctx), role); err != nil {
		log.Printf("sessionclient: session snapshot clear failed for role %s: %v", role, err)
	}
	c.emitAudit(ctx, auditForcedLogout, rec, 0, "")

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.Recovery.LogoutTimeout)
	defer cancel()

	err := c.notifyServerLogout(nctx)
	if err != nil {
		c.metrics.Inc(MetricLogoutNotifyFailed)
		c.emitAudit(ctx, auditLogoutNotifyFailed, rec, 0, err.Error())
		log.Printf("sessionclient: logout notify failed for role %s: %v", role, err)
	}
}

func (c *Client) notifyServerLogout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+c.config.Role.LogoutPath, nil)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("logout status %d", res.StatusCode)
	}
	return nil
}

/*
====================================
CONFLICT
====================================
*/

func (c *Client) notifyConflict(ctx context.Context, rec *requestRecord, apiErr *APIError) {
	message := apiErr.Message
	if message == "" {
		message = "a business conflict occurred"
	}

	c.notifier.Notify(ctx, message)
	c.metrics.Inc(MetricConflictNotified)

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: auditConflictNotified,
		Role:      c.config.Role.Name,
		RequestID: rec.requestID,
		Method:    rec.method,
		Path:      rec.path,
		Status:    apiErr.Status,
		Success:   true,
		Metadata:  map[string]string{"message": message},
	}
	c.audit.Emit(ctx, event)
}
