/*
File: controller.go
Description: Presence spoofing session controller. Owns the lifecycle of one
spoofing session: validates the target title, sends an immediate heartbeat,
then keeps the presence record alive on a fixed cadence until stopped or a
heartbeat fails.
*/

package spoof

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xau-tools/xau/pkg/logging"
	"github.com/xau-tools/xau/pkg/xbl"
)

// heartbeatInterval is the resend cadence. Heartbeats expire server-side
// after 600 seconds, so 300 keeps a comfortable margin.
const heartbeatInterval = 300 * time.Second

// State is the lifecycle phase of a spoofing session.
type State int

const (
	// StateIdle means no session has been started.
	StateIdle State = iota
	// StateValidating means the target title is being looked up.
	StateValidating
	// StateActive means heartbeats are being sent on cadence.
	StateActive
	// StateStopped means the user ended the session and presence was
	// cleared.
	StateStopped
	// StateFailed means a heartbeat failed and the session tore down.
	StateFailed
)

// String renders the state for logs and status displays.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Target describes the validated title a session is spoofing.
type Target struct {
	Info          xbl.TitleInfo
	MinutesPlayed string
}

// Controller runs at most one spoofing session at a time. All methods are
// safe for concurrent use.
type Controller struct {
	session *xbl.Session
	logger  *logrus.Logger

	// interval is the heartbeat cadence, overridable in tests.
	interval time.Duration

	mu        sync.Mutex
	state     State
	target    Target
	startedAt time.Time
	lastErr   error
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewController builds an idle controller on top of the shared session.
func NewController(session *xbl.Session, logger *logrus.Logger) *Controller {
	return &Controller{
		session:  session,
		logger:   logger,
		interval: heartbeatInterval,
		state:    StateIdle,
	}
}

// Start validates titleID, sends the first heartbeat immediately, and
// begins the resend loop. It returns the validated target on success. A
// second Start while a session is active is rejected.
func (c *Controller) Start(ctx context.Context, xuid, titleID, userAgent string) (Target, error) {
	c.mu.Lock()
	if c.state == StateActive || c.state == StateValidating {
		c.mu.Unlock()
		return Target{}, &xbl.StateError{Reason: "a spoofing session is already running"}
	}
	c.state = StateValidating
	c.lastErr = nil
	c.mu.Unlock()

	// A rejected target returns the controller to idle; only a failed
	// heartbeat marks the session as failed.
	info, err := c.session.TitleBatch(ctx, xuid, titleID)
	if err != nil {
		c.setState(StateIdle, err)
		return Target{}, err
	}

	target := Target{Info: info, MinutesPlayed: "0"}
	if minutes, err := c.session.MinutesPlayed(ctx, xuid, titleID); err == nil {
		target.MinutesPlayed = minutes
	} else {
		// Display data only; the session proceeds without it.
		c.logger.WithField("title_id", titleID).Warnf("Time played lookup failed: %v", err)
	}

	// First heartbeat is synchronous so the caller learns immediately
	// whether the session actually came up.
	if err := c.session.SendHeartbeat(ctx, xuid, titleID, userAgent); err != nil {
		c.setState(StateFailed, err)
		return Target{}, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	c.state = StateActive
	c.target = target
	c.startedAt = time.Now()
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"title":    info.Name,
		"title_id": info.TitleID,
	}).Info("Spoofing session started")

	go c.loop(loopCtx, done, xuid, titleID, userAgent)
	return target, nil
}

// loop resends the heartbeat on cadence until cancelled or a send fails.
// There is no retry: a single failure ends the session.
func (c *Controller) loop(ctx context.Context, done chan struct{}, xuid, titleID, userAgent string) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := c.session.SendHeartbeat(ctx, xuid, titleID, userAgent)
			if err != nil && ctx.Err() != nil {
				return
			}
			logging.LogHeartbeat(c.logger, titleID, err)
			if err != nil {
				c.setState(StateFailed, err)
				return
			}
		}
	}
}

// Stop ends an active session and clears the presence record. The clear is
// best effort: its failure is logged and otherwise ignored, since the
// record expires on its own within ten minutes.
func (c *Controller) Stop(ctx context.Context, xuid string) {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done

	c.mu.Lock()
	// A heartbeat may have failed between the state check and the cancel.
	if c.state == StateActive {
		c.state = StateStopped
	}
	c.mu.Unlock()

	if err := c.session.ClearPresence(ctx, xuid); err != nil {
		c.logger.Warnf("Presence clear failed: %v", err)
	}
	c.logger.Info("Spoofing session stopped")
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that failed the session, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Target returns the validated target of the current or last session.
func (c *Controller) Target() Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Elapsed reports how long the current session has been active. The value
// derives from the start time, so a stalled heartbeat does not freeze it.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return 0
	}
	return time.Since(c.startedAt)
}

// Done exposes the loop's completion channel for callers that want to wait
// on teardown or failure. Nil until a session has started.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Controller) setState(state State, err error) {
	c.mu.Lock()
	c.state = state
	c.lastErr = err
	c.mu.Unlock()
}
