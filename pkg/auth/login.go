/*
File: login.go
Description: Interactive Xbox sign-in. Drives a visible Chrome window to the
Xbox web sign-in page and sniffs the XBL3.0 authorization header off the
first authenticated request the page makes, which is the same token every
API operation needs.
*/

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// loginURL forces the Microsoft sign-in flow; once the account is signed in
// the page's own scripts start making authorized Xbox Live calls.
const loginURL = "https://www.xbox.com/play"

// tokenPrefix is the fixed scheme of an Xbox Live user authorization token:
// "XBL3.0 x=<userhash>;<token>".
const tokenPrefix = "XBL3.0 x="

// DefaultTimeout bounds how long the sign-in window stays open waiting for
// the user to finish.
const DefaultTimeout = 5 * time.Minute

// ValidateToken checks that raw has the XBL3.0 shape without verifying it
// against the service.
func ValidateToken(raw string) error {
	if !strings.HasPrefix(raw, tokenPrefix) {
		return fmt.Errorf("token must start with %q", tokenPrefix)
	}
	rest := strings.TrimPrefix(raw, tokenPrefix)
	hash, token, found := strings.Cut(rest, ";")
	if !found || hash == "" || token == "" {
		return fmt.Errorf("token must carry a user hash and token separated by a semicolon")
	}
	return nil
}

// Flow owns one interactive sign-in browser.
type Flow struct {
	logger  *logrus.Logger
	timeout time.Duration
}

// NewFlow builds a sign-in flow with the default timeout.
func NewFlow(logger *logrus.Logger) *Flow {
	return &Flow{logger: logger, timeout: DefaultTimeout}
}

// Login opens the sign-in window and blocks until a token is captured, the
// timeout passes, or ctx is cancelled.
func (f *Flow) Login(ctx context.Context) (string, error) {
	ctx, cancelTimeout := context.WithTimeout(ctx, f.timeout)
	defer cancelTimeout()

	// The window must be visible: the user types credentials into it.
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	tokens := make(chan string, 1)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		e, ok := ev.(*network.EventRequestWillBeSent)
		if !ok {
			return
		}
		if !strings.Contains(e.Request.URL, "xboxlive.com") {
			return
		}
		raw, ok := e.Request.Headers["Authorization"].(string)
		if !ok || ValidateToken(raw) != nil {
			return
		}
		select {
		case tokens <- raw:
		default:
		}
	})

	if err := chromedp.Run(browserCtx, network.Enable(), chromedp.Navigate(loginURL)); err != nil {
		return "", fmt.Errorf("failed to open sign-in window: %w", err)
	}
	f.logger.Info("Sign-in window opened; waiting for authentication")

	select {
	case token := <-tokens:
		f.logger.Info("Authorization token captured")
		return token, nil
	case <-ctx.Done():
		return "", fmt.Errorf("sign-in was not completed: %w", ctx.Err())
	}
}
