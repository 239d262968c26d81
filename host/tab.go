package host

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/wirepair/gcd"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/schemeguard/guardk"
)

// Tab is a chromium browser tab we guard
type Tab struct {
	t                   *gcd.ChromeTarget
	interceptor         *Interceptor
	logger              zerolog.Logger
	navigationCh        chan struct{}          // Page.loadEventFired while navigating
	crashedCh           chan string            // the chrome tab crashed with a reason
	exitCh              chan struct{}          // for when we close the tab, kill go routines
	shutdown            int32                  // have we already shut down
	navigationTimeout   time.Duration          // amount of time to wait before failing navigation
	disconnectedHandler TabDisconnectedHandler // called with reason the chrome tab was disconnected from the debugger service
}

// NewTab to use
func NewTab(target *gcd.ChromeTarget, logger zerolog.Logger) *Tab {
	t := &Tab{
		t:                 target,
		logger:            logger,
		navigationCh:      make(chan struct{}, 1),
		crashedCh:         make(chan string, 1),
		exitCh:            make(chan struct{}),
		navigationTimeout: 30 * time.Second,
	}
	t.disconnectedHandler = t.defaultDisconnectedHandler
	return t
}

// SetDisconnectedHandler so caller can trap when the debugger was disconnected/crashed.
func (t *Tab) SetDisconnectedHandler(handlerFn TabDisconnectedHandler) {
	t.disconnectedHandler = handlerFn
}

// SetNavigationTimeout to wait for navigations before giving up, default is 30 seconds
func (t *Tab) SetNavigationTimeout(timeout time.Duration) {
	t.navigationTimeout = timeout
}

func (t *Tab) defaultDisconnectedHandler(tab *Tab, reason string) {
	t.logger.Warn().Str("reason", reason).Msg("tab disconnected")
}

// Enable the page and inspector domains and watch for crashes
func (t *Tab) Enable() error {
	if _, err := t.t.Page.Enable(); err != nil {
		return errors.Wrap(err, "failed to enable page domain")
	}
	if _, err := t.t.Inspector.Enable(); err != nil {
		return errors.Wrap(err, "failed to enable inspector domain")
	}

	t.t.Subscribe("Inspector.targetCrashed", func(target *gcd.ChromeTarget, payload []byte) {
		t.disconnected("crashed")
	})

	t.t.Subscribe("Inspector.detached", func(target *gcd.ChromeTarget, payload []byte) {
		header := &gcdapi.InspectorDetachedEvent{}
		reason := "detached"
		if err := json.Unmarshal(payload, header); err == nil && header.Params.Reason != "" {
			reason = header.Params.Reason
		}
		t.disconnected(reason)
	})

	t.t.Subscribe("Page.loadEventFired", func(target *gcd.ChromeTarget, payload []byte) {
		select {
		case t.navigationCh <- struct{}{}:
		default:
		}
	})
	return nil
}

func (t *Tab) disconnected(reason string) {
	t.disconnectedHandler(t, reason)
	select {
	case t.crashedCh <- reason:
	case <-t.exitCh:
	default:
	}
}

// AddScript to evaluate in every new document before page scripts run
func (t *Tab) AddScript(source string) (string, error) {
	params := &gcdapi.PageAddScriptToEvaluateOnNewDocumentParams{Source: source}
	return t.t.Page.AddScriptToEvaluateOnNewDocumentWithParams(params)
}

// RegisterFilter pauses every request at the request stage and hands it to the chain.
// Chrome holds each request until we continue or fail it.
func (t *Tab) RegisterFilter(chain *guardk.Chain) error {
	t.interceptor = NewInterceptor(chain, &fetchResolver{fetch: t.t.Fetch}, t.logger)

	t.t.Subscribe("Fetch.requestPaused", func(target *gcd.ChromeTarget, payload []byte) {
		t.interceptor.HandlePaused(payload)
	})

	params := &gcdapi.FetchEnableParams{
		Patterns: []*gcdapi.FetchRequestPattern{
			{UrlPattern: "*", RequestStage: "Request"},
		},
	}
	if _, err := t.t.Fetch.EnableWithParams(params); err != nil {
		return errors.Wrap(err, "failed to enable request interception")
	}
	t.logger.Info().Int("handlers", chain.Len()).Msg("request filter registered")
	return nil
}

// DiscoverTargets calls created, in its own go routine, whenever chrome
// announces a new target (popups, workers, new windows).
func (t *Tab) DiscoverTargets(created func(targetID, targetType string)) error {
	t.t.Subscribe("Target.targetCreated", func(target *gcd.ChromeTarget, payload []byte) {
		message := &gcdapi.TargetTargetCreatedEvent{}
		if err := json.Unmarshal(payload, message); err != nil || message.Params.TargetInfo == nil {
			t.logger.Warn().Err(err).Msg("unable to decode Target.targetCreated")
			return
		}
		info := message.Params.TargetInfo
		go created(info.TargetId, info.Type)
	})

	if _, err := t.t.TargetApi.SetDiscoverTargets(true); err != nil {
		return errors.Wrap(err, "failed to enable target discovery")
	}
	return nil
}

// ID of the devtools target
func (t *Tab) ID() string {
	if t.t.Target == nil {
		return ""
	}
	return t.t.Target.Id
}

// Navigate and wait for the load event
func (t *Tab) Navigate(ctx context.Context, url string) error {
	t.drainLoad()
	navParams := &gcdapi.PageNavigateParams{Url: url, TransitionType: "typed"}
	_, _, errText, err := t.t.Page.NavigateWithParams(navParams)
	if err != nil {
		return err
	}

	if errText != "" {
		return errors.Wrap(ErrNavigating, errText)
	}
	return t.waitLoad(ctx)
}

// Reload the current document bypassing the cache so it runs under the
// scripts and filter installed after it was first loaded
func (t *Tab) Reload(ctx context.Context) error {
	t.drainLoad()
	if _, err := t.t.Page.Reload(true, ""); err != nil {
		return errors.Wrap(err, "failed to reload")
	}
	return t.waitLoad(ctx)
}

func (t *Tab) drainLoad() {
	select {
	case <-t.navigationCh:
	default:
	}
}

func (t *Tab) waitLoad(ctx context.Context) error {
	navTimer := time.NewTimer(t.navigationTimeout)
	defer navTimer.Stop()

	select {
	case <-navTimer.C:
		return ErrNavigationTimedOut
	case <-ctx.Done():
		return ctx.Err()
	case <-t.exitCh:
		return ErrTabClosing
	case reason := <-t.crashedCh:
		return errors.Wrap(ErrTabCrashed, reason)
	case <-t.navigationCh:
	}
	return nil
}

// Crashed returns a channel that receives the reason the tab went away
func (t *Tab) Crashed() <-chan string {
	return t.crashedCh
}

// Stats of the request filter, zero until RegisterFilter is called
func (t *Tab) Stats() Stats {
	if t.interceptor == nil {
		return Stats{}
	}
	return t.interceptor.Stats()
}

// Close the exit channel
func (t *Tab) Close() {
	if atomic.CompareAndSwapInt32(&t.shutdown, 0, 1) {
		close(t.exitCh)
	}
}
