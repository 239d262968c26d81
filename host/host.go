// Package host runs chrome over the devtools protocol with the startup guards
// installed and every outbound request passed through the request filter.
package host

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	uuid "github.com/satori/go.uuid"
	"github.com/wirepair/gcd"
	"gitlab.com/schemeguard/guardk"
	"gitlab.com/schemeguard/guards"
)

// TargetKind says how a devtools target gets guarded
type TargetKind int8

const (
	// Unguarded targets issue no requests of their own (browser, other)
	Unguarded TargetKind = iota + 1
	// PageTarget gets the startup guards and the request filter
	PageTarget
	// WorkerTarget has no page domain, it only gets the request filter
	WorkerTarget
)

// KindOf a devtools target type
func KindOf(targetType string) TargetKind {
	switch targetType {
	case "page", "background_page", "app", "webview", "iframe":
		return PageTarget
	case "service_worker", "shared_worker", "worker":
		return WorkerTarget
	}
	return Unguarded
}

// Host owns a single guarded browser and every target it opens
type Host struct {
	cfg       *guardk.Config
	leaser    LeaserService
	chain     *guardk.Chain
	guards    []guardk.Guard
	sessionID string
	logger    zerolog.Logger

	mu      sync.Mutex
	port    string
	browser *gcd.Gcd
	tab     *Tab                // the tab we opened, its crash ends the session
	tabs    []*Tab              // every guarded target, tab included
	known   map[string]struct{} // target ids already seen
}

// New host. Guards are installed in order during Start, before the chain is registered.
func New(cfg *guardk.Config, leaser LeaserService, chain *guardk.Chain, startup []guardk.Guard) *Host {
	cfg.SetDefaults()
	id := uuid.NewV4().String()
	return &Host{
		cfg:       cfg,
		leaser:    leaser,
		chain:     chain,
		guards:    startup,
		sessionID: id,
		logger:    log.With().Str("session", id).Logger(),
	}
}

// SessionID used in logs
func (h *Host) SessionID() string {
	return h.sessionID
}

// APITimeout for devtools calls
func (h *Host) APITimeout() time.Duration {
	return time.Duration(h.cfg.APITimeout) * time.Second
}

// Start chrome, install the guards, register the filter then load the start url.
// With an app folder the nwjs window is guarded and reloaded instead of opening
// a tab. Targets chrome already has or opens later are guarded the same way.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	port, err := h.leaser.Acquire()
	if err != nil {
		return errors.Wrap(err, "unable to acquire browser")
	}
	h.port = port
	h.known = make(map[string]struct{})
	h.logger.Info().Str("port", port).Msg("browser started")

	h.browser = gcd.NewChromeDebugger()
	h.browser.SetTimeout(h.APITimeout())
	if err := h.browser.ConnectToInstance("localhost", port); err != nil {
		h.release()
		return errors.Wrap(err, "failed to connect to instance")
	}

	target, err := h.mainTarget(ctx)
	if err != nil {
		h.release()
		return err
	}

	tab, err := h.guardTarget(target, PageTarget)
	if err != nil {
		h.release()
		return err
	}
	h.tab = tab
	h.tab.SetNavigationTimeout(time.Duration(h.cfg.NavigationTimeout) * time.Second)

	if err := h.tab.DiscoverTargets(h.targetCreated); err != nil {
		h.release()
		return err
	}
	// the about:blank window chrome starts with, or the nwjs app window
	if err := h.attachNewTargets(); err != nil {
		h.logger.Warn().Err(err).Msg("failed to attach existing targets")
	}

	if h.cfg.AppDir != "" {
		// the app window loaded before the guards were installed
		h.logger.Info().Str("app", h.cfg.AppDir).Msg("reloading app window")
		if err := h.tab.Reload(ctx); err != nil {
			h.release()
			return errors.Wrap(err, "failed to reload app window")
		}
	}

	if h.cfg.StartURL != "" {
		h.logger.Info().Str("url", h.cfg.StartURL).Msg("loading start url")
		if err := h.tab.Navigate(ctx, h.cfg.StartURL); err != nil {
			h.release()
			return errors.Wrap(err, "failed to load start url")
		}
	}
	return nil
}

// mainTarget is the nwjs app window when running an app, a new tab otherwise
func (h *Host) mainTarget(ctx context.Context) (*gcd.ChromeTarget, error) {
	if h.cfg.AppDir == "" {
		target, err := h.browser.NewTab()
		if err != nil {
			return nil, errors.Wrap(err, "failed to open tab")
		}
		return target, nil
	}

	deadline := time.Now().Add(time.Duration(h.cfg.NavigationTimeout) * time.Second)
	for {
		target, err := h.browser.GetFirstTab()
		if err == nil {
			return target, nil
		}
		if err != gcd.ErrNoTabAvailable || time.Now().After(deadline) {
			return nil, errors.Wrap(err, "failed to find app window")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// guardTarget installs the guards (pages only) then registers the filter.
// Must be called with mu held.
func (h *Host) guardTarget(target *gcd.ChromeTarget, kind TargetKind) (*Tab, error) {
	tab := NewTab(target, h.logger)
	if id := tab.ID(); id != "" {
		tab.logger = h.logger.With().Str("target", id).Logger()
	}
	h.known[tab.ID()] = struct{}{}

	if kind == PageTarget {
		if err := tab.Enable(); err != nil {
			tab.Close()
			return nil, err
		}
		if err := guards.InstallAll(tab, h.guards); err != nil {
			tab.Close()
			return nil, err
		}
	}

	if err := tab.RegisterFilter(h.chain); err != nil {
		tab.Close()
		return nil, err
	}
	h.tabs = append(h.tabs, tab)
	return tab, nil
}

func (h *Host) targetCreated(targetID, targetType string) {
	if KindOf(targetType) == Unguarded {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.browser == nil {
		return
	}
	if _, ok := h.known[targetID]; ok {
		return
	}
	if err := h.attachNewTargets(); err != nil {
		h.logger.Warn().Err(err).Str("target", targetID).Msg("failed to attach new target")
	}
}

// attachNewTargets guards every target chrome lists that we have not seen.
// Must be called with mu held.
func (h *Host) attachNewTargets() error {
	targets, err := h.browser.GetNewTargets(h.known)
	if err != nil {
		return errors.Wrap(err, "failed to list targets")
	}

	for _, target := range targets {
		kind := KindOf(target.Target.Type)
		if kind == Unguarded {
			h.known[target.Target.Id] = struct{}{}
			continue
		}

		tab, err := h.guardTarget(target, kind)
		if err != nil {
			h.logger.Error().Err(err).Str("target", target.Target.Id).Str("type", target.Target.Type).Msg("failed to guard target")
			continue
		}
		tab.SetDisconnectedHandler(func(t *Tab, reason string) {
			t.logger.Debug().Str("reason", reason).Msg("target went away")
			t.Close()
		})
		h.logger.Info().Str("target", tab.ID()).Str("type", target.Target.Type).Msg("guarding new target")
	}
	return nil
}

// Wait until the context is done or the tab goes away
func (h *Host) Wait(ctx context.Context) error {
	h.mu.Lock()
	tab := h.tab
	h.mu.Unlock()
	if tab == nil {
		return ErrNotStarted
	}

	select {
	case <-ctx.Done():
		return nil
	case reason := <-tab.Crashed():
		return errors.Wrap(ErrTabCrashed, reason)
	}
}

// Targets currently guarded
func (h *Host) Targets() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.tabs)
}

// Stats of the current session summed over every guarded target
func (h *Host) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats()
}

func (h *Host) stats() Stats {
	total := Stats{}
	for _, tab := range h.tabs {
		total = total.Add(tab.Stats())
	}
	return total
}

// Stop the browser and log what the filter did
func (h *Host) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.port == "" {
		return nil
	}
	stats := h.stats()
	h.logger.Info().Int("targets", len(h.tabs)).Int64("allowed", stats.Allowed).Int64("denied", stats.Denied).Int64("errors", stats.Errors).Msg("stopping guard")
	return h.release()
}

// release must be called with mu held
func (h *Host) release() error {
	for _, tab := range h.tabs {
		tab.Close()
	}
	port := h.port
	h.tab = nil
	h.tabs = nil
	h.browser = nil
	h.port = ""
	if port == "" {
		return nil
	}

	err := h.leaser.Return(port)
	if _, cerr := h.leaser.Cleanup(); cerr != nil {
		h.logger.Warn().Err(cerr).Msg("failed to clean up profiles")
	}
	return err
}
