package watch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"nvcheck/internal/logging"
)

// Monitor listens for udev netlink events that indicate the NVIDIA driver
// state changed (module load/unload, device nodes appearing) and re-runs the
// configured checks. This removes the need for udev rules that invoke the
// CLI as root.
type Monitor struct {
	logger   *slog.Logger
	handler  func(ctx context.Context) error
	debounce time.Duration

	mu       sync.Mutex
	conn     *netlink.UEventConn
	quit     chan struct{}
	running  bool
	lastFire time.Time
}

const defaultDebounce = 2 * time.Second

// NewMonitor creates a monitor that invokes handler whenever driver state
// changes. A nil handler returns a nil monitor.
func NewMonitor(logger *slog.Logger, handler func(ctx context.Context) error) *Monitor {
	if handler == nil {
		return nil
	}
	return &Monitor{
		logger:   logging.NewComponentLogger(logger, "watch"),
		handler:  handler,
		debounce: defaultDebounce,
	}
}

// Start begins listening for udev netlink events.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; driver changes will not trigger re-checks",
			logging.Error(err),
		)
		return nil // Non-fatal, checks can still be run manually
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	// Pass quit channel to goroutine to avoid reading m.quit without lock
	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("driver watch started")
	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}

	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}

	m.running = false
	m.logger.Info("driver watch stopped")
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	matcher := m.buildMatcher()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, matcher)

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// buildMatcher accepts add/change/remove events for the nvidia kernel module
// and its device nodes. The coarse match is refined in relevantEvent.
func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add|change|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "module",
		},
	})
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"DEVNAME": "/dev/nvidia.*",
		},
	})
	return rules
}

// relevantEvent reports whether the uevent concerns the NVIDIA driver.
func (m *Monitor) relevantEvent(uevent netlink.UEvent) bool {
	if devname := uevent.Env["DEVNAME"]; strings.HasPrefix(devname, "/dev/nvidia") {
		return true
	}
	if uevent.Env["SUBSYSTEM"] == "module" && strings.Contains(uevent.KObj, "/module/nvidia") {
		return true
	}
	return false
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	if !m.relevantEvent(uevent) {
		m.logger.Debug("ignoring unrelated event",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	// Module load fans out into a burst of device-node events; collapse
	// the burst into one re-check.
	m.mu.Lock()
	if time.Since(m.lastFire) < m.debounce {
		m.mu.Unlock()
		m.logger.Debug("suppressing re-check within debounce window",
			logging.String("kobj", uevent.KObj),
		)
		return
	}
	m.lastFire = time.Now()
	m.mu.Unlock()

	m.logger.Info("driver state change detected",
		logging.String("action", string(uevent.Action)),
		logging.String("kobj", uevent.KObj),
	)

	if err := m.handler(ctx); err != nil {
		m.logger.Warn("re-check after driver event failed", logging.Error(err))
	}
}
