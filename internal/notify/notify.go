// Package notify provides cross-platform desktop notifications.
// It uses github.com/gen2brain/beeep for cross-platform notification support.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/utildesk/utildesk/internal/logging"
)

const appTitle = "UtilDesk"

// Notifier handles desktop notifications.
type Notifier struct {
	logger  *logging.Logger
	enabled bool
	mu      sync.RWMutex
}

// NewNotifier creates a notifier. logger may be nil.
func NewNotifier(enabled bool, logger *logging.Logger) *Notifier {
	return &Notifier{logger: logger, enabled: enabled}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// TimerDone announces a finished countdown with a prominent alert plus
// an audible beep.
func (n *Notifier) TimerDone(label string, elapsed time.Duration) {
	if !n.IsEnabled() {
		return
	}

	message := fmt.Sprintf("Timer \"%s\" concluído (%s).", truncate(label, 40), formatDuration(elapsed))
	if err := beeep.Alert(appTitle, message, ""); err != nil {
		if err := n.send(appTitle, message); err != nil {
			n.warn(err, "Failed to send timer notification")
		}
	}
	_ = beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}

// CopyFinished announces a completed drag-and-drop ingestion.
func (n *Notifier) CopyFinished(copied, failed int) {
	if !n.IsEnabled() {
		return
	}

	message := fmt.Sprintf("Cópia concluída: %d item(ns).", copied)
	if failed > 0 {
		message = fmt.Sprintf("Cópia concluída: %d item(ns), %d falha(s).", copied, failed)
	}
	if err := n.send(appTitle, message); err != nil {
		n.warn(err, "Failed to send copy notification")
	}
}

// Info sends a plain informational notification.
func (n *Notifier) Info(message string) {
	if !n.IsEnabled() {
		return
	}
	if err := n.send(appTitle, message); err != nil {
		n.warn(err, "Failed to send notification")
	}
}

// send is the internal method that actually sends the notification.
func (n *Notifier) send(title, message string) error {
	// beeep.Notify is cross-platform:
	// - Windows: Uses toast notifications
	// - macOS: Uses NSUserNotificationCenter
	// - Linux: Uses D-Bus notifications
	return beeep.Notify(title, message, "")
}

func (n *Notifier) warn(err error, msg string) {
	if n.logger != nil {
		n.logger.Warn().Err(err).Msg(msg)
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatDuration renders a duration as mm:ss or hh:mm:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
