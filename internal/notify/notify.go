package notify

import (
	"github.com/astroflux/astroflux/backend/internal/logger"
	"github.com/containrrr/shoutrrr"
)

// Notifier fans out operational alerts (lockouts, import exhaustion) to
// configured shoutrrr destinations. Sends are best-effort; a failed
// delivery is logged and never surfaces to the triggering request.
type Notifier struct {
	urls []string
}

func New(urls []string) *Notifier {
	return &Notifier{urls: urls}
}

// Alert sends title/message to every destination. A nil Notifier or an
// empty destination list is a no-op so call sites stay unconditional.
func (n *Notifier) Alert(title, message string) {
	if n == nil || len(n.urls) == 0 {
		return
	}
	for _, url := range n.urls {
		if err := shoutrrr.Send(url, title+": "+message); err != nil {
			logger.Log().WithError(err).Warn("failed to send alert notification")
		}
	}
}
