package notify

import (
	"fmt"

	"github.com/ClipFinance/netguard/common/types"
	"github.com/sirupsen/logrus"
)

// Notification is a user-facing message derived from a guard outcome.
type Notification struct {
	Level   logrus.Level
	Message string
	Outcome types.SwitchOutcome
	Address string
}

// Notifier surfaces notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// Build turns an outcome into the message shown to the user.
//
// Parameters:
// - outcome: the guard outcome.
// - target: the network the guard tried to move the wallet to.
// - address: the connected account.
//
// Returns:
// - Notification: the message with its severity.
func Build(outcome types.SwitchOutcome, target types.ChainDescriptor, address string) Notification {
	n := Notification{Outcome: outcome, Address: address}

	switch outcome.Kind {
	case types.Switched:
		n.Level = logrus.InfoLevel
		n.Message = fmt.Sprintf("Connected to %s.", target.Name)
	case types.AddedThenSwitched:
		n.Level = logrus.InfoLevel
		n.Message = fmt.Sprintf("%s was added to your wallet and selected.", target.Name)
	default:
		switch outcome.Reason {
		case types.ReasonNoProvider:
			n.Level = logrus.ErrorLevel
			n.Message = "No wallet extension detected. Install a Kaia-compatible wallet."
		case types.ReasonRejected:
			n.Level = logrus.WarnLevel
			n.Message = "Network switch was rejected in the wallet."
		default:
			n.Level = logrus.ErrorLevel
			n.Message = fmt.Sprintf("Could not switch network. Please switch to %s manually.", target.Name)
		}
	}
	return n
}

// LogNotifier writes notifications to a logrus logger.
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a notifier logging through logger.
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (l *LogNotifier) Notify(n Notification) {
	entry := l.logger.WithFields(logrus.Fields{
		"address": n.Address,
		"outcome": n.Outcome.String(),
	})
	if n.Outcome.Err != nil {
		entry = entry.WithError(n.Outcome.Err)
	}
	entry.Log(n.Level, n.Message)
}

// Func adapts a function to Notifier.
type Func func(n Notification)

// Notify implements Notifier.
func (f Func) Notify(n Notification) { f(n) }
