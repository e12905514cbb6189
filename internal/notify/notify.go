// Package notify shows short user-facing notices for the outcome of an
// operation.
package notify

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"fbrportal/internal/api"
	"fbrportal/internal/forms"
	"fbrportal/internal/logger"
)

// Notifier reports operation outcomes to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Console writes notices to a terminal stream and mirrors them to the log.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	log zerolog.Logger
}

// NewConsole creates a notifier writing to out, or stderr when out is nil.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stderr
	}
	return &Console{out: out, log: logger.WithComponent("notify")}
}

func (c *Console) write(prefix, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", prefix, msg)
}

func (c *Console) Success(msg string) {
	c.log.Debug().Str("kind", "success").Msg(msg)
	c.write("✓", msg)
}

func (c *Console) Error(msg string) {
	c.log.Debug().Str("kind", "error").Msg(msg)
	c.write("✗", msg)
}

func (c *Console) Info(msg string) {
	c.log.Debug().Str("kind", "info").Msg(msg)
	c.write("•", msg)
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
func (Discard) Info(string)    {}

// FromError turns err into the message the user sees. action completes
// "You are not authorized to ..." for 403 responses; field errors are listed
// as is. Anything else goes through api.ExtractMessage, with fallback used
// in place of the generic message when one is given.
func FromError(err error, action, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, api.ErrForbidden) && action != "" {
		return "You are not authorized to " + strings.TrimSuffix(action, ".")
	}
	var fe forms.FieldErrors
	if errors.As(err, &fe) {
		return fe.Error()
	}
	msg := api.ExtractMessage(err)
	if msg == api.GenericMessage && fallback != "" {
		var apiErr *api.Error
		if !errors.As(err, &apiErr) || apiErr.StatusCode < 500 {
			return fallback
		}
	}
	return msg
}
