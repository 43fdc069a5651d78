// Package pages holds the view-models for the fetch-and-render pages that
// sit beside the messaging core: project listings, the blog feed, the
// alumni directory, and the read-only profile view. They follow the same
// single-threaded contract as the inbox: methods and Apply run on the
// owning loop, spawned tasks report back through the post callback.
package pages

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Event is a completed asynchronous result for one of the page models.
type Event interface{ isEvent() }

func ensureLogger(log *logrus.Logger) *logrus.Logger {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return log
}
