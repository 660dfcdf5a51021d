package metadata

import (
	"github.com/sirupsen/logrus"

	apperrors "lsmeta/internal/errors"
)

// Chain asks each source in turn; the first non-empty comment wins.
type Chain struct {
	Sources []Source
	Log     logrus.FieldLogger
}

// NewChain builds a Chain over sources, skipping nil entries.
func NewChain(log logrus.FieldLogger, sources ...Source) *Chain {
	c := &Chain{Log: log}
	for _, s := range sources {
		if s != nil {
			c.Sources = append(c.Sources, s)
		}
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	return c
}

func (c *Chain) Comment(path string) (string, error) {
	for _, s := range c.Sources {
		comment, err := s.Comment(path)
		if err == nil && comment != "" {
			return comment, nil
		}
		if err != nil && !apperrors.IsNoMetadata(err) {
			c.Log.WithField("path", path).WithError(err).Debug("metadata source failed")
		}
	}
	return "", apperrors.ErrNoMetadata
}

// Lookup returns the comment for path, or "" when none is found.
func (c *Chain) Lookup(path string) string {
	comment, _ := c.Comment(path)
	return comment
}

// Reset drops cached state held by any source that keeps some.
func (c *Chain) Reset() {
	for _, s := range c.Sources {
		if r, ok := s.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
}
