package failure

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Classifier maps raw failures to typed errors using an ordered pattern table
type Classifier struct {
	patterns []Pattern
	logger   *zap.Logger
}

// ClassifierOption is a functional option for configuring the classifier
type ClassifierOption func(*Classifier)

// WithPatterns replaces the pattern table
func WithPatterns(patterns ...Pattern) ClassifierOption {
	return func(c *Classifier) {
		c.patterns = append([]Pattern(nil), patterns...)
	}
}

// WithLogger sets the logger for the classifier
func WithLogger(logger *zap.Logger) ClassifierOption {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// NewClassifier creates a classifier over the default pattern table
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		patterns: DefaultPatterns(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// highest priority first; equal priorities keep table order
	sort.SliceStable(c.patterns, func(i, j int) bool {
		return c.patterns[i].Priority > c.patterns[j].Priority
	})
	return c
}

// Patterns returns the table in evaluation order
func (c *Classifier) Patterns() []Pattern {
	return append([]Pattern(nil), c.patterns...)
}

// Classify converts raw into a typed error stamped with layer (service when empty).
// Errors that are already typed keep their type and correlation ID and are only restamped.
func (c *Classifier) Classify(raw error, ctx Context, layer Layer) Error {
	if raw == nil {
		return nil
	}
	if layer == "" {
		layer = LayerService
	}
	if typed, ok := As(raw); ok {
		return typed.WithLayer(layer)
	}

	message := raw.Error()
	merged := ctx.Merge(ExtractContext(message))
	lower := strings.ToLower(message)

	for _, p := range c.patterns {
		if p.Matcher == nil || !p.Matcher.MatchString(lower) {
			continue
		}
		typed, err := c.invoke(p, raw, merged)
		if err != nil {
			c.logger.Warn("Error pattern factory failed, trying next pattern",
				zap.String("pattern", p.Name),
				zap.Error(err))
			continue
		}
		return typed.WithLayer(layer)
	}

	return NewGeneric(message, raw).WithLayer(layer)
}

// invoke runs a factory, turning a panic or nil result into an error
func (c *Classifier) invoke(p Pattern, raw error, ctx Context) (typed Error, err error) {
	defer func() {
		if r := recover(); r != nil {
			typed = nil
			err = fmt.Errorf("pattern %q panicked: %v", p.Name, r)
		}
	}()
	if p.Factory == nil {
		return nil, fmt.Errorf("pattern %q has no factory", p.Name)
	}
	typed, err = p.Factory(raw, ctx)
	if err == nil && typed == nil {
		err = fmt.Errorf("pattern %q produced no error", p.Name)
	}
	return typed, err
}
