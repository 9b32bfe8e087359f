package framework

import "context"

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for long-lived loops.
type Runnable interface {
	Run(context.Context) error
}
