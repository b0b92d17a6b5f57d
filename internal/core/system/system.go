package system

import "context"

// System is the interface every scheduled system implements. Update runs one
// period of the system's own clock and must return promptly; it never blocks.
type System interface {
	Update(ctx context.Context, stepMs float64)
}

// Named is optionally implemented by systems that want a label in
// scheduler diagnostics.
type Named interface {
	Name() string
}

// Func adapts a plain function to System.
type Func func(ctx context.Context, stepMs float64)

func (f Func) Update(ctx context.Context, stepMs float64) { f(ctx, stepMs) }
