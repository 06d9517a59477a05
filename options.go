package acure

// Option configures an Acure during creation.
//
// Example:
//
//	a := acure.New(
//	    acure.WithBackground(acure.White),
//	    acure.WithAlignMode(acure.CenterAligned),
//	)
type Option func(*options)

// options holds optional configuration for Acure creation.
type options struct {
	background Color
	align      AlignMode
	layout     LayoutMode
	capacity   int
}

// defaultOptions returns the default Acure options.
func defaultOptions() options {
	return options{
		background: Transparent,
		align:      Flex,
		layout:     NoCare,
		capacity:   64,
	}
}

// WithBackground sets the color each frame is cleared with.
func WithBackground(c Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithAlignMode sets the initial alignment mode.
func WithAlignMode(mode AlignMode) Option {
	return func(o *options) {
		o.align = mode
	}
}

// WithLayoutMode sets the initial layout mode.
func WithLayoutMode(mode LayoutMode) Option {
	return func(o *options) {
		o.layout = mode
	}
}

// WithCapacity preallocates room for n commands. Negative values are ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.capacity = n
		}
	}
}
