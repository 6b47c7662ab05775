package log

// Option transforms a logger configuration.
type Option func(config) config

// with returns a copy of the configuration with the given options applied
// in order.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}
