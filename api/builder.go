package api

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	backends []Backend
}

// WithBackend adds a backend to the driver.
func (b DriverBuilder) WithBackend(backend Backend) DriverBuilder {
	b.backends = append(append([]Backend(nil), b.backends...), backend)
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build() Driver {
	d := &driverImpl{
		names: make(map[string]bool),
	}

	for _, backend := range b.backends {
		d.RegisterBackend(backend)
	}

	return d
}
