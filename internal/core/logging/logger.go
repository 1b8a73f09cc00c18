package logging

import "github.com/rs/zerolog"

// Component derives a logger tagged with a component name.
func Component(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("component", name).Logger()
}
