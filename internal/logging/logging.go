package logging

import "go.uber.org/zap"

// New builds the process-wide structured logger. Development mode switches
// to human-readable console output.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
