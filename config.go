package stockroom

import "github.com/sirupsen/logrus"

// Config holds global configuration for every World created afterwards.
var Config config = config{
	logger: logrus.StandardLogger(),
}

type config struct {
	logger logrus.FieldLogger
}

// SetLogger configures the logger worlds report through. A nil logger
// restores the logrus standard logger.
func (c *config) SetLogger(logger logrus.FieldLogger) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	c.logger = logger
}
