package utils

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorHandler logs err with message and any extra fields, then returns err
// wrapped with message. A nil err yields nil.
func ErrorHandler(err error, message string, fields ...logrus.Fields) error {
	if err == nil {
		return nil
	}

	entry := Logger.WithField("error", err.Error())
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	entry.Error(message)
	return fmt.Errorf("%s: %w", message, err)
}
