/*
File: helpers.go
Description: Domain logging helpers so request, heartbeat, and cache events
carry the same field names everywhere.
*/

package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// LogRequest records one completed API request.
func LogRequest(logger *logrus.Logger, op, method string, status int, duration time.Duration) {
	logger.WithFields(logrus.Fields{
		"op":       op,
		"method":   method,
		"status":   status,
		"duration": duration,
	}).Debug("Request completed")
}

// LogHeartbeat records one presence heartbeat send.
func LogHeartbeat(logger *logrus.Logger, titleID string, err error) {
	entry := logger.WithField("title_id", titleID)
	if err != nil {
		entry.Errorf("Heartbeat failed: %v", err)
		return
	}
	entry.Debug("Heartbeat sent")
}

// LogCacheEvent records a cache hit or miss.
func LogCacheEvent(logger *logrus.Logger, key string, hit bool) {
	logger.WithFields(logrus.Fields{
		"key": key,
		"hit": hit,
	}).Debug("Cache lookup")
}
