package debugger

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugPrintEvent logs an outgoing stream event at debug level. The payload
// is only marshalled when debug logging is enabled.
func DebugPrintEvent(logger *zap.Logger, event string, payload any) {
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Failed to encode debug event", zap.String("event", event), zap.Error(err))
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		logger.Debug("Debug event data", zap.String("event", event), zap.ByteString("data", raw))
		return
	}
	logger.Debug("Debug event data", zap.String("event", event), zap.String("data", pretty.String()))
}
