package risk

import (
	"errors"
	"fmt"
	"log/slog"

	"floodalert/internal/geo"
	"floodalert/internal/modules/risk/service"
	"floodalert/internal/modules/risk/types"
	"floodalert/internal/mqtt"
)

// LocationSubscriber is where device location reports come from.
type LocationSubscriber interface {
	SetLocationHandler(handler mqtt.LocationHandler)
}

// Publisher sends JSON payloads to the broker.
type Publisher interface {
	PublishJSON(topic string, v any, retained bool) error
	TopicPrefix() string
}

func DeviceRiskTopic(prefix, deviceID string) string {
	return fmt.Sprintf("%s/devices/%s/risk", prefix, deviceID)
}

// registerMQTTHandler records each report as the device's last fix and starts
// a check for it. A report arriving while the device's check is pending is
// recorded but starts nothing.
func registerMQTTHandler(sub LocationSubscriber, pub Publisher, fixes *geo.LastKnown, sessions *service.Sessions, logger *slog.Logger) {
	sub.SetLocationHandler(func(report mqtt.LocationReport) error {
		fix := geo.Fix{At: report.Timestamp, PermissionDenied: report.PermissionDenied}
		if report.Latitude != nil && report.Longitude != nil {
			fix.Coordinate = types.Coordinate{Latitude: *report.Latitude, Longitude: *report.Longitude}
		}
		fixes.Update(report.DeviceID, fix)

		checker, err := sessions.Get("mqtt:" + report.DeviceID)
		if err != nil {
			return err
		}

		topic := DeviceRiskTopic(pub.TopicPrefix(), report.DeviceID)
		err = checker.Start(fixes.For(report.DeviceID), func(a types.RiskAssessment) {
			if err := pub.PublishJSON(topic, a, true); err != nil {
				logger.Error("publish device risk failed", "device_id", report.DeviceID, "error", err)
				return
			}
			logger.Debug("published device risk", "device_id", report.DeviceID, "status", a.Status)
		})
		if errors.Is(err, service.ErrCheckInFlight) {
			logger.Info("location ignored, check pending", "device_id", report.DeviceID)
			return nil
		}
		return err
	})
}
