package watch

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"floodalert/internal/modules/risk"
	riskservice "floodalert/internal/modules/risk/service"
	"floodalert/internal/modules/watch/controller"
	"floodalert/internal/modules/watch/repository"
	"floodalert/internal/modules/watch/service"
	"floodalert/internal/modules/watch/types"
)

func PlaceRiskTopic(prefix string, placeID int64) string {
	return fmt.Sprintf("%s/places/%d/risk", prefix, placeID)
}

// MQTTNotifier publishes each change as the place's retained risk message.
func MQTTNotifier(pub risk.Publisher) service.ChangeNotifier {
	return service.NotifierFunc(func(_ context.Context, c types.Change) {
		topic := PlaceRiskTopic(pub.TopicPrefix(), c.Place.ID)
		if err := pub.PublishJSON(topic, c.Current, true); err != nil {
			slog.Warn("publish place risk failed", "place", c.Place.Name, "error", err)
		}
	})
}

func RegisterFeature(mux *http.ServeMux, db *sql.DB, assessor riskservice.Assessor, notifiers ...service.ChangeNotifier) *service.Watcher {
	watcher := service.NewWatcher(repository.NewRepository(db), assessor, notifiers...)
	controller.NewPlacesController(watcher).RegisterRoutes(mux)
	return watcher
}
