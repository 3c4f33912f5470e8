package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jdelarosa/tallerflow-backend/api/controllers"
	"github.com/jdelarosa/tallerflow-backend/api/middleware"
	"github.com/jdelarosa/tallerflow-backend/internal/notifications"
	"github.com/jdelarosa/tallerflow-backend/internal/orders"
	"github.com/jdelarosa/tallerflow-backend/pkg/config"
	"github.com/jdelarosa/tallerflow-backend/pkg/db"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
	"github.com/jdelarosa/tallerflow-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	ordersService orders.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(ordersService, logg))
			r.Get("/", controllers.ListActiveOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.GetOrder(ordersService, logg))
			r.Post("/{orderId}/transition", controllers.TransitionOrder(ordersService, logg))
			r.Post("/{orderId}/cancel", controllers.CancelOrder(ordersService, logg))
			r.With(middleware.RequireRole(enums.UserRoleCoordinator, logg)).
				Post("/{orderId}/assign", controllers.AssignOrder(ordersService, logg))
			r.Post("/{orderId}/priority", controllers.SetOrderPriority(ordersService, logg))
			r.Post("/{orderId}/quote", controllers.SetOrderQuote(ordersService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Get("/unread-count", controllers.CountUnreadNotifications(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
		})
	})

	return r
}
