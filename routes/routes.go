package routes

import (
	"net/http"

	"trolleyseal/handlers"

	"go.uber.org/zap"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") // Replace * with your domain in production
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func SetupRoutes(
	log *zap.Logger,
	authMiddleware func(http.Handler) http.Handler,
	userHandler *handlers.UserHandler,
	flightHandler *handlers.FlightHandler,
	sealHandler *handlers.SealHandler,
	reportHandler *handlers.ReportHandler,
	workflowHandler *handlers.WorkflowHandler,
	requestAccessHandler *handlers.RequestAccessHandler,
	eventsHandler *handlers.EventsHandler,
	healthHandler *handlers.HealthHandler,
) {
	open := func(h http.HandlerFunc) http.Handler {
		return withCORS(http.HandlerFunc(handlers.RecoverWrapper(log, h)))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return withCORS(authMiddleware(http.HandlerFunc(handlers.RecoverWrapper(log, h))))
	}

	// Public routes
	http.Handle("/health", open(healthHandler.Health))
	http.Handle("/signup", open(userHandler.Signup))
	http.Handle("/login", open(userHandler.Login))
	http.Handle("/api/request-access", open(requestAccessHandler.Request))

	// Flight routes
	http.Handle("/api/flights", protected(flightHandler.List))
	http.Handle("/api/flights/get", protected(flightHandler.Get))
	http.Handle("/api/flights/create", protected(flightHandler.Create))
	http.Handle("/api/flights/archive", protected(flightHandler.Archive))
	http.Handle("/api/flights/auxiliary", protected(flightHandler.UpdateAuxiliary))

	// Seal scan routes
	http.Handle("/api/seals", protected(sealHandler.List))
	http.Handle("/api/seals/add", protected(sealHandler.Add))
	http.Handle("/api/seals/remove", protected(sealHandler.Remove))

	// Report routes
	http.Handle("/api/reports/preview", protected(reportHandler.Preview))
	http.Handle("/api/reports/generate", protected(reportHandler.Generate))
	http.Handle("/api/reports/download", protected(reportHandler.Download))
	http.Handle("/api/reports/excel", protected(reportHandler.ExportExcel))

	// Workflow routes
	http.Handle("/api/workflow/state", protected(workflowHandler.State))
	http.Handle("/api/workflow/equipment", protected(workflowHandler.EquipmentCatalog))
	http.Handle("/api/workflow/select-flight", protected(workflowHandler.SelectFlight))
	http.Handle("/api/workflow/select-equipment", protected(workflowHandler.SelectEquipment))
	http.Handle("/api/workflow/preview", protected(workflowHandler.Preview))
	http.Handle("/api/workflow/back", protected(workflowHandler.Back))
	http.Handle("/api/workflow/reset", protected(workflowHandler.Reset))
	http.Handle("/api/workflow/archive/request", protected(workflowHandler.RequestArchive))
	http.Handle("/api/workflow/archive/confirm", protected(workflowHandler.ConfirmArchive))
	http.Handle("/api/workflow/archive/cancel", protected(workflowHandler.CancelArchive))

	// Change notification stream
	http.Handle("/api/events", protected(eventsHandler.Stream))
}
