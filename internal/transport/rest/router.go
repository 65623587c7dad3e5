package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"riskscreen/internal/repository"
	"riskscreen/internal/service"
	"riskscreen/internal/transport/rest/handler"
	"riskscreen/internal/transport/rest/middleware"
	"riskscreen/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService   *service.AuthService
	SurveyService *service.SurveyService
	ReportService *service.ReportService
	Respondents   repository.RespondentRepo
	WSHub         *ws.Hub
	WebhookSecret string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// CORS for the operator dashboard (apply first)
	r.Use(corsMiddleware)

	authHandler := handler.NewAuthHandler(c.AuthService)
	webhookHandler := handler.NewWebhookHandler(c.SurveyService, c.ReportService, c.WebhookSecret)
	respondentHandler := handler.NewRespondentHandler(c.Respondents)
	reportHandler := handler.NewReportHandler(c.ReportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Webhook front door (guarded by shared secret, not JWT)
	v1.HandleFunc("/webhook/events", webhookHandler.Event).Methods("POST")
	v1.HandleFunc("/webhook/reports", webhookHandler.Report).Methods("POST")

	// Operator live feed (token in query param)
	v1.HandleFunc("/ws/operator", wsHandler.OperatorWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Operator routes (require operator auth)
	operatorRoutes := v1.NewRoute().Subrouter()
	operatorRoutes.Use(authMW.RequireOperator)

	operatorRoutes.HandleFunc("/respondents", respondentHandler.List).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/respondents/summary", respondentHandler.Summary).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/respondents/{respondentId}", respondentHandler.Get).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/reports", reportHandler.List).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/reports/{reportId}/reply", reportHandler.Reply).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Webhook-Secret")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
