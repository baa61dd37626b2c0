package app

import (
	"net/http"
	"time"

	"skylens/mediascope/internal/handler"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Server struct {
	router *mux.Router
}

func NewServer(analyzeHandler *handler.AnalyzeHandler, projectHandler *handler.ProjectHandler, userHandler *handler.UserHandler, systemHandler *handler.SystemHandler) *Server {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	analyzeHandler.RegisterRoutes(api)
	projectHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	systemHandler.RegisterRoutes(api)

	swaggerHandler := httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	)
	router.PathPrefix("/swagger/").Handler(swaggerHandler)

	router.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	return &Server{router: router}
}

func (s *Server) Run(port string, log *zap.SugaredLogger) {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)

	srv := &http.Server{
		Handler: cors(s.router),
		Addr:    ":" + port,
		// Uploads are large; give writes more headroom than reads.
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  30 * time.Second,
	}

	log.Infow("server starting", "port", port)
	log.Fatal(srv.ListenAndServe())
}
