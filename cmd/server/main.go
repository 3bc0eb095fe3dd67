// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/voicebridge/voicebridge-backend/internal/auth"
	"github.com/voicebridge/voicebridge-backend/internal/config"
	"github.com/voicebridge/voicebridge-backend/internal/db"
	"github.com/voicebridge/voicebridge-backend/internal/external"
	"github.com/voicebridge/voicebridge-backend/internal/handler"
	"github.com/voicebridge/voicebridge-backend/internal/queue"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	db.Init(cfg)

	// Repositories
	orgRepo := &repository.OrganizationRepository{DB: db.DB}
	userRepo := &repository.UserRepository{DB: db.DB}
	roleRepo := &repository.RoleRepository{DB: db.DB}
	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	userCampaignRepo := &repository.UserCampaignRepository{DB: db.DB}
	callRepo := &repository.CallRepository{DB: db.DB}

	platform := external.NewClient(cfg.External.BaseURL, cfg.External.Username, cfg.External.Password,
		&http.Client{Timeout: cfg.External.Timeout})

	// Dispatch queue: RabbitMQ when configured, in-process otherwise.
	var q queue.Queue
	amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL)
	if err != nil {
		log.Println("⚠️ RabbitMQ unavailable, dispatching calls in-process:", err)
		memQueue := queue.NewInMemoryQueue()
		service.StartDispatchSubscriber(memQueue, &service.CallDispatcher{
			CallRepo: callRepo,
			External: platform,
		})
		q = memQueue
	} else {
		q = amqpQueue
	}

	// Services
	campaignService := &service.CampaignService{
		CampaignRepo:     campaignRepo,
		UserCampaignRepo: userCampaignRepo,
		External:         platform,
	}
	userCampaignService := &service.UserCampaignService{
		UserCampaignRepo: userCampaignRepo,
		UserRepo:         userRepo,
		CampaignRepo:     campaignRepo,
	}
	orgService := &service.OrganizationService{OrgRepo: orgRepo}
	roleService := &service.RoleService{RoleRepo: roleRepo}
	userService := &service.UserService{UserRepo: userRepo, RoleRepo: roleRepo}
	callService := &service.CallService{
		CampaignRepo: campaignRepo,
		CallRepo:     callRepo,
		External:     platform,
		Queue:        q,
	}

	// Handlers
	campaignHandler := &handler.CampaignHandler{Service: campaignService}
	orgHandler := &handler.OrganizationHandler{Service: orgService}
	roleHandler := &handler.RoleHandler{Service: roleService}
	userHandler := &handler.UserHandler{Service: userService}
	userCampaignHandler := &handler.UserCampaignHandler{Service: userCampaignService}
	callHandler := &handler.CallHandler{Service: callService}

	authMiddleware := &auth.Middleware{Secret: cfg.JWTSecret, UserRepo: userRepo}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireUser)

		// Campaign routes
		r.Post("/campaigns", campaignHandler.CreateCampaign)
		r.Get("/campaigns", campaignHandler.ListCampaigns)
		r.Get("/campaigns/{id}", campaignHandler.GetCampaign)
		r.Put("/campaigns/{id}", campaignHandler.UpdateCampaign)
		r.Delete("/campaigns/{id}", campaignHandler.DeleteCampaign)

		// Organization routes
		r.Post("/organizations", orgHandler.CreateOrganization)
		r.Get("/organizations", orgHandler.ListOrganizations)
		r.Get("/organizations/{id}", orgHandler.GetOrganization)
		r.Put("/organizations/{id}", orgHandler.UpdateOrganization)
		r.Delete("/organizations/{id}", orgHandler.DeleteOrganization)

		// Role routes
		r.Post("/roles", roleHandler.CreateRole)
		r.Get("/roles", roleHandler.ListRoles)
		r.Get("/roles/{id}", roleHandler.GetRole)
		r.Put("/roles/{id}", roleHandler.UpdateRole)
		r.Delete("/roles/{id}", roleHandler.DeleteRole)

		// User routes
		r.Post("/users", userHandler.CreateUser)
		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{id}", userHandler.GetUser)
		r.Put("/users/{id}", userHandler.UpdateUser)

		// Assignment routes
		r.Post("/user-campaigns", userCampaignHandler.Assign)
		r.Get("/users/{id}/campaigns", userCampaignHandler.ListByUser)
		r.Put("/users/{id}/campaigns", userCampaignHandler.ReplaceAll)
		r.Delete("/users/{id}/campaigns/{campaignID}", userCampaignHandler.Remove)
		r.Get("/campaigns/{id}/users", userCampaignHandler.ListByCampaign)

		// Call routes
		r.Post("/calls", callHandler.DispatchCall)
		r.Get("/campaigns/{id}/calls", callHandler.ListCampaignCalls)
		r.Get("/campaigns/{id}/external-calls", callHandler.ListExternalCalls)
		r.Get("/calls/{callID}/recording", callHandler.GetRecording)
	})

	log.Println("🚀 Server running on", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}
