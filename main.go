package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"campusmatch_server/middleware"
	"campusmatch_server/routes"
	"campusmatch_server/services"
	"campusmatch_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env when present; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	stream := services.NewChatStream()
	chatService := &services.ChatService{Dynamo: dynamoService, Stream: stream}
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	requestService := &services.RequestService{Chats: chatService, Profiles: userProfileService}
	matchService := &services.MatchService{Dynamo: dynamoService, Chats: chatService, Profiles: userProfileService}
	s3Service := services.InitializeS3Service()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to CampusMatch")
	}).Methods("GET")

	// Privacy policy page for app store review
	r.HandleFunc("/privacy-policy", routes.PrivacyPolicyHandler).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Socket.IO relay for live chat snapshots
	socketServer := socket.NewSocketServer(stream)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Register routes
	auth := mux.MiddlewareFunc(middleware.RequireAuth(jwtSecret))
	routes.RegisterUserProfileRoutes(r, userProfileService, requestService, auth)
	routes.RegisterChatRoutes(r, requestService, chatService, auth)
	routes.RegisterMatchRoutes(r, matchService, auth)
	routes.RegisterS3Routes(r, s3Service, auth)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
