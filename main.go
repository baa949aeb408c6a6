package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"campuslink_server/controllers"
	"campuslink_server/middleware"
	"campuslink_server/routes"
	"campuslink_server/services"
	"campuslink_server/socket"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	userService := &services.UserService{Dynamo: dynamoService}
	roomService := &services.RoomService{Dynamo: dynamoService}
	messageService := &services.MessageService{Dynamo: dynamoService, Rooms: roomService}
	pairs := services.NewPairLocker()

	chatService := &services.ChatService{
		Rooms:    roomService,
		Messages: messageService,
		Users:    userService,
		Pairs:    pairs,
	}

	// Realtime server
	presence := socket.NewMemoryPresence()
	socketServer := socket.NewSocketServer(chatService, presence)
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		ok, err := socketServer.Adapter(&socketio.RedisAdapterOptions{Addr: addr, Prefix: "campuslink"})
		if err != nil || !ok {
			log.Printf("⚠️ Redis adapter unavailable (%v), continuing with in-memory rooms", err)
		} else {
			log.Printf("🔌 Redis adapter attached: %s", addr)
		}
	}
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	notifier := &socket.Notifier{Server: socketServer}
	connectionService := &services.ConnectionService{
		Users:  userService,
		Rooms:  roomService,
		Notify: notifier,
		Pairs:  pairs,
	}

	// Controllers
	chatController := controllers.NewChatController(chatService, notifier)
	connectionController := controllers.NewConnectionController(connectionService, userService)
	profileController := controllers.NewUserProfileController(userService)

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
		fmt.Fprintln(w, "Welcome to CampusLink")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterChatRoutes(r, chatController, middleware.Auth)
	routes.RegisterUserRoutes(r, connectionController, profileController, middleware.Auth)
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	allowedOrigin := os.Getenv("CLIENT_URL")
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
