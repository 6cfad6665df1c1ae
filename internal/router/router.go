package router

import (
	"database/sql"

	"hotel_desk_backend/internal/handlers"
	"hotel_desk_backend/internal/repositories"
	"hotel_desk_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers and mounts all routes
// under /api/v1.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	hotelRepo := repositories.NewHotelRepository(db)
	managerRepo := repositories.NewManagerRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	stayRepo := repositories.NewStayRepository(db)

	// Services
	database := repositories.NewDatabase(db)
	authService := services.NewAuthService(authRepo, database)
	hotelService := services.NewHotelService(hotelRepo, database)
	managerService := services.NewManagerService(managerRepo, hotelRepo, database)
	roomService := services.NewRoomService(roomRepo, hotelRepo, stayRepo, database)
	ledgerService := services.NewLedgerService(ledgerRepo, shiftRepo, database)
	shiftService := services.NewShiftService(shiftRepo, ledgerRepo, managerRepo, hotelRepo, stayRepo, database)
	stayService := services.NewStayService(stayRepo, roomRepo, shiftRepo, ledgerRepo, database)
	payoutService := services.NewPayoutService(managerRepo, shiftRepo, ledgerRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	hotelHandler := handlers.NewHotelHandler(hotelService)
	managerHandler := handlers.NewManagerHandler(managerService, payoutService)
	roomHandler := handlers.NewRoomHandler(roomService)
	shiftHandler := handlers.NewShiftHandler(shiftService, ledgerService)
	stayHandler := handlers.NewStayHandler(stayService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)
	SetupHotelRoutes(apiV1, hotelHandler, roomHandler, managerHandler, shiftHandler)
	SetupRoomRoutes(apiV1, roomHandler)
	SetupManagerRoutes(apiV1, managerHandler)
	SetupShiftRoutes(apiV1, shiftHandler)
	SetupStayRoutes(apiV1, stayHandler)
}
