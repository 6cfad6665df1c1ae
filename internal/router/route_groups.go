package router

import (
	"hotel_desk_backend/internal/handlers"
	"hotel_desk_backend/internal/middleware"
	"hotel_desk_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes. Login and refresh are
// public; logout and profile require a valid token, registration an admin.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)

			// Account creation is an admin action; the first admin comes
			// from the startup bootstrap.
			authRequiredRoutes.POST("/register",
				middleware.RoleAuthMiddleware(models.RoleAdmin), authHandler.RegisterUser)
		}
	}
}

// SetupHotelRoutes sets up hotel CRUD and the hotel-scoped sub-resources
// (rooms, manager assignments, shift opening and history clearing).
func SetupHotelRoutes(apiGroup *gin.RouterGroup, hotelHandler *handlers.HotelHandler, roomHandler *handlers.RoomHandler, managerHandler *handlers.ManagerHandler, shiftHandler *handlers.ShiftHandler) {
	hotelRoutes := apiGroup.Group("/hotels")
	hotelRoutes.Use(middleware.AuthMiddleware())
	{
		hotelRoutes.GET("", hotelHandler.GetHotels)
		hotelRoutes.GET("/:id", hotelHandler.GetHotelByID)
		hotelRoutes.GET("/:id/rooms", roomHandler.GetRoomsByHotel)
		hotelRoutes.GET("/:id/manager-assignments", managerHandler.GetAssignmentsByHotel)

		adminRoutes := hotelRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("", hotelHandler.CreateHotel)
			adminRoutes.PUT("/:id", hotelHandler.UpdateHotel)
			adminRoutes.DELETE("/:id", hotelHandler.DeleteHotel)
			adminRoutes.POST("/:id/rooms", roomHandler.CreateRoom)
			adminRoutes.POST("/:id/manager-assignments", managerHandler.CreateAssignment)
			adminRoutes.POST("/:id/shifts", shiftHandler.AdminCreateShift)
			adminRoutes.DELETE("/:id/closed-shifts", shiftHandler.ClearClosedShifts)
		}
	}
}

// SetupRoomRoutes sets up room-level routes.
func SetupRoomRoutes(apiGroup *gin.RouterGroup, roomHandler *handlers.RoomHandler) {
	roomRoutes := apiGroup.Group("/rooms")
	roomRoutes.Use(middleware.AuthMiddleware())
	{
		roomRoutes.GET("/:id", roomHandler.GetRoomByID)
		roomRoutes.POST("/:id/clean", roomHandler.MarkRoomClean)

		roomRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), roomHandler.UpdateRoom)
	}
}

// SetupManagerRoutes sets up manager-assignment routes.
func SetupManagerRoutes(apiGroup *gin.RouterGroup, managerHandler *handlers.ManagerHandler) {
	managerRoutes := apiGroup.Group("/manager-assignments")
	managerRoutes.Use(middleware.AuthMiddleware())
	{
		managerRoutes.GET("/:id", managerHandler.GetAssignmentByID)
		managerRoutes.GET("/:id/payout-report", managerHandler.GetPayoutReport)

		adminRoutes := managerRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.PUT("/:id", managerHandler.UpdateAssignment)
			adminRoutes.DELETE("/:id", managerHandler.DeactivateAssignment)
		}
	}
}

// SetupShiftRoutes sets up shift lifecycle, ledger and snapshot routes.
// Opening and closing are PIN-authenticated inside the service, so staff
// tokens suffice; direct field edits stay admin-only.
func SetupShiftRoutes(apiGroup *gin.RouterGroup, shiftHandler *handlers.ShiftHandler) {
	shiftRoutes := apiGroup.Group("/shifts")
	shiftRoutes.Use(middleware.AuthMiddleware())
	{
		shiftRoutes.POST("", shiftHandler.OpenShift)
		shiftRoutes.GET("", shiftHandler.GetShifts)
		shiftRoutes.GET("/:id", shiftHandler.GetShiftByID)
		shiftRoutes.POST("/:id/close", shiftHandler.CloseShift)
		shiftRoutes.GET("/:id/snapshot", shiftHandler.GetShiftSnapshot)
		shiftRoutes.POST("/:id/ledger-entries", shiftHandler.RecordLedgerEntry)
		shiftRoutes.GET("/:id/ledger-entries", shiftHandler.GetLedgerEntries)

		shiftRoutes.PATCH("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), shiftHandler.AdminEditShift)
	}
}

// SetupStayRoutes sets up room-stay routes.
func SetupStayRoutes(apiGroup *gin.RouterGroup, stayHandler *handlers.StayHandler) {
	stayRoutes := apiGroup.Group("/stays")
	stayRoutes.Use(middleware.AuthMiddleware())
	{
		stayRoutes.POST("", stayHandler.CheckIn)
		stayRoutes.GET("", stayHandler.GetStays)
		stayRoutes.GET("/:id", stayHandler.GetStayByID)
		stayRoutes.POST("/:id/check-out", stayHandler.CheckOut)
		stayRoutes.POST("/:id/cancel", stayHandler.CancelStay)

		stayRoutes.PATCH("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), stayHandler.AdminEditStay)
	}
}
