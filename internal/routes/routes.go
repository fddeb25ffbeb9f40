package routes

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/example/newera/internal/config"
	"github.com/example/newera/internal/handlers"
	"github.com/example/newera/internal/middleware"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer services.Mailer) {
	paystack := services.NewPaystackService(cfg.PaystackSecretKey, cfg.PaystackBaseURL)

	authHandler := handlers.NewAuthHandler(db, cfg, mailer)
	contestantAuthHandler := handlers.NewContestantAuthHandler(db, cfg, mailer)
	verificationHandler := handlers.NewVerificationHandler(db, cfg, mailer)
	userHandler := handlers.NewUserHandler(db, cfg, mailer)
	contestantHandler := handlers.NewContestantHandler(db)
	productHandler := handlers.NewProductHandler(db)
	adminHandler := handlers.NewAdminHandler(db, cfg, mailer)
	settingsHandler := handlers.NewSettingsHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, paystack)

	authRequired := middleware.AuthRequired(cfg)
	adminRequired := middleware.AdminRequired(db, cfg)

	// One OTP resend per client every 30 seconds, small burst.
	resendLimiter := middleware.NewRateLimiter(rate.Limit(1.0/30.0), 3).Handler()

	// User auth
	userAuth := app.Group("/user-auth")
	userAuth.Post("/register", authHandler.Register)
	userAuth.Post("/login", authHandler.Login)
	userAuth.Post("/forgot-password", authHandler.ForgotPassword)
	userAuth.Post("/reset-password", authHandler.ResetPassword)

	// Contestant auth
	contestantAuth := app.Group("/contestant-auth")
	contestantAuth.Post("/register", contestantAuthHandler.Register)
	contestantAuth.Post("/login", contestantAuthHandler.Login)
	contestantAuth.Post("/complete-registration", authRequired, contestantAuthHandler.CompleteRegistration)
	contestantAuth.Post("/forgot-password", contestantAuthHandler.ForgotPassword)
	contestantAuth.Post("/reset-password", contestantAuthHandler.ResetPassword)

	// Email verification
	verify := app.Group("/verify")
	verify.Post("/verify-email", verificationHandler.VerifyUserEmail)
	verify.Post("/resend-otp", resendLimiter, verificationHandler.ResendUserOTP)

	contestVerify := app.Group("/contest-verify")
	contestVerify.Post("/verify-email", verificationHandler.VerifyContestantEmail)
	contestVerify.Post("/resend-otp", resendLimiter, verificationHandler.ResendContestantOTP)

	// User cart / orders / history
	user := app.Group("/user", authRequired)
	user.Get("/getdata", userHandler.GetData)
	user.Post("/updateCart", userHandler.UpdateCart)
	user.Post("/clearCart", userHandler.ClearCart)
	user.Post("/createOrder", userHandler.CreateOrder)
	user.Get("/getorders", userHandler.GetOrders)
	user.Get("/gethistory", userHandler.GetHistory)
	user.Post("/update-history", userHandler.UpdateHistory)

	// Contestant profile / voting
	contestant := app.Group("/contestant")
	contestant.Get("/getdata", authRequired, contestantHandler.GetData)
	contestant.Get("/invite/:username", contestantHandler.Invite)
	contestant.Post("/update-votes", contestantHandler.UpdateVotes)

	// Product catalog
	product := app.Group("/product")
	product.Get("/getproducts", productHandler.ListProducts)
	product.Post("/addproduct", adminRequired, productHandler.AddProduct)
	product.Put("/updateproduct/:id", adminRequired, productHandler.UpdateProduct)
	product.Delete("/deleteproduct/:id", adminRequired, productHandler.DeleteProduct)

	// Admin
	admin := app.Group("/admin")
	admin.Post("/register", adminHandler.Register)
	admin.Post("/login", adminHandler.Login)
	admin.Get("/users", adminRequired, adminHandler.ListUsers)
	admin.Delete("/users/:id", adminRequired, adminHandler.DeleteUser)
	admin.Get("/contestants", adminRequired, adminHandler.ListContestants)
	admin.Delete("/contestants/:id", adminRequired, adminHandler.DeleteContestant)
	admin.Get("/awaitingOrders", adminRequired, adminHandler.ListOrdersByStatus(models.OrderStatusAwaiting))
	admin.Get("/pendingOrders", adminRequired, adminHandler.ListOrdersByStatus(models.OrderStatusPending))
	admin.Get("/completedOrders", adminRequired, adminHandler.ListOrdersByStatus(models.OrderStatusCompleted))
	admin.Patch("/orders/:orderId", adminRequired, adminHandler.UpdateOrderStatus)
	admin.Delete("/orders/:orderId", adminRequired, adminHandler.DeleteOrder)

	// Payments
	payment := app.Group("/payment")
	payment.Post("/initialize-payment", paymentHandler.InitializePayment)
	payment.Get("/verify-payment/:reference", paymentHandler.VerifyPayment)
	payment.Post("/vote-payment", paymentHandler.VotePayment)
	payment.Get("/verify-vote-payment/:reference", paymentHandler.VerifyVotePayment)

	// Contest settings
	setting := app.Group("/setting")
	setting.Post("/updateVotePrice", adminRequired, settingsHandler.UpdateVotePrice)
	setting.Post("/updateContestStatus", adminRequired, settingsHandler.UpdateContestStatus)
	setting.Get("/settings", adminRequired, settingsHandler.GetSettings)
	setting.Get("/getVotePrice", settingsHandler.GetVotePrice)
	setting.Get("/getContestStatus", settingsHandler.GetContestStatus)

	// Static assets
	app.Static("/images", cfg.StaticDir)
}
