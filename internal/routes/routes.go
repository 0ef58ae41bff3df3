package routes

import (
	"github.com/AnshRaj112/fitify-backend/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux) {
	// Auth
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)

	// Coach socket authenticates from its own token parameter
	r.Get("/ws/coach", handlers.CoachWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireAuth)

		r.Get("/api/auth/me", handlers.Me)

		// Profile and onboarding
		r.Get("/api/profile", handlers.GetProfile)
		r.Put("/api/profile", handlers.UpdateProfile)
		r.Post("/api/profile/onboarding", handlers.CompleteOnboarding)
		r.Post("/api/profile/goals/preview", handlers.PreviewGoals)
		r.Post("/api/profile/avatar", handlers.UploadAvatar)

		// Food log
		r.Get("/api/food-entries", handlers.ListFoodEntries)
		r.Post("/api/food-entries", handlers.CreateFoodEntry)
		r.Delete("/api/food-entries/{id}", handlers.DeleteFoodEntry)

		r.Get("/api/dashboard", handlers.GetDashboard)

		// Weight and progress
		r.Get("/api/weight-logs", handlers.ListWeightLogs)
		r.Post("/api/weight-logs", handlers.LogWeight)
		r.Get("/api/progress", handlers.GetProgress)

		// Coach
		r.Post("/api/coach/messages", handlers.SendCoachMessage)
		r.Get("/api/coach/history", handlers.GetCoachHistory)
		r.Get("/api/coach/prompts", handlers.GetCoachPrompts)
	})
}
