package handler

import (
	"github.com/go-chi/chi/v5"
)

// Routes registers every endpoint on a new chi router. Middleware is applied
// by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	if s.Events != nil {
		r.Get("/events", s.StreamEvents)
	}
	if s.Session != nil {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Post("/", s.SignIn)
			r.Delete("/", s.SignOut)
		})
	}
	if s.Sync != nil {
		r.Post("/sync", s.RunSync)
	}
	if s.Trips != nil {
		r.Get("/trips", s.ListTrips)
		r.Post("/trips", s.CreateTrip)
		r.Post("/trips/refresh", s.RefreshTrips)
		r.Put("/active-trip", s.SetActiveTrip)
	}

	r.Route("/trips/{tripID}", func(r chi.Router) {
		if s.Trips != nil {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
		}
		if s.Activities != nil {
			r.Route("/days/{dayID}/activities", func(r chi.Router) {
				r.Post("/", s.CreateActivity)
				r.Put("/order", s.ReorderActivities)
				r.Patch("/{activityID}", s.UpdateActivity)
				r.Delete("/{activityID}", s.DeleteActivity)
			})
		}
		if s.Tasks != nil {
			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", s.CreateTask)
				r.Patch("/{taskID}", s.UpdateTask)
				r.Delete("/{taskID}", s.DeleteTask)
				r.Post("/{taskID}/subtasks", s.CreateSubtask)
				r.Post("/{taskID}/subtasks/{index}/toggle", s.ToggleSubtask)
			})
		}
		if s.Budget != nil {
			r.Get("/budget", s.GetBudget)
			r.Put("/budget", s.SetBudget)
			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.CreateExpense)
				r.Patch("/{expenseID}", s.UpdateExpense)
				r.Delete("/{expenseID}", s.DeleteExpense)
			})
		}
		if s.Packing != nil {
			r.Route("/packing", func(r chi.Router) {
				r.Post("/", s.CreatePackingItem)
				r.Post("/generate", s.GeneratePacking)
				r.Post("/uncheck-all", s.UncheckAllPacking)
				r.Post("/{itemID}/toggle", s.TogglePackingItem)
				r.Delete("/{itemID}", s.DeletePackingItem)
			})
		}
		if s.Photos != nil {
			r.Route("/photos", func(r chi.Router) {
				r.Post("/", s.UploadPhoto)
				r.Get("/{photoID}/content", s.GetPhotoContent)
				r.Patch("/{photoID}", s.UpdatePhoto)
				r.Delete("/{photoID}", s.DeletePhoto)
			})
		}
		if s.Weather != nil {
			r.Post("/weather/refresh", s.RefreshWeather)
		}
		if s.Members != nil {
			r.Route("/members", func(r chi.Router) {
				r.Get("/", s.ListMembers)
				r.Post("/", s.InviteMember)
				r.Patch("/{userID}", s.UpdateMemberRole)
				r.Delete("/{userID}", s.RemoveMember)
			})
		}
	})
	return r
}
