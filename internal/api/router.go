package api

import (
	"github.com/gorilla/mux"

	"github.com/inkwell-app/inkwell-diary/internal/api/recovery"
	"github.com/inkwell-app/inkwell-diary/internal/auth"
	"github.com/inkwell-app/inkwell-diary/internal/services"
)

// NewRouter wires HTTP routes to handlers. Diary routes sit behind the
// auth middleware; auth and health routes are open.
func NewRouter(authSvc *services.AuthService, diarySvc *services.DiaryService, authMW *auth.Middleware) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Auth
	authHandler := NewAuthHandler(authSvc)
	root.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	root.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Diaries (protected)
	diaryHandler := NewDiaryHandler(diarySvc)
	diaries := root.PathPrefix("/api/diaries").Subrouter()
	diaries.Use(authMW.RequireAuth)
	diaries.HandleFunc("", diaryHandler.CreateDiary).Methods("POST")
	diaries.HandleFunc("", diaryHandler.ListDiaries).Methods("GET")
	diaries.HandleFunc("/{id}", diaryHandler.GetDiary).Methods("GET")
	diaries.HandleFunc("/{id}", diaryHandler.UpdateDiary).Methods("PUT")
	diaries.HandleFunc("/{id}", diaryHandler.DeleteDiary).Methods("DELETE")

	// Health
	healthHandler := NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	return root
}
