package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inkwell-app/inkwell-diary/internal/api/respond"
	"github.com/inkwell-app/inkwell-diary/internal/auth"
	"github.com/inkwell-app/inkwell-diary/internal/model"
	"github.com/inkwell-app/inkwell-diary/internal/services"
)

type DiaryHandler struct {
	svc *services.DiaryService
}

func NewDiaryHandler(svc *services.DiaryService) *DiaryHandler { return &DiaryHandler{svc: svc} }

type diaryInput struct {
	Content string `json:"content"`
	Mood    string `json:"mood,omitempty"`
}

// CreateDiary POST /api/diaries
func (h *DiaryHandler) CreateDiary(w http.ResponseWriter, r *http.Request) {
	var in diaryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	out, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), in.Content, in.Mood)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListDiaries GET /api/diaries
func (h *DiaryHandler) ListDiaries(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}
	if out == nil {
		out = []*model.DiaryEntry{}
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// GetDiary GET /api/diaries/{id}
func (h *DiaryHandler) GetDiary(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateDiary PUT /api/diaries/{id}
func (h *DiaryHandler) UpdateDiary(w http.ResponseWriter, r *http.Request) {
	var in diaryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	out, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["id"], in.Content, in.Mood)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteDiary DELETE /api/diaries/{id}
func (h *DiaryHandler) DeleteDiary(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Diary deleted successfully"})
}
