package habits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/habits/period"
	"github.com/mfdias/rotina/pkg"
)

type habitsService interface {
	RecordAction(ctx context.Context, action catalog.Action, done bool) (*ActionResult, error)
	TodayProgress(ctx context.Context) (*Progress, error)
	WeekSummary(ctx context.Context) (period.WeekSummary, string, error)
	MonthSummary(ctx context.Context) (period.MonthSummary, string, error)
	LogMeal(ctx context.Context, meal catalog.Action, description string, cheat bool) (string, error)
	SetGymDay(ctx context.Context, choice catalog.ExerciseChoice) error
	Weight(ctx context.Context) (float64, error)
	SetWeight(ctx context.Context, weight float64) error
	WaterStatusToday(ctx context.Context) (*WaterStatus, error)
	Undo(ctx context.Context) (string, error)
}

type sheetsPreparer interface {
	Setup(ctx context.Context) error
}

// Handler exposes the habit operations over HTTP.
type Handler struct {
	service   habitsService
	summaries sheetsPreparer
}

func NewHandler(service habitsService, summaries sheetsPreparer) *Handler {
	return &Handler{
		service:   service,
		summaries: summaries,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/actions", h.handleRecordAction).Methods("POST", "OPTIONS")
	router.HandleFunc("/today", h.handleToday).Methods("GET", "OPTIONS")
	router.HandleFunc("/week", h.handleWeek).Methods("GET", "OPTIONS")
	router.HandleFunc("/month", h.handleMonth).Methods("GET", "OPTIONS")
	router.HandleFunc("/meals", h.handleLogMeal).Methods("POST", "OPTIONS")
	router.HandleFunc("/water", h.handleWater).Methods("GET", "OPTIONS")
	router.HandleFunc("/gymday", h.handleSetGymDay).Methods("PUT", "OPTIONS")
	router.HandleFunc("/weight", h.handleGetWeight).Methods("GET", "OPTIONS")
	router.HandleFunc("/weight", h.handleSetWeight).Methods("PUT", "OPTIONS")
	router.HandleFunc("/undo", h.handleUndo).Methods("POST", "OPTIONS")
	router.HandleFunc("/sheets/setup", h.handleSetupSheets).Methods("POST", "OPTIONS")
}

type recordActionRequest struct {
	Action string `json:"action"`
	Done   *bool  `json:"done,omitempty"`
}

func (h *Handler) handleRecordAction(w http.ResponseWriter, r *http.Request) {
	var req recordActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "parse request body", http.StatusBadRequest)
		return
	}
	if req.Action == "" {
		http.Error(w, "action is required", http.StatusBadRequest)
		return
	}

	// Omitting "done" means checking the action off.
	done := true
	if req.Done != nil {
		done = *req.Done
	}

	res, err := h.service.RecordAction(r.Context(), catalog.Action(req.Action), done)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownAction) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("record action %s: %s", req.Action, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.TodayProgress(r.Context())
	if err != nil {
		log.Errorf("today progress: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, progress)
}

func (h *Handler) handleWeek(w http.ResponseWriter, r *http.Request) {
	summary, message, err := h.service.WeekSummary(r.Context())
	if err != nil {
		log.Errorf("week summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, struct {
		period.WeekSummary
		Message string `json:"message"`
	}{summary, message})
}

func (h *Handler) handleMonth(w http.ResponseWriter, r *http.Request) {
	summary, message, err := h.service.MonthSummary(r.Context())
	if err != nil {
		log.Errorf("month summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, struct {
		period.MonthSummary
		Message string `json:"message"`
	}{summary, message})
}

type logMealRequest struct {
	Meal        string `json:"meal,omitempty"`
	Description string `json:"description"`
	Cheat       bool   `json:"cheat,omitempty"`
}

func (h *Handler) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	var req logMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "parse request body", http.StatusBadRequest)
		return
	}

	message, err := h.service.LogMeal(r.Context(), catalog.Action(req.Meal), req.Description, req.Cheat)
	if err != nil {
		if errors.Is(err, ErrInvalidMeal) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Store failures stay in the logs; the caller only learns the
		// request is worth retrying.
		log.Errorf("log meal: %s", err)
		http.Error(w, "could not record action", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": message})
}

func (h *Handler) handleWater(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.WaterStatusToday(r.Context())
	if err != nil {
		log.Errorf("water status: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status)
}

type gymDayRequest struct {
	Day string `json:"day"`
}

func (h *Handler) handleSetGymDay(w http.ResponseWriter, r *http.Request) {
	var req gymDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "parse request body", http.StatusBadRequest)
		return
	}
	choice, err := catalog.ParseExerciseChoice(req.Day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetGymDay(r.Context(), choice); err != nil {
		log.Errorf("set gym day: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{
		"message": fmt.Sprintf("🏋️ Dia de academia definido: %s.", req.Day),
	})
}

func (h *Handler) handleGetWeight(w http.ResponseWriter, r *http.Request) {
	weight, err := h.service.Weight(r.Context())
	if err != nil {
		log.Errorf("get weight: %s", err)
		http.Error(w, "weight not set", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]float64{"weight": weight})
}

type weightRequest struct {
	Weight float64 `json:"weight"`
}

func (h *Handler) handleSetWeight(w http.ResponseWriter, r *http.Request) {
	var req weightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "parse request body", http.StatusBadRequest)
		return
	}
	if err := h.service.SetWeight(r.Context(), req.Weight); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{
		"message": fmt.Sprintf("⚖️ Peso registrado: %.1f kg.", req.Weight),
	})
}

// handleSetupSheets prepares the summary and dashboard sheets. Called once
// after pointing the service at a fresh spreadsheet, though repeating it is
// harmless.
func (h *Handler) handleSetupSheets(w http.ResponseWriter, r *http.Request) {
	if err := h.summaries.Setup(r.Context()); err != nil {
		log.Errorf("setup sheets: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "📋 Planilhas de análise preparadas."})
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	message, err := h.service.Undo(r.Context())
	if err != nil {
		if errors.Is(err, ErrNothingToUndo) {
			http.Error(w, "nothing to undo", http.StatusConflict)
			return
		}
		log.Errorf("undo: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(data))
}
