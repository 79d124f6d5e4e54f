package workouts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts/parser"
	"github.com/2beens/workoutlog/pkg"

	log "github.com/sirupsen/logrus"
)

const addWorkoutFailedMsg = "failed to add workout, please try again"

type AddWorkoutRequest struct {
	WorkoutString string `json:"workoutString"`
}

type AddWorkoutResponse struct {
	Workouts []Entry `json:"workouts"`
}

type WorkoutsForDateResponse struct {
	TodaysWorkouts []Entry `json:"todaysWorkouts"`
}

// ErrorResponse is returned for rejected requests. Parse and validation
// errors carry the location of the problem.
type ErrorResponse struct {
	Error       string `json:"error"`
	Kind        string `json:"kind"`
	Category    string `json:"category,omitempty"`
	Field       string `json:"field,omitempty"`
	Line        int    `json:"line,omitempty"`
	Token       string `json:"token,omitempty"`
	WorkoutName string `json:"workoutName,omitempty"`
}

type Handler struct {
	service        *Service
	metricsManager *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req AddWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add workout, unmarshal json params: %s", err)
		http.Error(w, "invalid add workout request", http.StatusBadRequest)
		return
	}

	added, err := handler.service.AddWorkout(ctx, owner, req.WorkoutString)
	if err != nil {
		status, resp := handler.addWorkoutErrorResponse(owner, err)
		writeJSON(w, resp, status)
		return
	}

	handler.metricsManager.CounterWorkoutsAdded.Add(float64(len(added)))
	handler.metricsManager.HistogramBlocksPerIngest.Observe(float64(len(added)))
	log.Debugf("owner [%d] added %d workouts", owner, len(added))

	writeJSON(w, AddWorkoutResponse{Workouts: added}, http.StatusCreated)
}

func (handler *Handler) addWorkoutErrorResponse(owner int, err error) (int, ErrorResponse) {
	var (
		parseErr      *parser.ParseError
		validationErr *ValidationError
		conflictErr   *ConflictError
	)
	switch {
	case errors.As(err, &parseErr):
		handler.metricsManager.CounterWorkoutsRejected.WithLabelValues(metrics.RejectParse).Inc()
		resp := ErrorResponse{
			Error:    parseErr.Error(),
			Kind:     "parse",
			Category: parseErr.Category,
			Line:     parseErr.Line,
			Token:    parseErr.Token,
		}
		if parseErr.Field > 0 {
			resp.Field = parseErr.Field.String()
		}
		return http.StatusBadRequest, resp
	case errors.As(err, &validationErr):
		handler.metricsManager.CounterWorkoutsRejected.WithLabelValues(metrics.RejectValidation).Inc()
		return http.StatusBadRequest, ErrorResponse{
			Error:       validationErr.Error(),
			Kind:        "validation",
			Category:    validationErr.Category,
			Field:       validationErr.Field,
			WorkoutName: validationErr.Name,
		}
	case errors.As(err, &conflictErr):
		handler.metricsManager.CounterWorkoutsRejected.WithLabelValues(metrics.RejectConflict).Inc()
		return http.StatusConflict, ErrorResponse{
			Error:       conflictErr.Error(),
			Kind:        "conflict",
			WorkoutName: conflictErr.Name,
		}
	default:
		handler.metricsManager.CounterWorkoutsRejected.WithLabelValues(metrics.RejectStorage).Inc()
		log.Errorf("owner [%d] add workout: %s", owner, err)
		return http.StatusInternalServerError, ErrorResponse{
			Error: addWorkoutFailedMsg,
			Kind:  "internal",
		}
	}
}

func (handler *Handler) HandleGetByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.bydate")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	date, ok := handler.dateParam(w, r)
	if !ok {
		return
	}

	entries, err := handler.service.GetWorkoutsForDate(ctx, owner, date)
	if err != nil {
		log.Errorf("owner [%d] get workouts for [%s]: %s", owner, date.Format(dateLayout), err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, WorkoutsForDateResponse{TodaysWorkouts: entries}, http.StatusOK)
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.dashboard")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	referenceDate, ok := handler.dateParam(w, r)
	if !ok {
		return
	}

	snapshot, err := handler.service.GetDashboard(ctx, owner, referenceDate)
	if err != nil {
		log.Errorf("owner [%d] get dashboard for [%s]: %s", owner, referenceDate.Format(dateLayout), err)
		http.Error(w, "failed to get dashboard", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterDashboardsServed.Inc()
	writeJSON(w, snapshot, http.StatusOK)
}

// dateParam reads the optional date query param, defaulting to today.
func (handler *Handler) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return handler.service.Today(), true
	}
	date, err := pkg.ParseDate(dateStr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}

func writeJSON(w http.ResponseWriter, payload any, status int) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, payloadJson, status)
}
