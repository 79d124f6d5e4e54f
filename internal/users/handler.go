package users

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=users_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const minPasswordLength = 6

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type sessionService interface {
	Login(ctx context.Context, owner int, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (int, error)
}

type sessionForgetter interface {
	Forget(token string)
}

type SignUpRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Img      *string `json:"img"`
	Age      *int    `json:"age"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Handler struct {
	repo           usersRepo
	sessions       sessionService
	checker        sessionForgetter
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(
	repo usersRepo,
	sessions sessionService,
	checker sessionForgetter,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		sessions:       sessions,
		checker:        checker,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (handler *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signup")
	defer span.End()

	var req SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if req.Name == "" {
		http.Error(w, "error, name empty", http.StatusBadRequest)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		http.Error(w, "error, invalid email", http.StatusBadRequest)
		return
	}
	if len(req.Password) < minPasswordLength {
		http.Error(w, "error, password too short", http.StatusBadRequest)
		return
	}
	if req.Age != nil && *req.Age < 0 {
		http.Error(w, "error, invalid age", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("sign up, hash password: %s", err)
		http.Error(w, "sign up failed", http.StatusInternalServerError)
		return
	}

	user, err := handler.repo.Add(ctx, User{
		Name:         req.Name,
		Email:        req.Email,
		Img:          req.Img,
		Age:          req.Age,
		PasswordHash: passwordHash,
		CreatedAt:    handler.now(),
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, "error, email already registered", http.StatusConflict)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("sign up, add user: %s", err)
		http.Error(w, "sign up failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	handler.metricsManager.CounterSignUps.Inc()
	log.Debugf("new user [%d] signed up", user.ID)

	handler.respondWithSession(ctx, w, *user, http.StatusCreated)
}

func (handler *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signin")
	defer span.End()

	var req SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Tracef("[email] failed sign in attempt for: %s", req.Email)
			http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("sign in, get user: %s", err)
		http.Error(w, "sign in failed", http.StatusInternalServerError)
		return
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Tracef("[password] failed sign in attempt for user: %d", user.ID)
		http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
		return
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	handler.metricsManager.CounterSignIns.Inc()

	handler.respondWithSession(ctx, w, *user, http.StatusOK)
}

func (handler *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signout")
	defer span.End()

	token, ok := auth.BearerToken(r)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	owner, err := handler.sessions.Logout(ctx, token)
	if err != nil {
		log.Tracef("[failed sign out] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	handler.checker.Forget(token)

	log.Debugf("sign out for user [%d] success", owner)
	pkg.WriteTextResponseOK(w, "signed-out")
}

func (handler *Handler) respondWithSession(ctx context.Context, w http.ResponseWriter, user User, status int) {
	token, err := handler.sessions.Login(ctx, user.ID, handler.now())
	if err != nil {
		log.Errorf("user [%d] create session: %s", user.ID, err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(SessionResponse{Token: token, User: user})
	if err != nil {
		log.Errorf("marshal session response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Tracef("unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
