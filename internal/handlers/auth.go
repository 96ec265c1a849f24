package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/handlers/render"
	"github.com/bakikhata/bakikhata/internal/handlers/userctx"
	"github.com/bakikhata/bakikhata/internal/logger"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/service/auth"
)

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"date_joined"`
}

type tokensResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Phone     string `json:"phone" validate:"required,min=6,max=20"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"first_name" validate:"max=50"`
		LastName  string `json:"last_name" validate:"max=50"`
	}
	type response struct {
		Message string         `json:"message"`
		User    userResponse   `json:"user"`
		Tokens  tokensResponse `json:"tokens"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := authService.Register(r.Context(), auth.RegisterParams{
			Phone:     data.Phone,
			Password:  data.Password,
			FirstName: data.FirstName,
			LastName:  data.LastName,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User already exists", http.StatusConflict)
			default:
				l.Error("Failed to register user", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		authService.SetTokens(r.Context(), w, pair)
		render.JSONWithStatus(w, response{
			Message: "User registered successfully",
			User:    toUserResponse(user),
			Tokens:  tokensResponse{Access: pair.Access.Value, Refresh: pair.Refresh.Value},
		}, http.StatusCreated)
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Phone    string `json:"phone" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Message string         `json:"message"`
		User    userResponse   `json:"user"`
		Tokens  tokensResponse `json:"tokens"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := authService.Login(r.Context(), data.Phone, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Invalid phone or password", http.StatusUnauthorized)
			default:
				l.Error("Failed to login user", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		authService.SetTokens(r.Context(), w, pair)
		render.JSON(w, response{
			Message: "User logged in successfully",
			User:    toUserResponse(user),
			Tokens:  tokensResponse{Access: pair.Access.Value, Refresh: pair.Refresh.Value},
		})
	})
}

func handleTokenRefresh(authService authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := authService.GetRefresh(r)
		if err != nil {
			render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}

		pair, err := authService.Refresh(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenExpired):
				render.ServiceError(w, "Refresh token expired", http.StatusUnauthorized)
			default:
				render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
			}
			return
		}

		authService.SetTokens(r.Context(), w, pair)
		render.JSON(w, response{Message: "Tokens refreshed successfully"})
	})
}

func handleProfile(authService authService, l logger.Logger) http.Handler {
	type response struct {
		User userResponse `json:"user"`
		Role string       `json:"role"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		role, err := authService.Role(r.Context(), user)
		if err != nil {
			l.Error("Failed to determine user role", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{User: toUserResponse(user), Role: role})
	})
}
