package handlers

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/service/auth"
	"github.com/nkiryanov/shop/internal/service/user"
)

func handleRegister(s authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email,max=255"`
		Password string `json:"password" validate:"required,min=8"`
		FullName string `json:"full_name" validate:"required,max=255"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		session, err := s.Register(r.Context(), auth.RegisterParams{
			Username: data.Username,
			Email:    data.Email,
			Password: data.Password,
			FullName: data.FullName,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newSessionResponse(session))
	})
}

func handleLogin(s authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		session, err := s.Login(r.Context(), data.Username, data.Password)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newSessionResponse(session))
	})
}

// Form encoded login for OAuth2 password flow clients
// Responds with bare token pair
func handleToken(s authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Detail(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		data := request{
			Username: r.PostForm.Get("username"),
			Password: r.PostForm.Get("password"),
		}
		if err := render.Validate(w, data); err != nil {
			return
		}

		session, err := s.Login(r.Context(), data.Username, data.Password)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newTokenPairResponse(session.Tokens))
	})
}

func handleRefresh(s authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := s.Refresh(r.Context(), data.RefreshToken)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newTokenPairResponse(pair))
	})
}

func handleLogout(s authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if err := s.Logout(r.Context(), actor, data.RefreshToken); err != nil {
			render.Error(w, err, l)
			return
		}

		render.NoContent(w)
	})
}

func handleMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}

		render.JSON(w, newUserResponse(actor))
	})
}

func handleUpdateMe(s userService, l logger.Logger) http.Handler {
	type request struct {
		Email    *string `json:"email" validate:"omitempty,email,max=255"`
		Password *string `json:"password" validate:"omitempty,min=8"`
		FullName *string `json:"full_name" validate:"omitempty,max=255"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		u, err := s.UpdateMe(r.Context(), actor, user.UpdateMeParams{
			Email:    data.Email,
			Password: data.Password,
			FullName: data.FullName,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newUserResponse(u))
	})
}
