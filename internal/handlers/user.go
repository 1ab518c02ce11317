package handlers

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/service/user"
)

func handleListUsers(s userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		page, ok := pageParams(w, r, defaultUserLimit)
		if !ok {
			return
		}

		users, err := s.List(r.Context(), actor, page)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(users, newUserResponse))
	})
}

func handleGetUser(s userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		u, err := s.Get(r.Context(), actor, id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newUserResponse(u))
	})
}

func handleCreateUser(s userService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email,max=255"`
		Password string `json:"password" validate:"required,min=8"`
		FullName string `json:"full_name" validate:"required,max=255"`
		IsActive *bool  `json:"is_active"`
		RoleID   int64  `json:"role_id" validate:"omitempty,gt=0"`
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

		u, err := s.Create(r.Context(), actor, user.CreateParams{
			Username: data.Username,
			Email:    data.Email,
			Password: data.Password,
			FullName: data.FullName,
			IsActive: data.IsActive,
			RoleID:   data.RoleID,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newUserResponse(u))
	})
}

func handleUpdateUser(s userService, l logger.Logger) http.Handler {
	type request struct {
		Username *string `json:"username" validate:"omitempty,min=2,max=50"`
		Email    *string `json:"email" validate:"omitempty,email,max=255"`
		Password *string `json:"password" validate:"omitempty,min=8"`
		FullName *string `json:"full_name" validate:"omitempty,max=255"`
		IsActive *bool   `json:"is_active"`
		RoleID   *int64  `json:"role_id" validate:"omitempty,gt=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		u, err := s.Update(r.Context(), actor, id, user.UpdateParams{
			Username: data.Username,
			Email:    data.Email,
			Password: data.Password,
			FullName: data.FullName,
			IsActive: data.IsActive,
			RoleID:   data.RoleID,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newUserResponse(u))
	})
}

func handleDeleteUser(s userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := s.Delete(r.Context(), actor, id); err != nil {
			render.Error(w, err, l)
			return
		}

		render.NoContent(w)
	})
}
