package handlers

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/repository"
)

func handleListRoles(s roleService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}

		roles, err := s.List(r.Context(), actor)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(roles, newRoleResponse))
	})
}

func handleGetRole(s roleService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		role, err := s.Get(r.Context(), actor, id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newRoleResponse(role))
	})
}

func handleCreateRole(s roleService, l logger.Logger) http.Handler {
	type request struct {
		Name        string `json:"name" validate:"required,max=50"`
		Description string `json:"description" validate:"max=255"`
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

		role, err := s.Create(r.Context(), actor, repository.RoleParams{Name: data.Name, Description: data.Description})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newRoleResponse(role))
	})
}

func handleUpdateRole(s roleService, l logger.Logger) http.Handler {
	type request struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
		Description *string `json:"description" validate:"omitempty,max=255"`
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

		role, err := s.Update(r.Context(), actor, id, repository.UpdateRoleParams{Name: data.Name, Description: data.Description})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newRoleResponse(role))
	})
}

func handleDeleteRole(s roleService, l logger.Logger) http.Handler {
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
