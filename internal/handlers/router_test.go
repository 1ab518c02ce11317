package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/repository/postgres"
	"github.com/nkiryanov/shop/internal/service/auth"
	"github.com/nkiryanov/shop/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/shop/internal/service/cart"
	"github.com/nkiryanov/shop/internal/service/catalog"
	"github.com/nkiryanov/shop/internal/service/eventlog"
	"github.com/nkiryanov/shop/internal/service/order"
	"github.com/nkiryanov/shop/internal/service/review"
	"github.com/nkiryanov/shop/internal/service/role"
	"github.com/nkiryanov/shop/internal/service/user"
	"github.com/nkiryanov/shop/internal/testutil"
)

type testEnv struct {
	url     string
	storage repository.Storage
	tokens  *tokenmanager.TokenManager
	events  *testutil.Recorder
}

// Issue access token for the user without going through login
func (e testEnv) accessToken(t *testing.T, u models.User) string {
	t.Helper()

	token, err := e.tokens.Encode(strconv.FormatInt(u.ID, 10), models.ScopeAccess, time.Minute, nil)
	require.NoError(t, err)
	return token
}

// Make request with JSON body and return response status and body
func (e testEnv) do(t *testing.T, method string, path string, token string, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, e.url+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()

	var v T
	require.NoErrorf(t, json.Unmarshal([]byte(body), &v), "response should be valid json: %s", body)
	return v
}

func Test_Router(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Run http server with production services bound to a test transaction
	withServer := func(t *testing.T, fn func(env testEnv)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			l := logger.NewNoOpLogger()
			storage := postgres.NewStorage(tx)
			events := &testutil.Recorder{}
			hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}

			tokens, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Refresh())
			require.NoError(t, err, "token manager should be created without errors")

			authService, err := auth.NewService(auth.Config{Hasher: hasher}, tokens, storage.User(), events, l)
			require.NoError(t, err, "auth service starting error")

			router := NewRouter(Services{
				Resolver: auth.NewResolver(tokens, storage.User()),
				Auth:     authService,
				User:     user.NewService(user.Config{Hasher: hasher}, storage, events, l),
				Role:     role.NewService(storage.Role(), events),
				Catalog:  catalog.NewService(storage, events),
				Cart:     cart.NewService(storage, events),
				Order:    order.NewService(storage, events),
				Review:   review.NewService(storage, events),
				Event:    eventlog.NewService(storage.Event()),
				DB:       pg.Pool,
			}, l)

			srv := httptest.NewServer(router)
			defer srv.Close()

			fn(testEnv{url: srv.URL, storage: storage, tokens: tokens, events: events})
		})
	}

	t.Run("health", func(t *testing.T) {
		withServer(t, func(env testEnv) {
			code, body := env.do(t, http.MethodGet, "/health", "", "")

			require.Equal(t, http.StatusOK, code)
			require.JSONEq(t, `{"status": "healthy", "database": "connected"}`, body)
		})
	})

	t.Run("auth", func(t *testing.T) {
		register := `{"username": "nk", "email": "nk@example.com", "password": "StrongEnoughPassword", "full_name": "N K"}`

		t.Run("register", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				code, body := env.do(t, http.MethodPost, "/auth/register", "", register)

				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
				res := decode[sessionResponse](t, body)
				require.Equal(t, "nk", res.User.Username)
				require.Equal(t, "nk@example.com", res.User.Email)
				require.Equal(t, testutil.CustomerRoleID, res.User.RoleID)
				require.True(t, res.User.IsActive)
				require.Equal(t, models.TokenTypeBearer, res.Tokens.TokenType)
				require.NotEmpty(t, res.Tokens.AccessToken)
				require.NotEmpty(t, res.Tokens.RefreshToken)
				require.EqualValues(t, (30 * time.Minute).Seconds(), res.Tokens.AccessTokenExpiresIn)
				require.Contains(t, env.events.Types(), models.EventAuthRegister)
			})
		})

		t.Run("register twice", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				code, _ := env.do(t, http.MethodPost, "/auth/register", "", register)
				require.Equal(t, http.StatusCreated, code)

				code, body := env.do(t, http.MethodPost, "/auth/register", "", register)

				require.Equal(t, http.StatusConflict, code)
				require.JSONEq(t, `{"detail": "Username already registered"}`, body)
			})
		})

		t.Run("register invalid", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				code, body := env.do(t, http.MethodPost, "/auth/register", "", `{"username": "nk", "email": "nope", "password": "short"}`)

				require.Equal(t, http.StatusBadRequest, code)
				require.JSONEq(t, `{
					"detail": "Request validation failed",
					"fields": {
						"email": "Invalid email address",
						"password": "Value is too short (minimum 8)",
						"full_name": "This field is required"
					}
				}`, body)
			})
		})

		t.Run("login", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				code, _ := env.do(t, http.MethodPost, "/auth/register", "", register)
				require.Equal(t, http.StatusCreated, code)

				code, body := env.do(t, http.MethodPost, "/auth/login", "", `{"username": "nk", "password": "StrongEnoughPassword"}`)

				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
				res := decode[sessionResponse](t, body)
				require.Equal(t, "nk", res.User.Username)
				require.NotNil(t, res.User.LastLogin)

				// Access token authenticates requests
				code, body = env.do(t, http.MethodGet, "/auth/me", res.Tokens.AccessToken, "")
				require.Equal(t, http.StatusOK, code)
				require.Equal(t, "nk", decode[userResponse](t, body).Username)

				// Refresh one does not
				code, body = env.do(t, http.MethodGet, "/auth/me", res.Tokens.RefreshToken, "")
				require.Equal(t, http.StatusUnauthorized, code)
				require.JSONEq(t, `{"detail": "Invalid token scope"}`, body)
			})
		})

		t.Run("login fails the same way for unknown user and wrong password", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				code, _ := env.do(t, http.MethodPost, "/auth/register", "", register)
				require.Equal(t, http.StatusCreated, code)

				wrongCode, wrongBody := env.do(t, http.MethodPost, "/auth/login", "", `{"username": "nk", "password": "WrongPassword"}`)
				unknownCode, unknownBody := env.do(t, http.MethodPost, "/auth/login", "", `{"username": "ghost", "password": "WrongPassword"}`)

				require.Equal(t, http.StatusUnauthorized, wrongCode)
				require.Equal(t, wrongCode, unknownCode)
				require.JSONEq(t, wrongBody, unknownBody)
			})
		})

		t.Run("token form", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				code, _ := env.do(t, http.MethodPost, "/auth/register", "", register)
				require.Equal(t, http.StatusCreated, code)

				form := url.Values{"username": {"nk"}, "password": {"StrongEnoughPassword"}}
				resp, err := http.PostForm(env.url+"/auth/token", form)
				require.NoError(t, err)
				defer resp.Body.Close() // nolint:errcheck
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
				res := decode[tokenPairResponse](t, string(body))
				require.Equal(t, "bearer", res.TokenType)
				require.NotEmpty(t, res.AccessToken)
			})
		})

		t.Run("token form without password", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				resp, err := http.PostForm(env.url+"/auth/token", url.Values{"username": {"nk"}})
				require.NoError(t, err)
				defer resp.Body.Close() // nolint:errcheck

				require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			})
		})

		t.Run("refresh rotates token", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				_, body := env.do(t, http.MethodPost, "/auth/register", "", register)
				session := decode[sessionResponse](t, body)
				refresh := `{"refresh_token": "` + session.Tokens.RefreshToken + `"}`

				code, body := env.do(t, http.MethodPost, "/auth/refresh", "", refresh)
				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
				pair := decode[tokenPairResponse](t, body)
				require.NotEqual(t, session.Tokens.RefreshToken, pair.RefreshToken)

				// Used token can't be used again
				code, _ = env.do(t, http.MethodPost, "/auth/refresh", "", refresh)
				require.Equal(t, http.StatusUnauthorized, code)
			})
		})

		t.Run("refresh with access token", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				_, body := env.do(t, http.MethodPost, "/auth/register", "", register)
				session := decode[sessionResponse](t, body)

				code, _ := env.do(t, http.MethodPost, "/auth/refresh", "", `{"refresh_token": "`+session.Tokens.AccessToken+`"}`)

				require.Equal(t, http.StatusUnauthorized, code)
			})
		})

		t.Run("logout idempotent", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				_, body := env.do(t, http.MethodPost, "/auth/register", "", register)
				session := decode[sessionResponse](t, body)
				logout := `{"refresh_token": "` + session.Tokens.RefreshToken + `"}`

				code, _ := env.do(t, http.MethodPost, "/auth/logout", session.Tokens.AccessToken, logout)
				require.Equal(t, http.StatusNoContent, code)

				code, _ = env.do(t, http.MethodPost, "/auth/logout", session.Tokens.AccessToken, logout)
				require.Equal(t, http.StatusNoContent, code)

				code, _ = env.do(t, http.MethodPost, "/auth/refresh", "", logout)
				require.Equal(t, http.StatusUnauthorized, code, "revoked token must not be refreshed")
			})
		})

		t.Run("logout requires auth", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				code, body := env.do(t, http.MethodPost, "/auth/logout", "", `{"refresh_token": "x"}`)

				require.Equal(t, http.StatusUnauthorized, code)
				require.JSONEq(t, `{"detail": "Not authenticated"}`, body)
			})
		})

		t.Run("update me", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				_, body := env.do(t, http.MethodPost, "/auth/register", "", register)
				session := decode[sessionResponse](t, body)

				code, body := env.do(t, http.MethodPut, "/auth/me", session.Tokens.AccessToken, `{"full_name": "New Name"}`)

				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
				require.Equal(t, "New Name", decode[userResponse](t, body).FullName)
			})
		})

		t.Run("inactive user forbidden", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				u := testutil.CreateUser(t, env.storage, "sleepy", testutil.CustomerRoleID)
				inactive := false
				_, err := env.storage.User().Update(t.Context(), u.ID, repository.UpdateUserParams{IsActive: &inactive})
				require.NoError(t, err)

				code, body := env.do(t, http.MethodGet, "/auth/me", env.accessToken(t, u), "")

				require.Equal(t, http.StatusForbidden, code)
				require.JSONEq(t, `{"detail": "Inactive user"}`, body)
			})
		})
	})

	t.Run("users", func(t *testing.T) {
		t.Run("admin only", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				customer := testutil.CreateUser(t, env.storage, "customer", testutil.CustomerRoleID)

				code, body := env.do(t, http.MethodGet, "/users", env.accessToken(t, customer), "")

				require.Equal(t, http.StatusForbidden, code)
				require.JSONEq(t, `{"detail": "Admin privileges required"}`, body)
			})
		})

		t.Run("crud", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)
				token := env.accessToken(t, admin)

				code, body := env.do(t, http.MethodPost, "/users", token, `{"username": "bob", "email": "bob@example.com", "password": "StrongEnoughPassword", "full_name": "Bob"}`)
				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
				created := decode[userResponse](t, body)
				path := "/users/" + strconv.FormatInt(created.ID, 10)

				code, body = env.do(t, http.MethodGet, "/users?limit=10", token, "")
				require.Equal(t, http.StatusOK, code)
				require.Len(t, decode[[]userResponse](t, body), 2)

				code, body = env.do(t, http.MethodPut, path, token, `{"is_active": false}`)
				require.Equal(t, http.StatusOK, code)
				require.False(t, decode[userResponse](t, body).IsActive)

				code, _ = env.do(t, http.MethodDelete, path, token, "")
				require.Equal(t, http.StatusNoContent, code)

				code, body = env.do(t, http.MethodGet, path, token, "")
				require.Equal(t, http.StatusNotFound, code)
				require.JSONEq(t, `{"detail": "User not found"}`, body)
			})
		})

		t.Run("invalid page", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)

				code, _ := env.do(t, http.MethodGet, "/users?limit=1000", env.accessToken(t, admin), "")

				require.Equal(t, http.StatusUnprocessableEntity, code)
			})
		})
	})

	t.Run("roles", func(t *testing.T) {
		withServer(t, func(env testEnv) {
			admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)
			token := env.accessToken(t, admin)

			code, body := env.do(t, http.MethodGet, "/roles", token, "")
			require.Equal(t, http.StatusOK, code)
			require.Len(t, decode[[]roleResponse](t, body), 2, "admin and customer roles are always present")

			code, body = env.do(t, http.MethodPost, "/roles", token, `{"name": "manager", "description": "Shop manager"}`)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
			require.Equal(t, "manager", decode[roleResponse](t, body).Name)

			code, body = env.do(t, http.MethodDelete, "/roles/1", token, "")
			require.Equal(t, http.StatusForbidden, code)
			require.JSONEq(t, `{"detail": "Admin role can not be deleted"}`, body)
		})
	})

	t.Run("catalog", func(t *testing.T) {
		t.Run("public read, admin write", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)
				customer := testutil.CreateUser(t, env.storage, "customer", testutil.CustomerRoleID)
				token := env.accessToken(t, admin)

				code, _ := env.do(t, http.MethodPost, "/categories", "", `{"name": "Books"}`)
				require.Equal(t, http.StatusUnauthorized, code)

				code, _ = env.do(t, http.MethodPost, "/categories", env.accessToken(t, customer), `{"name": "Books"}`)
				require.Equal(t, http.StatusForbidden, code)

				code, body := env.do(t, http.MethodPost, "/categories", token, `{"name": "Books", "description": "Paper ones"}`)
				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
				category := decode[categoryResponse](t, body)

				product := `{"title": "Go", "price": "12.50", "stock": 3, "category_id": ` + strconv.FormatInt(category.ID, 10) + `}`
				code, body = env.do(t, http.MethodPost, "/products", token, product)
				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
				created := decode[productResponse](t, body)
				require.Equal(t, "12.5", created.Price.String())

				code, body = env.do(t, http.MethodGet, "/products?category_id="+strconv.FormatInt(category.ID, 10), "", "")
				require.Equal(t, http.StatusOK, code)
				require.Len(t, decode[[]productResponse](t, body), 1)

				code, body = env.do(t, http.MethodPut, "/products/"+strconv.FormatInt(created.ID, 10), token, `{"stock": 10}`)
				require.Equal(t, http.StatusOK, code)
				updated := decode[productResponse](t, body)
				require.Equal(t, 10, updated.Stock)
				require.Equal(t, "Go", updated.Title, "not changed fields kept as is")

				code, _ = env.do(t, http.MethodDelete, "/products/"+strconv.FormatInt(created.ID, 10), token, "")
				require.Equal(t, http.StatusNoContent, code)
			})
		})

		t.Run("product validation", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)

				code, body := env.do(t, http.MethodPost, "/products", env.accessToken(t, admin), `{"title": "Go", "price": "-1", "stock": 1, "category_id": 1}`)

				require.Equal(t, http.StatusBadRequest, code)
				require.JSONEq(t, `{
					"detail": "Request validation failed",
					"fields": {"price": "Value must be greater than or equal to 0"}
				}`, body)
			})
		})

		t.Run("product not found", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				code, body := env.do(t, http.MethodGet, "/products/99999", "", "")
				require.Equal(t, http.StatusNotFound, code)
				require.JSONEq(t, `{"detail": "Product not found"}`, body)

				code, _ = env.do(t, http.MethodGet, "/products/abc", "", "")
				require.Equal(t, http.StatusUnprocessableEntity, code)
			})
		})

		t.Run("images", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)
				token := env.accessToken(t, admin)
				product := testutil.CreateProduct(t, env.storage, "Go", "10", 1)
				path := "/products/" + strconv.FormatInt(product.ID, 10) + "/images"

				code, body := env.do(t, http.MethodPost, path, token, `{"image_path": "/a.png"}`)
				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
				image := decode[imageResponse](t, body)
				code, _ = env.do(t, http.MethodPost, path, token, `{"image_path": "/b.png"}`)
				require.Equal(t, http.StatusCreated, code)

				code, body = env.do(t, http.MethodGet, path, "", "")
				require.Equal(t, http.StatusOK, code)
				require.Len(t, decode[[]imageResponse](t, body), 2)

				code, body = env.do(t, http.MethodPut, "/images/"+strconv.FormatInt(image.ID, 10), token, `{}`)
				require.Equal(t, http.StatusBadRequest, code)
				require.JSONEq(t, `{"detail": "No fields to update"}`, body)

				code, body = env.do(t, http.MethodDelete, path, token, "")
				require.Equal(t, http.StatusOK, code)
				deleted := decode[struct {
					ProductID  int64   `json:"product_id"`
					DeletedIDs []int64 `json:"deleted_ids"`
				}](t, body)
				require.Equal(t, product.ID, deleted.ProductID)
				require.Len(t, deleted.DeletedIDs, 2)
			})
		})

		t.Run("specifications", func(t *testing.T) {
			withServer(t, func(env testEnv) {
				admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)
				token := env.accessToken(t, admin)
				product := testutil.CreateProduct(t, env.storage, "Go", "10", 1)
				spec := `{"product_id": ` + strconv.FormatInt(product.ID, 10) + `, "specifications": {"pages": 380}}`

				code, body := env.do(t, http.MethodPost, "/specifications", token, spec)
				require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)

				code, body = env.do(t, http.MethodGet, "/products/"+strconv.FormatInt(product.ID, 10)+"/specification", "", "")
				require.Equal(t, http.StatusOK, code)
				require.JSONEq(t, `{"pages": 380}`, string(decode[specResponse](t, body).Specifications))

				code, body = env.do(t, http.MethodPost, "/specifications", token, spec)
				require.Equal(t, http.StatusConflict, code)
				require.JSONEq(t, `{"detail": "Specification for this product already exists"}`, body)
			})
		})
	})

	t.Run("cart", func(t *testing.T) {
		withServer(t, func(env testEnv) {
			customer := testutil.CreateUser(t, env.storage, "customer", testutil.CustomerRoleID)
			token := env.accessToken(t, customer)
			product := testutil.CreateProduct(t, env.storage, "Go", "10.50", 5)
			add := `{"product_id": ` + strconv.FormatInt(product.ID, 10) + `, "quantity": 2}`

			code, body := env.do(t, http.MethodGet, "/cart", token, "")
			require.Equal(t, http.StatusOK, code)
			require.Empty(t, decode[cartResponse](t, body).Items)

			code, body = env.do(t, http.MethodPost, "/cart/items", token, add)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
			c := decode[cartResponse](t, body)
			require.Len(t, c.Items, 1)
			require.Equal(t, "21", c.TotalAmount.String())

			itemPath := "/cart/items/" + strconv.FormatInt(c.Items[0].ID, 10)
			code, body = env.do(t, http.MethodPatch, itemPath, token, `{"quantity": 10}`)
			require.Equal(t, http.StatusBadRequest, code)
			require.JSONEq(t, `{"detail": "Not enough product in stock"}`, body)

			code, body = env.do(t, http.MethodPatch, itemPath, token, `{"quantity": 1}`)
			require.Equal(t, http.StatusOK, code)
			require.Equal(t, "10.5", decode[cartResponse](t, body).TotalAmount.String())

			code, body = env.do(t, http.MethodDelete, "/cart", token, "")
			require.Equal(t, http.StatusOK, code)
			c = decode[cartResponse](t, body)
			require.Empty(t, c.Items)
			require.True(t, c.TotalAmount.IsZero())
		})
	})

	t.Run("orders", func(t *testing.T) {
		withServer(t, func(env testEnv) {
			admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)
			customer := testutil.CreateUser(t, env.storage, "customer", testutil.CustomerRoleID)
			token := env.accessToken(t, admin)
			product := testutil.CreateProduct(t, env.storage, "Go", "10", 5)

			newOrder := `{"user_id": ` + strconv.FormatInt(customer.ID, 10) + `, "order_number": "A-1", "total_amount": "20", "shipping_address": "Main st", "payment_method": "card"}`
			code, body := env.do(t, http.MethodPost, "/orders", token, newOrder)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
			o := decode[orderResponse](t, body)
			require.Equal(t, models.OrderStatusPending, o.Status)
			require.Equal(t, "customer", o.Username)

			itemsPath := "/orders/" + strconv.FormatInt(o.ID, 10) + "/items"
			item := `{"product_id": ` + strconv.FormatInt(product.ID, 10) + `, "quantity": 2, "unit_price": "10"}`
			code, body = env.do(t, http.MethodPost, itemsPath, token, item)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
			created := decode[orderItemResponse](t, body)
			require.Equal(t, "Go", created.ProductTitle)

			code, body = env.do(t, http.MethodGet, itemsPath, token, "")
			require.Equal(t, http.StatusOK, code)
			require.Len(t, decode[[]orderItemResponse](t, body), 1)

			mismatch := `{"order_id": 99999, "product_id": ` + strconv.FormatInt(product.ID, 10) + `, "quantity": 1, "unit_price": "10"}`
			code, body = env.do(t, http.MethodPost, itemsPath, token, mismatch)
			require.Equal(t, http.StatusBadRequest, code)
			require.JSONEq(t, `{"detail": "Order id in path and body does not match"}`, body)

			longStatus := `{"user_id": ` + strconv.FormatInt(customer.ID, 10) + `, "order_number": "A-2", "status": "` + strings.Repeat("s", 33) + `", "shipping_address": "Main st", "payment_method": "card"}`
			code, body = env.do(t, http.MethodPost, "/orders", token, longStatus)
			require.Equal(t, http.StatusBadRequest, code)
			require.JSONEq(t, `{"detail": "Request validation failed", "fields": {"status": "Value is too long (maximum 32)"}}`, body)

			hugeTotal := `{"user_id": ` + strconv.FormatInt(customer.ID, 10) + `, "order_number": "A-2", "total_amount": "10000000000", "shipping_address": "Main st", "payment_method": "card"}`
			code, body = env.do(t, http.MethodPost, "/orders", token, hugeTotal)
			require.Equal(t, http.StatusBadRequest, code)
			require.JSONEq(t, `{"detail": "Request validation failed", "fields": {"total_amount": "Value must be less than 10000000000"}}`, body)

			code, _ = env.do(t, http.MethodGet, "/orders", env.accessToken(t, customer), "")
			require.Equal(t, http.StatusForbidden, code)

			code, _ = env.do(t, http.MethodDelete, "/orders/"+strconv.FormatInt(o.ID, 10), token, "")
			require.Equal(t, http.StatusNoContent, code)
		})
	})

	t.Run("reviews", func(t *testing.T) {
		withServer(t, func(env testEnv) {
			admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)
			author := testutil.CreateUser(t, env.storage, "author", testutil.CustomerRoleID)
			other := testutil.CreateUser(t, env.storage, "other", testutil.CustomerRoleID)
			product := testutil.CreateProduct(t, env.storage, "Go", "10", 5)
			productID := strconv.FormatInt(product.ID, 10)

			code, body := env.do(t, http.MethodPost, "/reviews", env.accessToken(t, author), `{"product_id": `+productID+`, "title": "Great", "rating": 6}`)
			require.Equal(t, http.StatusUnprocessableEntity, code)
			require.JSONEq(t, `{"detail": "Rating must be between 1 and 5"}`, body)

			code, body = env.do(t, http.MethodPost, "/reviews", env.accessToken(t, author), `{"product_id": `+productID+`, "title": "Great", "rating": 5}`)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", body)
			rv := decode[reviewResponse](t, body)
			path := "/reviews/" + strconv.FormatInt(rv.ID, 10)

			code, body = env.do(t, http.MethodGet, "/reviews?product_id="+productID, "", "")
			require.Equal(t, http.StatusOK, code)
			require.Len(t, decode[[]reviewResponse](t, body), 1)

			code, body = env.do(t, http.MethodPut, path, env.accessToken(t, other), `{"title": "Bad"}`)
			require.Equal(t, http.StatusForbidden, code)
			require.JSONEq(t, `{"detail": "Not enough permissions"}`, body)

			code, body = env.do(t, http.MethodPut, path, env.accessToken(t, author), `{"title": "Good"}`)
			require.Equal(t, http.StatusOK, code)
			require.Equal(t, "Good", decode[reviewResponse](t, body).Title)

			code, _ = env.do(t, http.MethodDelete, path, env.accessToken(t, admin), "")
			require.Equal(t, http.StatusNoContent, code)
		})
	})

	t.Run("events", func(t *testing.T) {
		withServer(t, func(env testEnv) {
			admin := testutil.CreateUser(t, env.storage, "admin", testutil.AdminRoleID)
			customer := testutil.CreateUser(t, env.storage, "customer", testutil.CustomerRoleID)
			id, err := env.storage.Event().Create(t.Context(), models.Event{
				EventType:   models.EventAuthLogin,
				UserID:      &customer.ID,
				Description: "User logged in",
				IPAddress:   "127.0.0.1",
			})
			require.NoError(t, err)

			code, _ := env.do(t, http.MethodGet, "/events", env.accessToken(t, customer), "")
			require.Equal(t, http.StatusForbidden, code)

			code, body := env.do(t, http.MethodGet, "/events/"+strconv.FormatInt(id, 10), env.accessToken(t, admin), "")
			require.Equal(t, http.StatusOK, code)
			e := decode[eventResponse](t, body)
			require.Equal(t, models.EventAuthLogin, e.EventType)
			require.Equal(t, customer.ID, *e.UserID)
			require.Equal(t, "127.0.0.1", e.IPAddress)
		})
	})
}
