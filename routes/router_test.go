package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivemedellin/vivemedellin/config"
	"github.com/vivemedellin/vivemedellin/services"
	"github.com/vivemedellin/vivemedellin/store"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	cfg := config.AppConfig{
		JWTSecret:          "router-secret",
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		RateLimitPerMinute: 10000,
		StorageDriver:      config.StorageMemory,
	}
	config.Set(cfg)
	cfg = config.Get()

	backend, closeFn, err := store.OpenBackend(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	users := services.NewUserService(store.NewUsers(backend, cfg.UsersKey, nil), nil)
	notifications := services.NewNotificationService(store.NewNotifications(backend, cfg.NotificationsKey, nil), nil)
	groups := services.NewService(
		store.NewGroups(backend, cfg.GroupsKey, nil),
		services.WithNotifier(notifications),
		services.WithUserDirectory(users),
	)
	return &apiClient{t: t, engine: SetupRouter(cfg, Services{Groups: groups, Users: users, Notifications: notifications})}
}

func (c *apiClient) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (c *apiClient) register(email, name string) (token, id string) {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": email, "name": name, "password": "secreto"})
	require.Equal(c.t, http.StatusCreated, code, env.Message)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &data))
	return data.Token, data.User.ID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

type groupView struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Members []struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	} `json:"members"`
}

func TestHealthAndNoRoute(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	code, env = api.do(http.MethodGet, "/api/v1/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, 40400, env.Code)
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.register("ana@example.com", "Ana")

	code, env := api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	me := decode[struct {
		User map[string]any `json:"user"`
	}](t, env.Data)
	assert.Equal(t, id, me.User["id"])
	assert.NotContains(t, me.User, "passwordHash")

	code, _ = api.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = api.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "ana@example.com", "name": "Ana", "password": "secreto"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, 40900, env.Code)
	assert.Equal(t, services.MsgEmailTaken, env.Message)

	code, env = api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "secreto"})
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, decode[map[string]any](t, env.Data)["token"])

	code, _ = api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "mal"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 40000, env.Code)
}

func TestGroupFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ana, anaID := api.register("ana@example.com", "Ana")
	beto, betoID := api.register("beto@example.com", "Beto")

	code, env := api.do(http.MethodPost, "/api/v1/groups", ana, gin.H{"name": "Club de Ajedrez", "isPublic": true})
	require.Equal(t, http.StatusCreated, code, env.Message)
	group := decode[struct {
		Group groupView `json:"group"`
	}](t, env.Data).Group
	assert.Equal(t, "club-de-ajedrez", group.Slug)
	require.Len(t, group.Members, 1)
	assert.Equal(t, anaID, group.Members[0].UserID)

	code, _ = api.do(http.MethodPost, "/api/v1/groups", "", gin.H{"name": "Anónimo"})
	assert.Equal(t, http.StatusUnauthorized, code)

	// anonymous callers can browse public groups
	code, env = api.do(http.MethodGet, "/api/v1/groups", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[struct {
		Items []groupView `json:"items"`
	}](t, env.Data).Items, 1)

	code, _ = api.do(http.MethodGet, "/api/v1/groups/slug/club-de-ajedrez", "", nil)
	assert.Equal(t, http.StatusOK, code)

	base := "/api/v1/groups/" + group.ID
	code, _ = api.do(http.MethodPost, base+"/join", beto, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = api.do(http.MethodPost, base+"/join", beto, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, services.MsgAlreadyMember, env.Message)

	code, env = api.do(http.MethodGet, "/api/v1/groups/mine", beto, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[struct {
		Items []groupView `json:"items"`
	}](t, env.Data).Items, 1)

	code, env = api.do(http.MethodPost, base+"/leave", ana, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, services.MsgCreatorCannotLeave, env.Message)

	code, _ = api.do(http.MethodPut, base+"/members/"+betoID+"/role", beto, gin.H{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodPut, base+"/members/"+betoID+"/role", ana, gin.H{"role": "moderator"})
	assert.Equal(t, http.StatusOK, code)

	code, env = api.do(http.MethodPatch, base, ana, gin.H{"description": "Partidas los sábados"})
	assert.Equal(t, http.StatusOK, code, env.Message)

	code, env = api.do(http.MethodPost, base+"/posts", beto, gin.H{"content": "Apertura siciliana"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	post := decode[struct {
		Post struct {
			ID         string `json:"id"`
			AuthorName string `json:"authorName"`
		} `json:"post"`
	}](t, env.Data).Post
	assert.Equal(t, "Beto", post.AuthorName)

	code, env = api.do(http.MethodPost, base+"/posts", beto, gin.H{})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, 42200, env.Code)

	code, env = api.do(http.MethodGet, base+"/posts/search?q=be", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, services.MsgSearchTooShort, env.Message)
	code, env = api.do(http.MethodGet, base+"/posts/search?q=BETO", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[struct {
		Items []json.RawMessage `json:"items"`
	}](t, env.Data).Items, 1)

	code, env = api.do(http.MethodPost, base+"/posts/"+post.ID+"/comments", ana, gin.H{"content": "¡Buena!"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	commentID := decode[struct {
		Comment struct {
			ID string `json:"id"`
		} `json:"comment"`
	}](t, env.Data).Comment.ID

	code, env = api.do(http.MethodGet, base+"/posts", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[struct {
		Items []json.RawMessage `json:"items"`
	}](t, env.Data).Items, 1)

	code, env = api.do(http.MethodGet, "/api/v1/activity", beto, nil)
	require.Equal(t, http.StatusOK, code)
	summary := decode[services.ActivitySummary](t, env.Data)
	assert.Len(t, summary.RecentPosts, 1)

	// beto was told about ana's comment on his post
	code, env = api.do(http.MethodGet, "/api/v1/notifications/unread-count", beto, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"unread":1}`, string(env.Data))
	code, env = api.do(http.MethodPost, "/api/v1/notifications/read-all", beto, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":1}`, string(env.Data))

	code, env = api.do(http.MethodGet, "/api/v1/notifications", ana, nil)
	require.Equal(t, http.StatusOK, code)
	items := decode[struct {
		Items []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"items"`
	}](t, env.Data).Items
	require.Len(t, items, 2, "join and new post")
	code, _ = api.do(http.MethodPost, "/api/v1/notifications/"+items[0].ID+"/read", ana, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodPost, "/api/v1/notifications/"+items[0].ID+"/read", beto, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(http.MethodDelete, base+"/posts/"+post.ID+"/comments/"+commentID, beto, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodDelete, base+"/posts/"+post.ID+"/comments/"+commentID, ana, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodDelete, base+"/posts/"+post.ID, ana, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodDelete, base, beto, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodDelete, base, ana, nil)
	assert.Equal(t, http.StatusOK, code)
	code, env = api.do(http.MethodGet, base, ana, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, services.MsgGroupNotFound, env.Message)
}

func TestPrivateGroupOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ana, _ := api.register("ana@example.com", "Ana")
	beto, _ := api.register("beto@example.com", "Beto")

	code, env := api.do(http.MethodPost, "/api/v1/groups", ana, gin.H{"name": "Círculo privado", "isPublic": false})
	require.Equal(t, http.StatusCreated, code)
	group := decode[struct {
		Group groupView `json:"group"`
	}](t, env.Data).Group
	assert.Equal(t, "circulo-privado", group.Slug)

	code, env = api.do(http.MethodGet, "/api/v1/groups/"+group.ID, beto, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, 40300, env.Code)

	code, _ = api.do(http.MethodPost, "/api/v1/groups/"+group.ID+"/join", beto, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(http.MethodGet, "/api/v1/groups/"+group.ID+"/posts", "", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(http.MethodGet, "/api/v1/groups/"+group.ID, ana, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestPostTextOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ana, _ := api.register("ana@example.com", "Ana")

	code, env := api.do(http.MethodPost, "/api/v1/groups", ana, gin.H{"name": "Programadores", "isPublic": true})
	require.Equal(t, http.StatusCreated, code, env.Message)
	base := "/api/v1/groups/" + decode[struct {
		Group groupView `json:"group"`
	}](t, env.Data).Group.ID

	type commentBody struct {
		Content     string `json:"content"`
		ContentHTML string `json:"contentHtml"`
	}
	type postBody struct {
		ID          string        `json:"id"`
		Content     string        `json:"content"`
		ContentHTML string        `json:"contentHtml"`
		Comments    []commentBody `json:"comments"`
	}

	code, env = api.do(http.MethodPost, base+"/posts", ana, gin.H{"content": "si a<b entonces b>a\n<script>alert(1)</script>"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	post := decode[struct {
		Post postBody `json:"post"`
	}](t, env.Data).Post
	assert.Equal(t, "si a<b entonces b>a\n<script>alert(1)</script>", post.Content)
	assert.Equal(t, "si a&lt;b entonces b&gt;a<br>&lt;script&gt;alert(1)&lt;/script&gt;", post.ContentHTML)

	code, env = api.do(http.MethodPost, base+"/posts/"+post.ID+"/comments", ana, gin.H{"content": "usa <div> para el layout"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	comment := decode[struct {
		Comment commentBody `json:"comment"`
	}](t, env.Data).Comment
	assert.Equal(t, "usa <div> para el layout", comment.Content)
	assert.Equal(t, "usa &lt;div&gt; para el layout", comment.ContentHTML)

	code, env = api.do(http.MethodGet, base+"/posts", "", nil)
	require.Equal(t, http.StatusOK, code)
	items := decode[struct {
		Items []postBody `json:"items"`
	}](t, env.Data).Items
	require.Len(t, items, 1)
	assert.Equal(t, post.Content, items[0].Content)
	require.Len(t, items[0].Comments, 1)
	assert.Equal(t, "usa <div> para el layout", items[0].Comments[0].Content)
}
