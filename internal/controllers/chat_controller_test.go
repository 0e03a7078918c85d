package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valeod/internal/models"
	"valeod/internal/services"
	"valeod/internal/testutil"
)

func newChatControllerFixture() (*ChatController, services.RegistryServiceInterface) {
	registry := services.NewRegistryService(testutil.NewMockStorage(), &testutil.MockLogger{})
	return NewChatController(&testutil.MockLogger{}, registry), registry
}

func postJSON(handler http.HandlerFunc, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func getURL(handler http.HandlerFunc, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestChatController_Link_Created(t *testing.T) {
	cc, _ := newChatControllerFixture()

	w := postJSON(cc.Link, "/link",
		`{"chat_id":"-100","platform":"onlyfans","account_id":"acc-1","nickname":"Bella"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp mappingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Created)
	require.NotNil(t, resp.Mapping)
	require.Len(t, resp.Mapping.Models, 1)
	assert.Equal(t, "Bella", resp.Mapping.Models[0].Nickname)
}

func TestChatController_Link_SecondModelReturnsOK(t *testing.T) {
	cc, _ := newChatControllerFixture()

	w := postJSON(cc.Link, "/link", `{"chat_id":"-100","platform":"onlyfans","account_id":"acc-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(cc.Link, "/link", `{"chat_id":"-100","platform":"fansly","account_id":"acc-2"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatController_Link_MissingFields(t *testing.T) {
	cc, _ := newChatControllerFixture()

	w := postJSON(cc.Link, "/link", `{"chat_id":"-100"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatController_Link_MalformedBody(t *testing.T) {
	cc, _ := newChatControllerFixture()

	w := postJSON(cc.Link, "/link", `{broken`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatController_Link_UnsupportedPlatform(t *testing.T) {
	cc, _ := newChatControllerFixture()

	w := postJSON(cc.Link, "/link", `{"chat_id":"-100","platform":"instagram","account_id":"acc-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatController_Link_NicknameCollision(t *testing.T) {
	cc, _ := newChatControllerFixture()

	body := `{"chat_id":"-100","platform":"onlyfans","account_id":"acc-1","nickname":"Bella"}`
	require.Equal(t, http.StatusCreated, postJSON(cc.Link, "/link", body).Code)

	w := postJSON(cc.Link, "/link", `{"chat_id":"-100","platform":"fansly","account_id":"acc-2","nickname":"bella"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChatController_Link_Duplicate(t *testing.T) {
	cc, _ := newChatControllerFixture()

	body := `{"chat_id":"-100","platform":"onlyfans","account_id":"acc-1"}`
	require.Equal(t, http.StatusCreated, postJSON(cc.Link, "/link", body).Code)

	w := postJSON(cc.Link, "/link", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChatController_Unlink(t *testing.T) {
	cc, registry := newChatControllerFixture()
	_, _, err := registry.Link(context.Background(), "-100", "onlyfans", "acc-1", "", "Bella")
	require.NoError(t, err)

	w := postJSON(cc.Unlink, "/unlink", `{"chat_id":"-100","model":"bella"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp unlinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.MappingDeleted)
	require.Len(t, resp.Removed, 1)
	assert.Equal(t, "acc-1", resp.Removed[0].AccountID)
}

func TestChatController_Unlink_UnknownChat(t *testing.T) {
	cc, _ := newChatControllerFixture()

	w := postJSON(cc.Unlink, "/unlink", `{"chat_id":"-100","model":"acc-1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatController_Unlink_UnknownModel(t *testing.T) {
	cc, registry := newChatControllerFixture()
	_, _, err := registry.Link(context.Background(), "-100", "onlyfans", "acc-1", "", "")
	require.NoError(t, err)

	w := postJSON(cc.Unlink, "/unlink", `{"chat_id":"-100","model":"acc-9"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatController_GetConfig(t *testing.T) {
	cc, registry := newChatControllerFixture()
	_, _, err := registry.Link(context.Background(), "-100", "onlyfans", "acc-1", models.ChatTypeChatter, "")
	require.NoError(t, err)

	w := getURL(cc.GetConfig, "/config?chat=-100")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp mappingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ChatTypeChatter, resp.Mapping.ChatType)
	assert.True(t, resp.Mapping.EnableWhaleAlerts)
}

func TestChatController_GetConfig_NotLinked(t *testing.T) {
	cc, _ := newChatControllerFixture()

	w := getURL(cc.GetConfig, "/config?chat=-404")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatController_SetConfig_Toggle(t *testing.T) {
	cc, registry := newChatControllerFixture()
	_, _, err := registry.Link(context.Background(), "-100", "onlyfans", "acc-1", "", "")
	require.NoError(t, err)

	w := postJSON(cc.SetConfig, "/config", `{"chat_id":"-100","setting":"whale","enabled":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	mapping, err := registry.Get(context.Background(), "-100")
	require.NoError(t, err)
	assert.True(t, mapping.EnableWhaleAlerts)
}

func TestChatController_SetConfig_Threshold(t *testing.T) {
	cc, registry := newChatControllerFixture()
	_, _, err := registry.Link(context.Background(), "-100", "onlyfans", "acc-1", "", "")
	require.NoError(t, err)

	w := postJSON(cc.SetConfig, "/config", `{"chat_id":"-100","setting":"threshold","threshold":5}`)
	assert.Equal(t, http.StatusOK, w.Code)

	mapping, err := registry.Get(context.Background(), "-100")
	require.NoError(t, err)
	assert.Equal(t, 5, mapping.WhaleAlertThreshold)
}

func TestChatController_SetConfig_ThresholdOutOfRange(t *testing.T) {
	cc, registry := newChatControllerFixture()
	_, _, err := registry.Link(context.Background(), "-100", "onlyfans", "acc-1", "", "")
	require.NoError(t, err)

	w := postJSON(cc.SetConfig, "/config", `{"chat_id":"-100","setting":"threshold","threshold":6}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mapping, err := registry.Get(context.Background(), "-100")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWhaleThreshold, mapping.WhaleAlertThreshold)
}

func TestChatController_SetConfig_MissingValue(t *testing.T) {
	cc, _ := newChatControllerFixture()

	w := postJSON(cc.SetConfig, "/config", `{"chat_id":"-100","setting":"daily"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatController_GetModels(t *testing.T) {
	cc, registry := newChatControllerFixture()
	_, _, err := registry.Link(context.Background(), "-100", "onlyfans", "acc-1", "", "Bella")
	require.NoError(t, err)
	_, _, err = registry.Link(context.Background(), "-100", "fansly", "acc-2", "", "")
	require.NoError(t, err)

	w := getURL(cc.GetModels, "/models?chat=-100")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ChatID   string              `json:"chat_id"`
		ChatType string              `json:"chat_type"`
		Models   []*models.ModelLink `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "-100", resp.ChatID)
	assert.Len(t, resp.Models, 2)
}
