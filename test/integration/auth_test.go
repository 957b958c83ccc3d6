package integration

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterConfirmLoginFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := postJSON(t, app, "/auth/register", "", map[string]string{
		"username": "anna",
		"email":    "anna@example.com",
		"password": "Secret1!",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "anna", created["username"])
	assert.NotContains(t, created, "hashed_password")

	// Login before confirmation is rejected even with correct credentials.
	loginResp := postJSON(t, app, "/auth/login", "", map[string]string{
		"username": "anna",
		"password": "Secret1!",
	})
	defer loginResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, loginResp.StatusCode)

	confirmURL := app.Sender.WaitForConfirmURL(t)
	token := confirmURL[strings.LastIndex(confirmURL, "/")+1:]

	confirmResp, err := app.Client.Get(app.Server.URL + "/auth/confirmed_email/" + token)
	require.NoError(t, err)
	defer confirmResp.Body.Close()
	require.Equal(t, http.StatusOK, confirmResp.StatusCode)

	loginResp = postJSON(t, app, "/auth/login", "", map[string]string{
		"username": "anna",
		"password": "Secret1!",
	})
	defer loginResp.Body.Close()
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var tokenBody map[string]string
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&tokenBody))
	assert.Equal(t, "bearer", tokenBody["token_type"])

	// The issued token resolves back to the same account.
	meResp := getJSON(t, app, "/users/me", tokenBody["access_token"])
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var me map[string]any
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, "anna", me["username"])
	assert.Equal(t, created["id"], me["id"])
}

func TestRegister_DuplicateUsernameAndEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := postJSON(t, app, "/auth/register", "", map[string]string{
		"username": "anna",
		"email":    "anna@example.com",
		"password": "Secret1!",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dupEmail := postJSON(t, app, "/auth/register", "", map[string]string{
		"username": "notanna",
		"email":    "anna@example.com",
		"password": "Secret1!",
	})
	defer dupEmail.Body.Close()
	assert.Equal(t, http.StatusConflict, dupEmail.StatusCode)

	dupUsername := postJSON(t, app, "/auth/register", "", map[string]string{
		"username": "anna",
		"email":    "other@example.com",
		"password": "Secret1!",
	})
	defer dupUsername.Body.Close()
	assert.Equal(t, http.StatusConflict, dupUsername.StatusCode)
}

func TestRegister_InvalidPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := postJSON(t, app, "/auth/register", "", map[string]string{
		"username": "anna",
		"email":    "anna@example.com",
		"password": "tooweak",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	registerAndLogin(t, app)

	resp := postJSON(t, app, "/auth/login", "", map[string]string{
		"username": "whoever",
		"password": "Whatever1!",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConfirmEmail_BadToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp, err := app.Client.Get(app.Server.URL + "/auth/confirmed_email/not-a-real-token")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConfirmEmail_AccessTokenRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	// An access token must not be accepted on the confirmation endpoint.
	_, accessToken := registerAndLogin(t, app)
	resp, err := app.Client.Get(app.Server.URL + "/auth/confirmed_email/" + accessToken)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := postJSON(t, app, "/auth/register", "", map[string]string{
		"username": "anna",
		"email":    "anna@example.com",
		"password": "Secret1!",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	app.Sender.WaitForConfirmURL(t)

	reResp := postJSON(t, app, "/auth/request_email", "", map[string]string{
		"email": "anna@example.com",
	})
	defer reResp.Body.Close()
	require.Equal(t, http.StatusOK, reResp.StatusCode)
	app.Sender.WaitForConfirmURL(t)

	unknown := postJSON(t, app, "/auth/request_email", "", map[string]string{
		"email": "nobody@example.com",
	})
	defer unknown.Body.Close()
	assert.Equal(t, http.StatusBadRequest, unknown.StatusCode)
}
