package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/ostryk/contactio/internal/adapters/handler/http"
	repo "github.com/ostryk/contactio/internal/adapters/repository/postgres"
	"github.com/ostryk/contactio/internal/core/services"
)

const testJWTSecret = "test-secret"

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Sender      *capturingSender
	DBContainer testcontainers.Container
}

// capturingSender records confirmation links instead of sending mail.
type capturingSender struct {
	sent chan string
}

func (s *capturingSender) SendConfirmation(_ context.Context, _, _, confirmURL string) error {
	s.sent <- confirmURL
	return nil
}

func (s *capturingSender) WaitForConfirmURL(t *testing.T) string {
	t.Helper()
	select {
	case url := <-s.sent:
		return url
	case <-time.After(5 * time.Second):
		t.Fatal("confirmation email was not sent")
		return ""
	}
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	userRepo := repo.NewUserRepository(db)
	contactRepo := repo.NewContactRepository(db)

	sender := &capturingSender{sent: make(chan string, 8)}
	hasher := services.NewPasswordHasher(bcrypt.MinCost)
	tokens := services.NewTokenService(testJWTSecret, time.Hour, 24*time.Hour)
	authSvc := services.NewAuthService(userRepo, hasher, tokens, sender)
	userSvc := services.NewUserService(userRepo, &memoryAvatarStore{})
	contactSvc := services.NewContactService(contactRepo)

	router := handler.NewHandler(
		handler.NewAuthHandler(authSvc),
		handler.NewUserHandler(userSvc),
		handler.NewContactHandler(contactSvc),
		handler.NewHealthHandler(db),
		handler.NewAuthenticator(authSvc),
	)
	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Sender:      sender,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.DBContainer.Terminate(context.Background()))
}

// memoryAvatarStore keeps uploaded avatars in memory for tests.
type memoryAvatarStore struct{}

func (s *memoryAvatarStore) Save(filename string, data io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, data); err != nil {
		return "", err
	}
	return "/avatars/" + uuid.New().String() + filepath.Ext(filename), nil
}

// registerAndLogin creates a confirmed user through the API and returns the
// username and a valid access token.
func registerAndLogin(t *testing.T, app *TestApp) (string, string) {
	t.Helper()

	suffix := uuid.New().String()[:8]
	username := "user" + suffix
	email := fmt.Sprintf("%s@example.com", username)

	resp := postJSON(t, app, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "Secret1!",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	confirmURL := app.Sender.WaitForConfirmURL(t)
	token := confirmURL[strings.LastIndex(confirmURL, "/")+1:]

	confirmResp, err := app.Client.Get(app.Server.URL + "/auth/confirmed_email/" + token)
	require.NoError(t, err)
	defer confirmResp.Body.Close()
	require.Equal(t, http.StatusOK, confirmResp.StatusCode)

	loginResp := postJSON(t, app, "/auth/login", "", map[string]string{
		"username": username,
		"password": "Secret1!",
	})
	defer loginResp.Body.Close()
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&body))
	require.Equal(t, "bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)

	return username, body.AccessToken
}

func postJSON(t *testing.T, app *TestApp, path, token string, payload any) *http.Response {
	t.Helper()
	return doJSON(t, app, http.MethodPost, path, token, payload)
}

func doJSON(t *testing.T, app *TestApp, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, app *TestApp, path, token string) *http.Response {
	t.Helper()
	return doJSON(t, app, http.MethodGet, path, token, nil)
}

func decodeContacts(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var contacts []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&contacts))
	return contacts
}
