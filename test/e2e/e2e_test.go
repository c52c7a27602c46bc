//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hdbaza/helpdesk-api/internal/model"
)

// The server under test must run with
// STATIC_TOKENS="e2e-admin:e2e_admin:admin:e2e_admin@example.com;e2e-user:e2e_user:user:e2e_user@example.com".
const (
	defaultBaseURL  = "http://localhost:8001/api"
	defaultMongoURL = "mongodb://localhost:27017"
	defaultDBName   = "helpdesk"
	defaultAdminTok = "e2e-admin"
	defaultUserTok  = "e2e-user"
)

var (
	baseURL    string
	adminToken string
	userToken  string
	problemID  string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = envOr("BASE_URL", defaultBaseURL)
	adminToken = envOr("E2E_ADMIN_TOKEN", defaultAdminTok)
	userToken = envOr("E2E_USER_TOKEN", defaultUserTok)

	// 1. Clean the store
	if err := cleanStore(); err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}

	// 2. Run Tests
	os.Exit(m.Run())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// cleanStore removes tickets and instructions left by earlier runs. The admin
// directory is left alone so the last-admin guard keeps its seed.
func cleanStore() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if envOr("STORAGE_DRIVER", "mongo") == "postgres" {
		conn, err := pgx.Connect(ctx, os.Getenv("DATABASE_URL"))
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer conn.Close(ctx)

		for _, table := range []string{"instructions", "problems"} {
			if _, err := conn.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				return fmt.Errorf("cleanup %s: %w", table, err)
			}
		}
		return nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(envOr("MONGO_URL", defaultMongoURL)))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(envOr("DB_NAME", defaultDBName))
	for _, coll := range []string{"instructions", "problems"} {
		if _, err := db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("cleanup %s: %w", coll, err)
		}
	}
	return nil
}

func TestE2EFlow(t *testing.T) {
	// Step 1: Liveness
	t.Run("Root", func(t *testing.T) {
		resp, err := get("/", "")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	// Step 2: Submit a ticket as a user
	t.Run("CreateProblem", func(t *testing.T) {
		reqBody := model.CreateProblemRequest{
			Title:       "Brak internetu",
			Description: "Nie działa sieć w sali 12",
			Category:    model.CategoryNetwork,
		}
		resp, err := send(http.MethodPost, "/problems", reqBody, userToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Problem model.Problem `json:"problem"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		problemID = body.Data.Problem.ID
		if problemID == "" || body.Data.Problem.Status != model.StatusNew {
			t.Fatalf("unexpected problem: %+v", body.Data.Problem)
		}
	})

	// Step 3: Users cannot change status
	t.Run("UserStatusForbidden", func(t *testing.T) {
		resp, err := send(http.MethodPut, "/problems/"+problemID+"/status", map[string]string{"status": "W toku"}, userToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d. Body: %s", resp.StatusCode, readBody(resp))
		}
	})

	// Step 4: Admin takes the ticket
	t.Run("AdminInProgress", func(t *testing.T) {
		resp, err := send(http.MethodPut, "/problems/"+problemID+"/status", map[string]string{"status": "W toku"}, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	// Step 5: Admin resolves it with an instruction
	t.Run("CreateInstruction", func(t *testing.T) {
		reqBody := model.CreateInstructionRequest{
			ProblemID:       problemID,
			InstructionText: "Uruchom ponownie router.",
		}
		resp, err := send(http.MethodPost, "/instructions", reqBody, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		status := problemStatus(t, problemID)
		if status != model.StatusResolved {
			t.Errorf("status after instruction = %q, want %q", status, model.StatusResolved)
		}
	})

	// Step 6: Filter and stats
	t.Run("ListResolvedNetwork", func(t *testing.T) {
		resp, err := get("/problems?status=Rozwi%C4%85zany&category=Sie%C4%87", userToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Data struct {
				Problems []model.Problem `json:"problems"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if len(body.Data.Problems) != 1 {
			t.Errorf("Expected 1 resolved network problem, got %d", len(body.Data.Problems))
		}
	})

	t.Run("Stats", func(t *testing.T) {
		resp, err := get("/stats", userToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Data model.Stats `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Total != 1 || body.Data.ByStatus[model.StatusResolved] != 1 {
			t.Errorf("unexpected stats: %+v", body.Data)
		}
	})

	// Step 7: Delete cascades to the instruction
	t.Run("DeleteProblem", func(t *testing.T) {
		resp, err := send(http.MethodDelete, "/problems/"+problemID, nil, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}

		resp, err = get("/instructions/"+problemID, userToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Data struct {
				Instruction *model.Instruction `json:"instruction"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Instruction != nil {
			t.Errorf("instruction survived problem delete: %+v", body.Data.Instruction)
		}
	})
}

func problemStatus(t *testing.T, id string) model.ProblemStatus {
	t.Helper()
	resp, err := get("/problems/"+id, userToken)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Data struct {
			Problem model.Problem `json:"problem"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &body)
	return body.Data.Problem.Status
}

// Helpers

func send(method, path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func get(path string, token string) (*http.Response, error) {
	return send(http.MethodGet, path, nil, token)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
