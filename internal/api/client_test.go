package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskdeck/internal/model"
)

func TestCreateTodoPreservesFields(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/todos/", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in model.TaskCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		out := model.Task{
			ID:        "550e8400-e29b-41d4-a716-446655440000",
			Title:     in.Title,
			Priority:  in.Priority,
			Category:  in.Category,
			Completed: false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	c := testClient(srv)
	task, err := c.CreateTodo(context.Background(), "tok-123", model.TaskCreate{
		Title:    "Buy milk",
		Priority: model.PriorityHigh,
		Category: "Shopping",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, "Shopping", task.Category)
	assert.False(t, task.Completed)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestCreateTodoRejectsLongTitleBeforeNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := testClient(srv)
	_, err := c.CreateTodo(context.Background(), "tok", model.TaskCreate{
		Title: strings.Repeat("x", 201),
	})
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "validation must fail before any network call")

	_, err = c.CreateTodo(context.Background(), "tok", model.TaskCreate{Title: "   "})
	require.ErrorIs(t, err, model.ErrEmptyTitle)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestUpdateTodoSendsOnlySuppliedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/todos/abc", r.URL.Path)

		b, _ := io.ReadAll(r.Body)
		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(b, &raw))
		assert.Len(t, raw, 1, "only the supplied field travels: %s", b)
		assert.Contains(t, raw, "completed")

		json.NewEncoder(w).Encode(model.Task{ID: "abc", Title: "kept", Completed: true})
	}))
	defer srv.Close()

	c := testClient(srv)
	done := true
	task, err := c.UpdateTodo(context.Background(), "tok", "abc", model.TaskUpdate{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "kept", task.Title, "omitted fields keep their server values")
	assert.True(t, task.Completed)
}

func TestDeleteTodoIdempotent(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		body   string
		ok     bool
	}{
		{"no content", http.StatusNoContent, "", true},
		{"already gone", http.StatusNotFound, `{"detail":"Todo not found"}`, true},
		{"forbidden", http.StatusForbidden, `{"detail":"not yours"}`, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodDelete, r.Method)
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			ok, err := testClient(srv).DeleteTodo(context.Background(), "tok", "abc")
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "not yours", apiErr.Detail)
			}
		})
	}
}

func TestErrorBodyParsing(t *testing.T) {
	t.Run("string detail", func(t *testing.T) {
		e := parseAPIError(400, []byte(`{"detail":"title too long"}`))
		assert.Equal(t, "title too long", e.Detail)
		assert.Equal(t, 400, e.Status)
	})

	t.Run("field detail list", func(t *testing.T) {
		body := `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address","type":"value_error.email"}]}`
		e := parseAPIError(422, []byte(body))
		assert.Equal(t, "value is not a valid email address", e.Detail)
		msg, ok := e.FieldMessage("email")
		assert.True(t, ok)
		assert.Equal(t, "value is not a valid email address", msg)
		_, ok = e.FieldMessage("password")
		assert.False(t, ok)
	})

	t.Run("unparseable body", func(t *testing.T) {
		e := parseAPIError(502, []byte("<html>bad gateway</html>"))
		assert.Equal(t, "request failed with status 502", e.Detail)
		assert.Equal(t, "request failed with status 502", e.Error())
	})
}

func TestDashboardStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dashboard/stats/", r.URL.Path)
		w.Write([]byte(`{"total_tasks":3,"completed":1,"in_progress":2,"overdue":0,"completion_rate":33.33,"today_tasks":1}`))
	}))
	defer srv.Close()

	stats, err := testClient(srv).DashboardStats(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 1, stats.Completed)
	assert.InDelta(t, 33.33, stats.CompletionRate, 0.01)
}

func TestAnalytics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dashboard/analytics/", r.URL.Path)
		w.Write([]byte(`{
			"completion_trend":[{"date":"2026-08-29","completed":2,"created":3}],
			"category_distribution":[{"category":"Work","count":4,"color":"#8b5cf6"}],
			"priority_breakdown":[{"priority":"high","count":1,"percentage":25}]
		}`))
	}))
	defer srv.Close()

	charts, err := testClient(srv).Analytics(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, charts.CompletionTrend, 1)
	assert.Equal(t, "2026-08-29", charts.CompletionTrend[0].Date)
	assert.Equal(t, 3, charts.CompletionTrend[0].Created)
	require.Len(t, charts.CategoryDistribution, 1)
	assert.Equal(t, "Work", charts.CategoryDistribution[0].Category)
	require.Len(t, charts.PriorityBreakdown, 1)
	assert.Equal(t, model.PriorityHigh, charts.PriorityBreakdown[0].Priority)
	assert.InDelta(t, 25.0, charts.PriorityBreakdown[0].Percentage, 0.01)
}

func TestTasksByCategoryGroupsLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/todos/", r.URL.Path)
		json.NewEncoder(w).Encode([]model.Task{
			{ID: "1", Title: "a", Category: "Work"},
			{ID: "2", Title: "b", Category: "Work", Completed: true},
			{ID: "3", Title: "c", Category: ""},
		})
	}))
	defer srv.Close()

	grouped, err := testClient(srv).TasksByCategory(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["Work"], 2)
	assert.Len(t, grouped[model.DefaultCategory], 1)
	assert.Equal(t, "completed", grouped["Work"][1].Status)
}

func TestSignInWrongPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/signin", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}))
	defer srv.Close()

	res := testClient(srv).SignIn(context.Background(), model.Credentials{
		Email:    "me@example.com",
		Password: "wrong",
	})
	assert.False(t, res.OK())
	assert.Empty(t, res.Token)
	require.NotNil(t, res.Failure)
	assert.Equal(t, "Incorrect email or password", res.Failure.Message)
}

func TestSignInNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(Options{BaseURL: srv.URL, MaxRetries: 1, RetryBase: time.Millisecond})
	res := c.SignIn(context.Background(), model.Credentials{Email: "me@example.com", Password: "pw"})
	assert.False(t, res.OK())
	assert.Equal(t, "network_error", res.Failure.Code)
}

func TestSignInSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-abc","user":{"id":"u1","email":"me@example.com","name":"Me"}}`))
	}))
	defer srv.Close()

	res := testClient(srv).SignIn(context.Background(), model.Credentials{
		Email:    "me@example.com",
		Password: "pw",
	})
	require.True(t, res.OK())
	assert.Equal(t, "tok-abc", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "Me", res.User.Name)
}

func TestSignUpFieldError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"A user with this email already exists"}`))
	}))
	defer srv.Close()

	res := testClient(srv).SignUp(context.Background(), model.Registration{
		Name:            "Me",
		Email:           "me@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		AgreeToTerms:    true,
	})
	assert.False(t, res.OK())
	assert.Equal(t, "A user with this email already exists", res.Failure.Message)
}

func TestSignUpValidatesLocally(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	res := testClient(srv).SignUp(context.Background(), model.Registration{
		Name:            "Me",
		Email:           "me@example.com",
		Password:        "longenough",
		ConfirmPassword: "different",
		AgreeToTerms:    true,
	})
	assert.False(t, res.OK())
	assert.Equal(t, "validation_error", res.Failure.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestVerifyEmail(t *testing.T) {
	var sent map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/verify-email", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
	}))
	defer srv.Close()

	require.NoError(t, testClient(srv).VerifyEmail(context.Background(), "verif-123"))
	assert.Equal(t, "verif-123", sent["token"])
}

func TestVerifyEmailBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Invalid or expired verification token"}`))
	}))
	defer srv.Close()

	err := testClient(srv).VerifyEmail(context.Background(), "stale")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid or expired verification token", apiErr.Detail)
}

func TestCheckEmailFailOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, MaxRetries: 1, RetryBase: time.Millisecond})
	assert.True(t, c.CheckEmail(context.Background(), "me@example.com"),
		"probe failure must report available, never block registration")
}
