package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electrodrive/catalog-api/internal/models"
)

func (f *fixture) createMotor(t *testing.T, token string, name string, power float64) string {
	t.Helper()

	status, body := f.do(t, http.MethodPost, "/api/v1/motors", token, motorPayload(name, power))
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	return body["data"].(map[string]any)["id"].(string)
}

func TestListMotorsPublicWithFiltersAndPagination(t *testing.T) {
	f := newFixture(t)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)

	for i := 0; i < 12; i++ {
		f.createMotor(t, editor, fmt.Sprintf("motor-%02d", i), float64(i+1))
	}

	// unauthenticated read
	status, body := f.do(t, http.MethodGet, "/api/v1/motors?page=2&limit=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["count"])
	assert.Equal(t, float64(12), body["total"])

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(3), pagination["pages"])
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(5), pagination["limit"])

	// power range filter
	status, body = f.do(t, http.MethodGet, "/api/v1/motors?minPower=4&maxPower=6", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), body["total"])

	// substring search on name
	status, body = f.do(t, http.MethodGet, "/api/v1/motors?search=MOTOR-01", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])

	// page beyond the last: empty data, total intact
	status, body = f.do(t, http.MethodGet, "/api/v1/motors?page=99&limit=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, float64(12), body["total"])
	assert.Empty(t, body["data"])
}

func TestGetMotor(t *testing.T) {
	f := newFixture(t)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)
	id := f.createMotor(t, editor, "servo", 2.2)

	status, body := f.do(t, http.MethodGet, "/api/v1/motors/"+id, "", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "servo", data["name"])

	status, body = f.do(t, http.MethodGet, "/api/v1/motors/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "motor not found", body["error"])
}

func TestCreateMotorValidation(t *testing.T) {
	f := newFixture(t)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)

	payload := motorPayload("incomplete", 1)
	delete(payload, "power")
	status, body := f.do(t, http.MethodPost, "/api/v1/motors", editor, payload)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "please provide the motor power", body["error"])
}

func TestRoleGatingMatrix(t *testing.T) {
	f := newFixture(t)

	admin := f.tokenWithRole(t, "admin", models.RoleAdmin)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)
	user := f.tokenWithRole(t, "user", models.RoleUser)

	targetID := f.createMotor(t, admin, "target", 1)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   map[string]any
		want   int
	}{
		{"user cannot create", http.MethodPost, "/api/v1/motors", user, motorPayload("x", 1), http.StatusForbidden},
		{"user cannot update", http.MethodPut, "/api/v1/motors/" + targetID, user, map[string]any{"power": 2}, http.StatusForbidden},
		{"user cannot delete", http.MethodDelete, "/api/v1/motors/" + targetID, user, nil, http.StatusForbidden},
		{"editor can create", http.MethodPost, "/api/v1/motors", editor, motorPayload("e", 1), http.StatusCreated},
		{"editor can update", http.MethodPut, "/api/v1/motors/" + targetID, editor, map[string]any{"power": 2}, http.StatusOK},
		{"editor cannot delete", http.MethodDelete, "/api/v1/motors/" + targetID, editor, nil, http.StatusForbidden},
		{"admin can create", http.MethodPost, "/api/v1/motors", admin, motorPayload("a", 1), http.StatusCreated},
		{"admin can update", http.MethodPut, "/api/v1/motors/" + targetID, admin, map[string]any{"power": 3}, http.StatusOK},
		{"admin can delete", http.MethodDelete, "/api/v1/motors/" + targetID, admin, nil, http.StatusOK},
		{"anonymous cannot create", http.MethodPost, "/api/v1/motors", "", motorPayload("x", 1), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := f.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.want, status, "body: %v", body)
		})
	}
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	admin := f.tokenWithRole(t, "admin", models.RoleAdmin)

	status, _ := f.do(t, http.MethodPut, "/api/v1/motors/missing", admin, map[string]any{"power": 2})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/motors/missing", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSearchMotors(t *testing.T) {
	f := newFixture(t)
	editor := f.tokenWithRole(t, "editor", models.RoleEditor)
	f.createMotor(t, editor, "Servo drive", 2.2)
	f.createMotor(t, editor, "Stepper", 0.5)

	status, body := f.do(t, http.MethodGet, "/api/v1/motors/search?keyword=servo", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = f.do(t, http.MethodGet, "/api/v1/motors/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "please provide a search keyword", body["error"])
}

// Mirrors the editor/admin lifecycle end to end.
func TestMotorLifecycleScenario(t *testing.T) {
	f := newFixture(t)

	editor := f.tokenWithRole(t, "editor", models.RoleEditor)
	admin := f.tokenWithRole(t, "admin", models.RoleAdmin)

	payload := motorPayload("Motor 775", 288)
	status, body := f.do(t, http.MethodPost, "/api/v1/motors", editor, payload)
	require.Equal(t, http.StatusCreated, status)

	created := body["data"].(map[string]any)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Motor 775", created["name"])
	assert.Equal(t, float64(288), created["power"])
	assert.Equal(t, true, created["available"])
	assert.NotEmpty(t, created["updatedAt"])

	// the stored entry reads back with identical fields
	status, body = f.do(t, http.MethodGet, "/api/v1/motors/"+id, "", nil)
	require.Equal(t, http.StatusOK, status)
	fetched := body["data"].(map[string]any)
	assert.Equal(t, created["name"], fetched["name"])
	assert.Equal(t, created["power"], fetched["power"])
	assert.Equal(t, created["available"], fetched["available"])

	// editor may not delete
	status, _ = f.do(t, http.MethodDelete, "/api/v1/motors/"+id, editor, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// admin may
	status, _ = f.do(t, http.MethodDelete, "/api/v1/motors/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/motors/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
