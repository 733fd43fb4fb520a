package response

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestSuccess(t *testing.T) {
	data := map[string]string{"name": "Ada"}
	resp := Success(data)

	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.Data == nil {
		t.Error("Expected data to be set")
	}
	if resp.Error != nil {
		t.Error("Expected error to be nil")
	}
	if resp.Meta != nil {
		t.Error("Expected meta to be nil")
	}
}

func TestError(t *testing.T) {
	resp := Error(ErrCodeGuestNotFound, "Guest not found")

	if resp.Success {
		t.Error("Expected success to be false")
	}
	if resp.Error == nil {
		t.Fatal("Expected error to be set")
	}
	if resp.Error.Code != ErrCodeGuestNotFound {
		t.Errorf("Expected code %s, got %s", ErrCodeGuestNotFound, resp.Error.Code)
	}
	if resp.Error.Message != "Guest not found" {
		t.Errorf("Expected message 'Guest not found', got '%s'", resp.Error.Message)
	}
}

func TestErrorWithDetails_JSONFormat(t *testing.T) {
	resp := ErrorWithDetails(ErrCodeAlreadyCheckedIn, "Ada is already checked in", map[string]string{
		"guest_name":    "Ada",
		"last_check_in": "2025-06-01T10:00:00Z",
	})

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if parsed["success"] != false {
		t.Errorf("Expected success=false, got %v", parsed["success"])
	}

	errorObj, ok := parsed["error"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected error object")
	}
	if errorObj["code"] != ErrCodeAlreadyCheckedIn {
		t.Errorf("Expected code %s, got %v", ErrCodeAlreadyCheckedIn, errorObj["code"])
	}

	details, ok := errorObj["details"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected details object")
	}
	if details["guest_name"] != "Ada" {
		t.Errorf("Expected guest_name 'Ada', got %v", details["guest_name"])
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeGuestNotFound, http.StatusNotFound},
		{ErrCodeEventNotFound, http.StatusNotFound},
		{ErrCodeAlreadyCheckedIn, http.StatusBadRequest},
		{ErrCodeNotCheckedIn, http.StatusBadRequest},
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeLedgerFault, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := GetHTTPStatus(tt.code); got != tt.expected {
				t.Errorf("GetHTTPStatus(%s) = %d, want %d", tt.code, got, tt.expected)
			}
		})
	}
}

func TestPaginated(t *testing.T) {
	data := []string{"a", "b", "c"}
	resp := Paginated(data, 2, 10, 25)

	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.Meta == nil {
		t.Fatal("Expected meta to be set")
	}
	if resp.Meta.Page != 2 {
		t.Errorf("Expected page 2, got %d", resp.Meta.Page)
	}
	if resp.Meta.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", resp.Meta.TotalPages)
	}
}
