package roster

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := openTestStore(t)
	r := gin.New()
	r.POST("/create-room", CreateRoom(s))
	r.POST("/join-room", JoinRoom(s))
	r.POST("/leave-room", LeaveRoom(s))
	r.GET("/rooms/:id/members", Members(s))
	return r, s
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJoinRoomMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, body := range []string{`{}`, `{"roomId":"x"}`, `{"userId":"u1"}`, `not json`} {
		if w := doJSON(r, http.MethodPost, "/join-room", body); w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d, want 400", body, w.Code)
		}
	}
}

func TestJoinRoomUnknownRoom(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/join-room", `{"roomId":"nope","userId":"u1"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestJoinAndLeaveFlow(t *testing.T) {
	r, s := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/create-room", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("create status=%d, want 200", w.Code)
	}
	var created struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.RoomID == "" {
		t.Fatalf("create response %q unusable: %v", w.Body.String(), err)
	}

	w = doJSON(r, http.MethodPost, "/join-room", `{"roomId":"`+created.RoomID+`","userId":"u1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("join status=%d, want 200", w.Code)
	}
	rows, err := s.Members(created.RoomID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows=%+v err=%v, want one membership row", rows, err)
	}

	w = doJSON(r, http.MethodGet, "/rooms/"+created.RoomID+"/members", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("members status=%d, want 200", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/leave-room", `{"roomId":"`+created.RoomID+`","userId":"u1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("leave status=%d, want 200", w.Code)
	}
	rows, _ = s.Members(created.RoomID)
	if len(rows) != 0 {
		t.Fatalf("rows=%+v after leave, want none", rows)
	}
}

func TestMembersUnknownRoom(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := doJSON(r, http.MethodGet, "/rooms/nope/members", ``); w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}
