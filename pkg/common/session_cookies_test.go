package common

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestSessionCookieRoundTrip(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "123456"})
	w := httptest.NewRecorder()

	if id := HandleSessionCookie(nil, w, r); id != 123456 {
		t.Errorf("Expected cookie session id to be kept, got %d", id)
	}
}

func TestSessionCookieAssignedOnFirstRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	id := HandleSessionCookie(nil, w, r)
	if id == 0 {
		t.Fatalf("Expected a generated session id")
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || cookies[0].Value != strconv.Itoa(id) {
		t.Errorf("Expected sid cookie %d to be set, got %v", id, cookies)
	}
}

func TestMalformedSessionCookieGetsFreshId(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "not-a-number"})
	w := httptest.NewRecorder()

	id := HandleSessionCookie(nil, w, r)
	if id == 0 {
		t.Fatalf("Expected a fresh session id for a malformed cookie, got 0")
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != strconv.Itoa(id) {
		t.Errorf("Expected replacement sid cookie %d, got %v", id, cookies)
	}
}
