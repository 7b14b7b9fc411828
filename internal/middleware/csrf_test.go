// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfHandler() http.Handler {
	return CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRFSetsCookieOnFirstVisit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)

	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			found = true
			if c.Value == "" {
				t.Error("CSRF cookie value is empty")
			}
			if c.SameSite != http.SameSiteStrictMode {
				t.Errorf("cookie SameSite: got %v, want StrictMode", c.SameSite)
			}
		}
	}
	if !found {
		t.Error("CSRF cookie not set on GET")
	}
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	handler := csrfHandler()

	getRR := httptest.NewRecorder()
	handler.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/", nil))

	postReq := httptest.NewRequest(http.MethodPost, "/p/hello/clap", nil)
	for _, c := range getRR.Result().Cookies() {
		postReq.AddCookie(c)
	}
	postRR := httptest.NewRecorder()
	handler.ServeHTTP(postRR, postReq)

	if postRR.Code != http.StatusForbidden {
		t.Errorf("POST without token: got %d, want 403", postRR.Code)
	}
}

func TestCSRFAcceptsMatchingFormField(t *testing.T) {
	handler := csrfHandler()

	getRR := httptest.NewRecorder()
	handler.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/", nil))

	var token string
	for _, c := range getRR.Result().Cookies() {
		if c.Name == CSRFCookieName {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("no CSRF token issued")
	}

	form := url.Values{CSRFFormField: {token}}
	postReq := httptest.NewRequest(http.MethodPost, "/p/hello/clap", strings.NewReader(form.Encode()))
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range getRR.Result().Cookies() {
		postReq.AddCookie(c)
	}
	postRR := httptest.NewRecorder()
	handler.ServeHTTP(postRR, postReq)

	if postRR.Code != http.StatusOK {
		t.Errorf("POST with matching form token: got %d, want 200", postRR.Code)
	}
}

func TestCSRFAcceptsMatchingHeader(t *testing.T) {
	handler := csrfHandler()

	getRR := httptest.NewRecorder()
	handler.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/", nil))

	var token string
	for _, c := range getRR.Result().Cookies() {
		if c.Name == CSRFCookieName {
			token = c.Value
		}
	}

	postReq := httptest.NewRequest(http.MethodPost, "/p/hello/clap", nil)
	postReq.Header.Set(CSRFHeaderName, token)
	for _, c := range getRR.Result().Cookies() {
		postReq.AddCookie(c)
	}
	postRR := httptest.NewRecorder()
	handler.ServeHTTP(postRR, postReq)

	if postRR.Code != http.StatusOK {
		t.Errorf("POST with matching header token: got %d, want 200", postRR.Code)
	}
}
