package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/trezcool/hudhuria/apps/api/echo"
	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/user"
)

func Test_authApi_login(t *testing.T) {
	usr := createUser(t, "authuser", s3cr3t, []string{access.RoleStudent})

	tests := []httpTest{
		{
			name:     "wrong password",
			body:     marchallObj(t, echoapi.LoginRequest{Username: usr.Username, Password: "nope"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "unknown user",
			body:     marchallObj(t, echoapi.LoginRequest{Username: "ghost", Password: s3cr3t}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "missing credentials",
			body:     marchallObj(t, echoapi.LoginRequest{}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("login ok", func(t *testing.T) {
		body := marchallObj(t, echoapi.LoginRequest{Username: "AuthUser", Password: s3cr3t}) // cleaned to lowercase
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp echoapi.LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Token == "" {
			t.Error("login did not return a token")
		}
	})
}

func Test_authApi_me(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodGet, "/v1/auth/me")
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("me ok", func(t *testing.T) {
		usr := createUser(t, "meuser", s3cr3t, []string{access.RoleStudent})
		req, rec := newAuthRequest(http.MethodGet, "/v1/auth/me", getToken(t, usr))
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Username != "meuser" || got.ID != usr.ID {
			t.Errorf("me = %+v, want %s", got, usr.Username)
		}
	})
}

func Test_authApi_refreshToken(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodPost, "/v1/auth/token-refresh")
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("refresh ok", func(t *testing.T) {
		usr := createUser(t, "refreshuser", s3cr3t, []string{access.RoleStudent})
		req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", getToken(t, usr))
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp echoapi.LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Token == "" {
			t.Error("refresh did not return a token")
		}
	})
}
