// Package client wraps HTTP calls to the Taskdeck API, attaching the cached
// session cookie and decoding JSON bodies.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fmoreau/taskdeck/cmd/cli/config"
)

// sessionCookieName matches the cookie the API issues on login/register.
const sessionCookieName = "token"

// Do sends a JSON request to the API. When withSession is true the cached
// token is attached as the session cookie. The response body is decoded into
// out when out is non-nil; non-2xx responses become errors carrying the body.
func Do(method, path string, payload any, out any, withSession bool) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withSession {
		token, err := config.LoadToken()
		if err != nil {
			return fmt.Errorf("not logged in, run: taskdeck auth login")
		}
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
	}
	return nil
}

// DoAndSaveSession is Do for login/register: it additionally captures the
// session cookie from the response and caches its token.
func DoAndSaveSession(method, path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, config.APIURL()+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			if err := config.SaveToken(c.Value); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
	}
	return nil
}
