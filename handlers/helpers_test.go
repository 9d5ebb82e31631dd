// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/testutil"
)

// postAdmin calls an admin action handler for /elections/{id}/<action>
func postAdmin(h http.HandlerFunc, electionID, adminKey, action string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/"+action, nil,
		map[string]string{"X-Admin-Key": adminKey})
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// getBySlug calls a public handler for /elections/{slug}/<suffix>
func getBySlug(h http.HandlerFunc, slug, suffix string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("GET", "/elections/"+slug+suffix, nil, nil)
	req.SetPathValue("slug", slug)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// submitChoices posts a ballot; -1 leaves a rank unset
func submitChoices(h http.HandlerFunc, slug string, choices ...int) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/elections/"+slug+"/ballots", ballotRequest(choices...), nil)
	req.SetPathValue("slug", slug)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func ballotRequest(choices ...int) map[string]any {
	out := make([]*int, len(choices))
	for i, c := range choices {
		if c >= 0 {
			out[i] = testutil.IntPtr(c)
		}
	}
	return map[string]any{"choices": out}
}

func adminKeyFor(cfg cliparse.Config, electionID string) string {
	return auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)
}
