package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := map[string]struct {
		latest, current string
		want            bool
	}{
		"patch bump":             {latest: "1.2.4", current: "1.2.3", want: true},
		"same":                   {latest: "1.2.3", current: "1.2.3", want: false},
		"older":                  {latest: "1.2.3", current: "1.3.0", want: false},
		"double digit minor":     {latest: "1.10.0", current: "1.9.9", want: true},
		"double digit is older":  {latest: "1.9.0", current: "1.10.0", want: false},
		"v prefix":               {latest: "v2.0.0", current: "1.99.0", want: true},
		"missing patch":          {latest: "1.3", current: "1.2.9", want: true},
		"release after rc":       {latest: "1.2.0", current: "1.2.0-rc.1", want: true},
		"rc before release":      {latest: "1.2.0-rc.1", current: "1.2.0", want: false},
		"build metadata ignored": {latest: "1.2.3+abc", current: "1.2.3", want: false},
		"unparsable latest":      {latest: "nightly", current: "1.2.3", want: false},
		"empty latest":           {latest: "", current: "1.2.3", want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsNewer(tc.latest, tc.current))
		})
	}
}

func TestInfo_String(t *testing.T) {
	tests := map[string]struct {
		info Info
		want string
	}{
		"development": {info: Info{}, want: "0.0.0-dev (development)"},
		"commit only": {info: Info{Version: "1.0.0", Commit: "abc1234"}, want: "1.0.0 (commit: abc1234)"},
		"full": {
			info: Info{Version: "1.0.0", Commit: "abc1234", BuildTime: "2026-01-02T10:20:30Z"},
			want: "1.0.0 (commit: abc1234, built at: 2026-01-02T10:20:30Z)",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.info.String())
		})
	}
}

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	got := fromBuildInfo(Info{Version: devVersion}, bi)
	assert.Equal(t, "1.4.0-dirty", got.Version)
	assert.Equal(t, "0123456", got.Commit)
	assert.Equal(t, "2026-03-04T05:06:07Z", got.BuildTime)

	pinned := fromBuildInfo(Info{Version: "2.0.0", Commit: "fffffff"}, bi)
	assert.Equal(t, "2.0.0", pinned.Version)
	assert.Equal(t, "fffffff", pinned.Commit)
}

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v1.5.2","name":"1.5.2"}`))
	}))
	t.Cleanup(srv.Close)

	got, err := LatestRelease(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "1.5.2", got)
}

func TestLatestRelease_Errors(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(notFound.Close)
	_, err := LatestRelease(context.Background(), notFound.URL)
	assert.Error(t, err)

	noTag := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(noTag.Close)
	_, err = LatestRelease(context.Background(), noTag.URL)
	assert.Error(t, err)
}
