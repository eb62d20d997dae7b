package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"

	"antifraud/internal/config"
	"antifraud/internal/logger"
)

func newFeishuServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/tenant_access_token/internal"):
			_, _ = w.Write([]byte(`{"code":0,"msg":"ok","tenant_access_token":"t-1","expire":7200}`))
		case strings.HasSuffix(r.URL.Path, "/records"):
			_, _ = w.Write([]byte(`{"code":0,"data":{"has_more":false,"items":[` +
				`{"record_id":"rec1","fields":{"标题":"案例","摘要":"在杭州市发生刷单诈骗"}}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Feishu.AppID = "cli_test"
	cfg.Feishu.AppSecret = "secret"
	cfg.Feishu.BaseURL = baseURL
	cfg.Feishu.BaseID = "bascnTest"
	cfg.Feishu.TableID = "tblTest"

	return cfg
}

func TestNew_MemoryBackend(t *testing.T) {
	srv := newFeishuServer(t)

	a, err := New(context.Background(), testConfig(srv.URL), logger.NewNopLogger(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if a.Articles.Backend() != "memory" {
		t.Errorf("Backend() = %s, want memory", a.Articles.Backend())
	}

	got := a.Articles.GetAllArticles(context.Background())
	if len(got) != 1 || got[0].Analysis.ScamType != "刷单" || got[0].Analysis.Location != "杭州" {
		t.Errorf("unexpected articles: %+v", got)
	}
}

func TestNew_RedisBackend(t *testing.T) {
	srv := newFeishuServer(t)
	mr := miniredis.RunT(t)

	cfg := testConfig(srv.URL)
	cfg.Cache.Type = config.CacheTypeRedis
	cfg.Cache.RedisAddr = mr.Addr()

	a, err := New(context.Background(), cfg, logger.NewNopLogger(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if a.Articles.Backend() != "redis" {
		t.Errorf("Backend() = %s, want redis", a.Articles.Backend())
	}

	if got := a.Articles.GetAllArticles(context.Background()); len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}

	if !mr.Exists(cfg.Cache.RedisKey) {
		t.Errorf("expected snapshot under %s", cfg.Cache.RedisKey)
	}
}

func TestNew_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.Cache.Type = config.CacheTypeRedis
	cfg.Cache.RedisAddr = addr

	if _, err := New(context.Background(), cfg, logger.NewNopLogger(), nil); err == nil {
		t.Error("expected error for unreachable redis")
	}
}
