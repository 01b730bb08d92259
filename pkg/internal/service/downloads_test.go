package service

import (
	"context"
	"strings"
	"testing"
	"time"

	appcache "github.com/alsulaimanm93/minifixwood/pkg/cache"
	kvc "github.com/alsulaimanm93/minifixwood/pkg/internal/storage/kv"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

func TestClampPresignExpiry(t *testing.T) {
	cases := []struct {
		seconds int
		want    time.Duration
	}{
		{0, DefaultPresignedOpTimeout},
		{-5, DefaultPresignedOpTimeout},
		{60, time.Minute},
		{8 * 24 * 3600, maxPresignExpiry},
	}

	for _, tc := range cases {
		if got := clampPresignExpiry(tc.seconds); got != tc.want {
			t.Errorf("clampPresignExpiry(%d) = %v, want %v", tc.seconds, got, tc.want)
		}
	}
}

func TestPresignDownload(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")
	completed := mustComplete(t, svc, file.ID, "alice", 100)

	resp, err := svc.PresignDownload(ctx, file.ID, types.PresignDownloadRequest{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	if resp.ObjectKey != completed.ObjectKey {
		t.Errorf("object key = %s, want %s", resp.ObjectKey, completed.ObjectKey)
	}

	if resp.ExpiresIn != int(DefaultPresignedOpTimeout.Seconds()) {
		t.Errorf("expires_in = %d", resp.ExpiresIn)
	}

	// 默认按附件下载并覆盖响应类型
	if !strings.Contains(resp.URL, "response-content-disposition") ||
		!strings.Contains(resp.URL, "attachment") {
		t.Errorf("URL missing attachment disposition: %s", resp.URL)
	}

	if !strings.Contains(resp.URL, "response-content-type") {
		t.Errorf("URL missing content type override: %s", resp.URL)
	}
}

func TestPresignDownloadInline(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")
	mustComplete(t, svc, file.ID, "alice", 100)

	resp, err := svc.PresignDownload(ctx, file.ID, types.PresignDownloadRequest{
		Disposition: "inline",
	})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	if !strings.Contains(resp.URL, "inline") {
		t.Errorf("URL missing inline disposition: %s", resp.URL)
	}
}

func TestPresignDownloadNoVersion(t *testing.T) {
	svc, _ := newTestService(t)
	file := mustCreateFile(t, svc, "empty.pdf")

	_, err := svc.PresignDownload(context.Background(), file.ID, types.PresignDownloadRequest{})
	if !IsNotFound(err) {
		t.Fatalf("want NotFoundError for file without content, got %v", err)
	}
}

func TestPresignDownloadVersion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	v1 := mustComplete(t, svc, file.ID, "alice", 10)
	mustComplete(t, svc, file.ID, "alice", 20)

	resp, err := svc.PresignDownloadVersion(ctx, file.ID, v1.VersionID, types.PresignDownloadRequest{})
	if err != nil {
		t.Fatalf("presign version: %v", err)
	}

	// 历史版本仍然可下载
	if resp.ObjectKey != v1.ObjectKey {
		t.Errorf("object key = %s, want %s", resp.ObjectKey, v1.ObjectKey)
	}
}

func TestPresignDownloadVersionWrongFile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")
	other := mustCreateFile(t, svc, "other.pdf")
	v1 := mustComplete(t, svc, file.ID, "alice", 10)

	_, err := svc.PresignDownloadVersion(ctx, other.ID, v1.VersionID, types.PresignDownloadRequest{})
	if !IsNotFound(err) {
		t.Fatalf("want NotFoundError for foreign version, got %v", err)
	}
}

func TestPresignDownloadURLCache(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	memStore, err := kvc.NewKVStore(ctx, kvc.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("memory kv: %v", err)
	}

	svc.urlCache = appcache.NewCache(memStore)

	file := mustCreateFile(t, svc, "report.pdf")
	mustComplete(t, svc, file.ID, "alice", 100)

	first, err := svc.PresignDownload(ctx, file.ID, types.PresignDownloadRequest{})
	if err != nil {
		t.Fatalf("first presign: %v", err)
	}

	second, err := svc.PresignDownload(ctx, file.ID, types.PresignDownloadRequest{})
	if err != nil {
		t.Fatalf("second presign: %v", err)
	}

	if first.URL != second.URL {
		t.Errorf("cached URL differs:\n%s\n%s", first.URL, second.URL)
	}

	if store.getCalls != 1 {
		t.Errorf("presigned get calls = %d, want 1 (second should hit cache)", store.getCalls)
	}

	// 参数不同走不同缓存键
	inline, err := svc.PresignDownload(ctx, file.ID, types.PresignDownloadRequest{Disposition: "inline"})
	if err != nil {
		t.Fatalf("inline presign: %v", err)
	}

	if inline.URL == first.URL {
		t.Error("different disposition should mint a different URL")
	}

	if store.getCalls != 2 {
		t.Errorf("presigned get calls = %d, want 2", store.getCalls)
	}
}
