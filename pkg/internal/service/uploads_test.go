package service

import (
	"context"
	"strings"
	"testing"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

func TestInitiateUpload(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	resp, err := svc.InitiateUpload(ctx, file.ID, types.InitiateUploadRequest{
		FileName:    "Q3 report (final).pdf",
		ContentType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	prefix := "files/" + file.ID + "/"
	if !strings.HasPrefix(resp.ObjectKey, prefix) {
		t.Errorf("object key %q missing prefix %q", resp.ObjectKey, prefix)
	}

	if !strings.HasSuffix(resp.ObjectKey, "/Q3_report__final_.pdf") {
		t.Errorf("object key %q not sanitized as expected", resp.ObjectKey)
	}

	if resp.PutURL == "" {
		t.Error("empty put URL")
	}

	if resp.ExpiresIn != int(DefaultPresignedOpTimeout.Seconds()) {
		t.Errorf("expires_in = %d", resp.ExpiresIn)
	}

	if store.putCalls != 1 {
		t.Errorf("presigned put calls = %d, want 1", store.putCalls)
	}
}

func TestInitiateUploadMissingFile(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.InitiateUpload(context.Background(), "no-such-file", types.InitiateUploadRequest{FileName: "a.pdf"})
	if !IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestInitiateUploadTokensDiffer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	a, err := svc.InitiateUpload(ctx, file.ID, types.InitiateUploadRequest{FileName: "same.pdf"})
	if err != nil {
		t.Fatalf("first initiate: %v", err)
	}

	b, err := svc.InitiateUpload(ctx, file.ID, types.InitiateUploadRequest{FileName: "same.pdf"})
	if err != nil {
		t.Fatalf("second initiate: %v", err)
	}

	// 同名文件的两次上传因令牌不同而互不覆盖
	if a.ObjectKey == b.ObjectKey {
		t.Errorf("object keys collide: %q", a.ObjectKey)
	}
}

func TestCompleteUploadAppendsVersions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	v1 := mustComplete(t, svc, file.ID, "alice", 100)
	if v1.VersionNo != 1 {
		t.Errorf("first version_no = %d, want 1", v1.VersionNo)
	}

	v2 := mustComplete(t, svc, file.ID, "alice", 250)
	if v2.VersionNo != 2 {
		t.Errorf("second version_no = %d, want 2", v2.VersionNo)
	}

	// 当前版本指针与镜像大小都推进到最新版本
	reloaded, err := svc.GetFile(ctx, file.ID)
	if err != nil {
		t.Fatalf("reload file: %v", err)
	}

	if reloaded.CurrentVersionID == nil || *reloaded.CurrentVersionID != v2.VersionID {
		t.Errorf("current_version_id = %v, want %s", reloaded.CurrentVersionID, v2.VersionID)
	}

	if reloaded.SizeBytes != 250 {
		t.Errorf("mirrored size = %d, want 250", reloaded.SizeBytes)
	}

	versions, err := svc.ListVersions(ctx, file.ID)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}

	if len(versions) != 2 {
		t.Fatalf("version count = %d, want 2", len(versions))
	}

	// 从新到旧
	if versions[0].VersionNo != 2 || versions[1].VersionNo != 1 {
		t.Errorf("versions not ordered newest first: %d, %d", versions[0].VersionNo, versions[1].VersionNo)
	}
}

func TestCompleteUploadForeignObjectKey(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")
	other := mustCreateFile(t, svc, "other.pdf")

	initiated, err := svc.InitiateUpload(ctx, other.ID, types.InitiateUploadRequest{FileName: "other.pdf"})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	// 别的文件签发的键不能提交到这个文件
	_, err = svc.CompleteUpload(ctx, file.ID, "alice", types.CompleteUploadRequest{
		ObjectKey: initiated.ObjectKey,
		Size:      1,
	})
	if !IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestCompleteUploadLockedByOther(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	if _, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0); err != nil {
		t.Fatalf("alice acquire: %v", err)
	}

	initiated, err := svc.InitiateUpload(ctx, file.ID, types.InitiateUploadRequest{FileName: "doc.pdf"})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	_, err = svc.CompleteUpload(ctx, file.ID, "bob", types.CompleteUploadRequest{
		ObjectKey: initiated.ObjectKey,
		Size:      1,
	})

	conflict, ok := AsConflict(err)
	if !ok {
		t.Fatalf("want ConflictError, got %v", err)
	}

	if conflict.Holder != "alice" {
		t.Errorf("conflict holder = %s, want alice", conflict.Holder)
	}

	// 持有者本人提交放行
	if _, err := svc.CompleteUpload(ctx, file.ID, "alice", types.CompleteUploadRequest{
		ObjectKey: initiated.ObjectKey,
		Size:      1,
	}); err != nil {
		t.Fatalf("holder complete: %v", err)
	}
}

func TestCompleteUploadDeclaredMeta(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	initiated, err := svc.InitiateUpload(ctx, file.ID, types.InitiateUploadRequest{FileName: "doc.pdf"})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	sha := strings.Repeat("AB", 32)

	completed, err := svc.CompleteUpload(ctx, file.ID, "alice", types.CompleteUploadRequest{
		ObjectKey: initiated.ObjectKey,
		Size:      4096,
		SHA256:    sha,
		ETag:      "etag-1",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	version, err := svc.CurrentVersion(ctx, file.ID)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}

	if version.ID != completed.VersionID {
		t.Errorf("current version = %s, want %s", version.ID, completed.VersionID)
	}

	if version.SizeBytes != 4096 {
		t.Errorf("size = %d, want 4096", version.SizeBytes)
	}

	// 哈希归一化为小写存储
	if version.SHA256 != strings.ToLower(sha) {
		t.Errorf("sha256 = %s, want lowercase", version.SHA256)
	}

	if version.ETag != "etag-1" {
		t.Errorf("etag = %s", version.ETag)
	}
}

func TestNextVersionNumber(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	next, err := svc.NextVersionNumber(ctx, file.ID)
	if err != nil {
		t.Fatalf("next version number: %v", err)
	}

	if next != 1 {
		t.Errorf("next = %d, want 1", next)
	}

	mustComplete(t, svc, file.ID, "alice", 10)

	next, err = svc.NextVersionNumber(ctx, file.ID)
	if err != nil {
		t.Fatalf("next version number: %v", err)
	}

	if next != 2 {
		t.Errorf("next = %d, want 2", next)
	}
}

func TestCurrentVersionEmptyFile(t *testing.T) {
	svc, _ := newTestService(t)
	file := mustCreateFile(t, svc, "empty.pdf")

	version, err := svc.CurrentVersion(context.Background(), file.ID)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}

	if version != nil {
		t.Errorf("expected nil version for empty file, got %+v", version)
	}
}
