package service

import (
	"context"
	"strings"
	"testing"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

func TestSafeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"Q3 report (final).pdf", "Q3_report__final_.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\alice\budget.xlsx`, "budget.xlsx"},
		{"发票2025.pdf", "__2025.pdf"},
		{"...", "file"},
		{"", "file"},
		{strings.Repeat("a", 300) + ".pdf", strings.Repeat("a", maxSafeNameLen)},
	}

	for _, tc := range cases {
		if got := safeFileName(tc.in); got != tc.want {
			t.Errorf("safeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreateFile(t *testing.T) {
	svc, _ := newTestService(t)

	file := mustCreateFile(t, svc, "invoice-0042.pdf")
	if file.ID == "" {
		t.Fatal("missing file ID")
	}

	if file.CurrentVersionID != nil {
		t.Error("fresh file should have no current version")
	}

	if file.SizeBytes != 0 {
		t.Errorf("fresh file size = %d, want 0", file.SizeBytes)
	}
}

func TestCreateFileBlankName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateFile(context.Background(), "alice", types.CreateFileRequest{Name: "   "})
	if !IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestListFilesProjectFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	projectA := "7b0d9c62-5c1e-4f8a-9d3b-2f6a8e4c1b0a"

	if _, err := svc.CreateFile(ctx, "alice", types.CreateFileRequest{Name: "a.pdf", ProjectID: projectA}); err != nil {
		t.Fatalf("create a: %v", err)
	}

	if _, err := svc.CreateFile(ctx, "alice", types.CreateFileRequest{Name: "b.pdf"}); err != nil {
		t.Fatalf("create b: %v", err)
	}

	all, err := svc.ListFiles(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}

	if len(all) != 2 {
		t.Errorf("all files = %d, want 2", len(all))
	}

	scoped, err := svc.ListFiles(ctx, projectA)
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}

	if len(scoped) != 1 || scoped[0].Name != "a.pdf" {
		t.Errorf("scoped list = %+v, want only a.pdf", scoped)
	}
}

func TestFileMetadata(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	completed := mustComplete(t, svc, file.ID, "alice", 512)

	if _, err := svc.AcquireLock(ctx, file.ID, "alice", "ws-02", 0); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	meta, version, lock, err := svc.FileMetadata(ctx, file.ID)
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}

	if meta.ID != file.ID {
		t.Errorf("file id = %s", meta.ID)
	}

	if version == nil || version.ID != completed.VersionID {
		t.Errorf("current version = %+v, want %s", version, completed.VersionID)
	}

	if lock == nil || lock.LockedBy != "alice" {
		t.Errorf("lock = %+v, want held by alice", lock)
	}
}

func TestRenameKeepsExtension(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "budget 2024.xlsx")

	renamed, err := svc.RenameFile(ctx, file.ID, "alice", "budget 2025")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}

	if renamed.Name != "budget_2025.xlsx" {
		t.Errorf("renamed to %q, want budget_2025.xlsx", renamed.Name)
	}

	// 已带同样扩展名的新名字不会重复追加
	renamed, err = svc.RenameFile(ctx, file.ID, "alice", "budget-final.xlsx")
	if err != nil {
		t.Fatalf("second rename: %v", err)
	}

	if renamed.Name != "budget-final.xlsx" {
		t.Errorf("renamed to %q, want budget-final.xlsx", renamed.Name)
	}
}

func TestRenameBlankName(t *testing.T) {
	svc, _ := newTestService(t)
	file := mustCreateFile(t, svc, "a.pdf")

	if _, err := svc.RenameFile(context.Background(), file.ID, "alice", " .. "); !IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestRenameLockedByOther(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	if _, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	_, err := svc.RenameFile(ctx, file.ID, "bob", "stolen")
	if _, ok := AsConflict(err); !ok {
		t.Fatalf("want ConflictError, got %v", err)
	}

	// 持有者自己改名放行
	if _, err := svc.RenameFile(ctx, file.ID, "alice", "mine"); err != nil {
		t.Fatalf("holder rename: %v", err)
	}
}

func TestRenameAfterLockExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	backdateLock(t, svc, lock.ID)

	// 过期锁不再挡写
	if _, err := svc.RenameFile(ctx, file.ID, "bob", "taken-over"); err != nil {
		t.Fatalf("rename after expiry: %v", err)
	}
}

func TestDeleteFileCascades(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	v1 := mustComplete(t, svc, file.ID, "alice", 10)
	v2 := mustComplete(t, svc, file.ID, "alice", 20)

	deleted, err := svc.DeleteFile(ctx, file.ID, "alice")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if deleted != 2 {
		t.Errorf("deleted versions = %d, want 2", deleted)
	}

	if _, err := svc.GetFile(ctx, file.ID); !IsNotFound(err) {
		t.Fatalf("file should be gone, got %v", err)
	}

	var versionCount int64
	if err := svc.dbClient.Model(&model.FileVersion{}).
		Where("file_id = ?", file.ID).Count(&versionCount).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}

	if versionCount != 0 {
		t.Errorf("version rows remaining = %d", versionCount)
	}

	removed := store.removed()
	if len(removed) != 2 {
		t.Fatalf("objects removed = %d, want 2", len(removed))
	}

	got := map[string]bool{removed[0]: true, removed[1]: true}
	if !got[v1.ObjectKey] || !got[v2.ObjectKey] {
		t.Errorf("removed %v, want %s and %s", removed, v1.ObjectKey, v2.ObjectKey)
	}
}

func TestDeleteFileLockedByOther(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "report.pdf")

	if _, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, err := svc.DeleteFile(ctx, file.ID, "bob"); err == nil {
		t.Fatal("delete should be blocked by foreign lock")
	} else if _, ok := AsConflict(err); !ok {
		t.Fatalf("want ConflictError, got %v", err)
	}
}

func TestDeleteFileMissing(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.DeleteFile(context.Background(), "no-such-file", "alice"); !IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}
