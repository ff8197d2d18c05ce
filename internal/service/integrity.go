package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/saadjs/fitweek/internal/model"
	"github.com/saadjs/fitweek/internal/store"
)

type RecordStatus string

const (
	RecordOK      RecordStatus = "ok"
	RecordMissing RecordStatus = "missing"
	RecordCorrupt RecordStatus = "corrupt"
)

type DoctorReport struct {
	Catalog             RecordStatus `json:"catalog"`
	Plan                RecordStatus `json:"plan"`
	DanglingEntries     int          `json:"dangling_entries"`
	DuplicateWorkoutIDs int          `json:"duplicate_workout_ids"`
	PrunedEntries       int          `json:"pruned_entries,omitempty"`
	RepairedRecords     int          `json:"repaired_records,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return r.Catalog != RecordCorrupt && r.Plan != RecordCorrupt && r.DanglingEntries == 0 && r.DuplicateWorkoutIDs == 0
}

// RunDoctor inspects the raw records without going through the planner's
// fallbacks. With fix set, corrupt records are rewritten from defaults and
// dangling entries are pruned.
func RunDoctor(kv store.KV, fix bool, opts ...Option) (DoctorReport, error) {
	report := DoctorReport{Catalog: RecordOK, Plan: RecordOK}

	var catalog model.Catalog
	raw, found, err := kv.Get(KeyWorkouts)
	if err != nil {
		return report, fmt.Errorf("doctor read catalog: %w", err)
	}
	switch {
	case !found:
		report.Catalog = RecordMissing
	default:
		catalog, err = DecodeCatalog(raw)
		if err != nil {
			report.Catalog = RecordCorrupt
		}
	}

	plan := EmptyPlan()
	raw, found, err = kv.Get(KeyPlan)
	if err != nil {
		return report, fmt.Errorf("doctor read plan: %w", err)
	}
	switch {
	case !found:
		report.Plan = RecordMissing
	default:
		decoded, err := DecodePlan(raw)
		if err != nil {
			report.Plan = RecordCorrupt
		} else {
			plan = decoded
		}
	}

	seen := make(map[string]bool, len(catalog))
	for _, w := range catalog {
		if seen[w.ID] {
			report.DuplicateWorkoutIDs++
		}
		seen[w.ID] = true
	}
	// Without a usable catalog the fix seeds fresh ids, so every entry dangles.
	for _, d := range model.Days {
		for _, e := range plan[d] {
			if !seen[e.WorkoutID] {
				report.DanglingEntries++
			}
		}
	}

	if !fix || (report.Catalog != RecordCorrupt && report.Plan != RecordCorrupt && report.DanglingEntries == 0) {
		return report, nil
	}

	p := NewPlanner(kv, opts...)
	if err := p.Init(); err != nil {
		return report, fmt.Errorf("doctor init planner: %w", err)
	}
	if report.Catalog == RecordCorrupt {
		report.RepairedRecords++
	}
	if report.Plan == RecordCorrupt {
		report.RepairedRecords++
	}
	current := p.Catalog()
	pruned := EmptyPlan()
	for _, d := range model.Days {
		for _, e := range plan[d] {
			if _, ok := current.Find(e.WorkoutID); !ok {
				report.PrunedEntries++
				continue
			}
			pruned[d] = append(pruned[d], e)
		}
	}
	if err := p.ReplaceState(current, pruned); err != nil {
		return report, fmt.Errorf("doctor write repaired records: %w", err)
	}
	return report, nil
}

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// CreateBackup writes a consistent copy of the open database with VACUUM INTO
// and records its sha256 in a sidecar file.
func CreateBackup(db *sql.DB, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("backup %s already exists", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := db.Exec(`VACUUM INTO ?`, outPath); err != nil {
		return BackupInfo{}, fmt.Errorf("write backup: %w", err)
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// RestoreBackup verifies the sidecar checksum when present and copies the
// backup over dbPath. Without force an existing database is left alone.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("stat backup: %w", err)
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	if expected, err := os.ReadFile(backupPath + ".sha256"); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".db" {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := f.Info()
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	tmp := dst + ".restore"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync destination file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close destination file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
