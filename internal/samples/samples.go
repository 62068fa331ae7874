// Package samples inspects the local sample documents directory. It only
// reports what is on disk; uploading and indexing are the caller's job.
package samples

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xlab/treeprint"

	"github.com/calebwray/tome/pkg/domain"
)

// Status is the on-disk state of one expected sample document.
type Status struct {
	Spec    domain.SampleSpec
	Path    string
	Present bool
	Size    int64
}

// Scan checks every expected sample against dir. A sample counts as present
// only if it is a regular, non-empty file. A missing or unreadable directory
// is not an error: every sample simply reports absent.
func Scan(dir string) []Status {
	statuses := make([]Status, 0, len(domain.Samples))
	for _, spec := range domain.Samples {
		path := filepath.Join(dir, spec.Path)
		st := Status{Spec: spec, Path: path}
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
			st.Present = true
			st.Size = info.Size()
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// Present filters a scan down to the samples that exist on disk.
func Present(statuses []Status) []Status {
	var out []Status
	for _, st := range statuses {
		if st.Present {
			out = append(out, st)
		}
	}
	return out
}

// Tree renders dir as a file tree with human-readable sizes, for display.
func Tree(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("samples.Tree: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	tree := treeprint.New()
	tree.SetValue(filepath.Base(dir))
	for _, e := range entries {
		if e.IsDir() {
			tree.AddBranch(e.Name() + "/")
			continue
		}
		info, err := e.Info()
		if err != nil {
			tree.AddNode(e.Name())
			continue
		}
		tree.AddMetaNode(HumanSize(info.Size()), e.Name())
	}
	return tree.String(), nil
}

// HumanSize formats a byte count for display (e.g. "1.2 MB").
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
