package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Fixer is implemented by checks that can repair what they find.
// CanFix and Fix are only meaningful after Run.
type Fixer interface {
	CanFix() bool
	Fix() []FixResult
}

// FixResult describes the outcome of one attempted fix.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

const (
	secureFilePerm os.FileMode = 0o644
	secureDirPerm  os.FileMode = 0o755
)

// PermissionFixer chmods the paths a PermissionCheck flagged as fixable.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix reports whether the last run found a fixable issue.
func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// Fix applies every fixable issue from the last run.
func (f *PermissionFixer) Fix() []FixResult {
	results := make([]FixResult, 0, f.CountFixable())
	for _, issue := range f.issues {
		if issue.Fixable {
			results = append(results, f.fixIssue(issue))
		}
	}
	return results
}

func (f *PermissionFixer) fixIssue(issue pathIssue) FixResult {
	result := FixResult{Path: issue.Path}

	var target os.FileMode
	switch issue.Type {
	case "file":
		target = secureFilePerm
	case "directory":
		target = secureDirPerm
	default:
		result.Description = "unknown type: " + issue.Type
		result.Error = errors.Newf("cannot fix unknown type: %s", issue.Type)
		return result
	}

	if err := os.Chmod(issue.Path, target); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o: %v", target, err)
		result.Error = errors.Wrapf(err, "chmod %04o %s", target, issue.Path)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o", target)
	return result
}

func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	n := 0
	for _, issue := range f.issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}
